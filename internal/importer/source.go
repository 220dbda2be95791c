package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// StatblockExt is the extension of statblock generator exports.
const StatblockExt = ".monster"

// Source expands import arguments into the statblock files to import.
//
// Postcondition: returns the files in a deterministic order, or a non-nil error.
type Source interface {
	Files(args []string) ([]string, error)
}

// DirSource accepts files and directories. Files are taken as given whatever
// their extension; directories contribute their *.monster entries, non-recursively.
type DirSource struct{}

// NewDirSource returns a DirSource.
func NewDirSource() DirSource {
	return DirSource{}
}

// Files implements Source.
//
// Precondition: every arg must exist.
func (DirSource) Files(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", arg, err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), StatblockExt) {
				continue
			}
			found = append(found, filepath.Join(arg, e.Name()))
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}
