// Package yamlstore persists converted creatures as one YAML document per
// creature in a directory.
package yamlstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/tetracube/internal/ability"
	"github.com/cory-johannsen/tetracube/internal/derive"
	"github.com/cory-johannsen/tetracube/internal/importer"
)

// ErrCreatureNotFound is returned when no document exists for a reference.
var ErrCreatureNotFound = errors.New("creature not found")

const docExt = ".yaml"

// Document is the on-disk shape of one creature.
type Document struct {
	Ref      string            `yaml:"ref"`
	Actor    *derive.Actor     `yaml:"actor"`
	Features []ability.Feature `yaml:"features"`
}

// Store writes creature documents under a directory. It implements importer.Store.
type Store struct {
	dir string

	// mu serialises read-modify-write of a single document.
	mu sync.Mutex
}

var _ importer.Store = (*Store)(nil)

// New returns a Store rooted at dir, creating the directory if needed.
//
// Precondition: dir must be non-empty.
// Postcondition: Returns a usable Store or a non-nil error.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("yamlstore: directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// CreateCreature writes a new document for actor. The reference is the
// creature's snake_case name followed by a random UUID.
func (s *Store) CreateCreature(ctx context.Context, actor *derive.Actor) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ref := importer.NameToID(actor.Name) + "_" + uuid.NewString()
	doc := Document{Ref: ref, Actor: actor, Features: []ability.Feature{}}
	if err := s.write(ref, &doc, os.O_CREATE|os.O_EXCL|os.O_WRONLY); err != nil {
		return "", err
	}
	return ref, nil
}

// CreateFeatureItems appends features to the document at ref.
func (s *Store) CreateFeatureItems(ctx context.Context, ref string, features []ability.Feature) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(ref)
	if err != nil {
		return err
	}
	doc.Features = append(doc.Features, features...)
	return s.write(ref, doc, os.O_WRONLY|os.O_TRUNC)
}

// DeleteCreature removes the document at ref.
func (s *Store) DeleteCreature(_ context.Context, ref string) error {
	path, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrCreatureNotFound
		}
		return fmt.Errorf("deleting creature %s: %w", ref, err)
	}
	return nil
}

// Get loads the document at ref.
//
// Postcondition: Returns the Document or ErrCreatureNotFound.
func (s *Store) Get(ref string) (*Document, error) {
	return s.read(ref)
}

// List returns the references of every stored creature, sorted.
func (s *Store) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+docExt))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dir, err)
	}
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, strings.TrimSuffix(filepath.Base(m), docExt))
	}
	return refs, nil
}

func (s *Store) read(ref string) (*Document, error) {
	path, err := s.path(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCreatureNotFound
		}
		return nil, fmt.Errorf("reading creature %s: %w", ref, err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding creature %s: %w", ref, err)
	}
	return &doc, nil
}

func (s *Store) write(ref string, doc *Document, flag int) error {
	path, err := s.path(ref)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding creature %s: %w", ref, err)
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrCreatureNotFound
		}
		return fmt.Errorf("opening creature %s: %w", ref, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing creature %s: %w", ref, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing creature %s: %w", ref, err)
	}
	return nil
}

// path resolves ref inside the store directory, rejecting anything that
// could escape it.
func (s *Store) path(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || strings.ContainsAny(ref, `/\`) || ref == "." || ref == ".." {
		return "", fmt.Errorf("%w: invalid reference %q", ErrCreatureNotFound, ref)
	}
	return filepath.Join(s.dir, ref+docExt), nil
}
