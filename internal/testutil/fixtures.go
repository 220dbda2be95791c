package testutil

import (
	"embed"
	"os"
	"path/filepath"
	"testing"
)

//go:embed testdata/*.monster
var fixtures embed.FS

// YoungGreenDragon is the name of the bundled legendary spellcaster fixture.
const YoungGreenDragon = "young_green_dragon.monster"

// Statblock returns the raw bytes of a bundled .monster fixture.
//
// Precondition: name must be one of the bundled fixture names.
// Postcondition: Returns the fixture contents or fails the test.
func Statblock(t *testing.T, name string) []byte {
	t.Helper()
	data, err := fixtures.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	return data
}

// WriteStatblock copies a bundled fixture into dir and returns its path.
//
// Postcondition: Returns the path of the written file or fails the test.
func WriteStatblock(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Statblock(t, name), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}
