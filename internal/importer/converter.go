package importer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tetracube/internal/ability"
	"github.com/cory-johannsen/tetracube/internal/derive"
	"github.com/cory-johannsen/tetracube/internal/statblock"
)

// Result is everything one statblock converts to: the creature and its
// ordered feature records.
type Result struct {
	Actor    *derive.Actor     `json:"actor" yaml:"actor"`
	Features []ability.Feature `json:"features" yaml:"features"`
}

// Convert derives the creature and parses every ability entry of sb. It
// performs no I/O. A nil logger disables logging.
//
// Precondition: sb must be non-nil.
// Postcondition: returns a complete Result, or an error wrapping a
// *derive.MissingLookupError and a nil Result.
func Convert(sb *statblock.Statblock, logger *zap.Logger) (*Result, error) {
	actor, err := derive.Derive(sb)
	if err != nil {
		return nil, fmt.Errorf("deriving %q: %w", sb.Name, err)
	}
	return &Result{
		Actor:    actor,
		Features: ability.ParseAll(sb, actor, logger),
	}, nil
}

// NameToID converts a display name to a stable snake_case identifier.
//
// Postcondition: result is lowercase, contains only [a-z0-9_], and is
// idempotent (NameToID(NameToID(s)) == NameToID(s)).
func NameToID(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "_")
	var b strings.Builder
	for _, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
