package derive

import (
	"errors"
	"fmt"
)

// Lookup table names carried by MissingLookupError.
const (
	TableChallengeRating = "challenge rating"
	TableSize            = "size"
	TableSkill           = "skill"
	TableAbilityName     = "ability name"
)

// ErrMissingLookup matches any MissingLookupError via errors.Is.
var ErrMissingLookup = errors.New("missing lookup entry")

// MissingLookupError reports a key absent from one of the fixed tables.
// Derivation aborts on the first one; no partial Actor is returned.
type MissingLookupError struct {
	Table string
	Key   string
}

func (e *MissingLookupError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Table, e.Key)
}

// Is reports whether target is ErrMissingLookup.
func (e *MissingLookupError) Is(target error) bool {
	return target == ErrMissingLookup
}
