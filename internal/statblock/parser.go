package statblock

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSyntax is returned when the input is not well-formed JSON.
	ErrSyntax = errors.New("statblock: invalid JSON")
	// ErrShape is returned when the JSON does not fit the statblock shape.
	ErrShape = errors.New("statblock: unexpected shape")
)

// Parse decodes a .monster JSON document.
//
// Precondition: none; any byte slice is accepted.
// Postcondition: returns a non-nil Statblock, or an error wrapping exactly one
// of ErrSyntax or ErrShape.
func Parse(data []byte) (*Statblock, error) {
	var sb Statblock
	if err := json.Unmarshal(data, &sb); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || !json.Valid(data) {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	if sb.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrShape)
	}
	return &sb, nil
}

// LoadFile reads and parses the .monster file at path.
//
// Postcondition: returns a non-nil Statblock or a non-nil error.
func LoadFile(path string) (*Statblock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading statblock %s: %w", path, err)
	}
	sb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing statblock %s: %w", path, err)
	}
	return sb, nil
}
