package join

import (
	"errors"
	"fmt"
)

// ErrMissingRelationship matches every *MissingRelationshipError via errors.Is
var ErrMissingRelationship = errors.New("missing relationship")

// MissingRelationshipError reports a referenced table that has no foreign
// key path to the driving table. The generated SQL still references To, but
// nothing in the FROM clause binds it.
type MissingRelationshipError struct {
	From string
	To   string
}

func (e *MissingRelationshipError) Error() string {
	return fmt.Sprintf("no relationship between %s and %s: %s is referenced but not joined", e.From, e.To, e.To)
}

// Is lets errors.Is match ErrMissingRelationship.
func (e *MissingRelationshipError) Is(target error) bool {
	return target == ErrMissingRelationship
}
