package condition

import "fmt"

// InvalidConditionError reports a malformed node in a condition tree.
type InvalidConditionError struct {
	// Path locates the node from the root, e.g. "items[1].items[0]".
	// Empty for the root itself.
	Path   string
	Field  string
	Reason string
}

func (e *InvalidConditionError) Error() string {
	at := e.Path
	if at == "" {
		at = "root"
	}
	if e.Field == "" {
		return fmt.Sprintf("invalid condition at %s: %s", at, e.Reason)
	}
	return fmt.Sprintf("invalid condition at %s: %s %s", at, e.Field, e.Reason)
}
