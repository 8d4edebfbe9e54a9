package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tordrt/rlsgen/internal/condition"
	"github.com/tordrt/rlsgen/internal/schema"
)

var (
	// ErrInvalidPolicyType is returned for a policy type other than
	// permissive or restrictive.
	ErrInvalidPolicyType = errors.New("invalid policy type")

	// ErrUnknownOperation is returned when decoding an operation name other
	// than SELECT, INSERT, UPDATE or DELETE.
	ErrUnknownOperation = errors.New("unknown operation")
)

// Type is the combination mode of a policy
type Type string

const (
	Permissive  Type = "permissive"
	Restrictive Type = "restrictive"
)

// SQL returns the keyword for t. An empty Type is permissive.
func (t Type) SQL() (string, error) {
	switch strings.ToLower(string(t)) {
	case "", string(Permissive):
		return "PERMISSIVE", nil
	case string(Restrictive):
		return "RESTRICTIVE", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicyType, string(t))
	}
}

// Operation is a statement kind a policy applies to
type Operation string

const (
	Select Operation = "SELECT"
	Insert Operation = "INSERT"
	Update Operation = "UPDATE"
	Delete Operation = "DELETE"
)

// AllOperations lists operations in the order they are rendered.
var AllOperations = []Operation{Select, Insert, Update, Delete}

// ParseOperation resolves a case-insensitive operation name.
func ParseOperation(name string) (Operation, error) {
	op := Operation(strings.ToUpper(strings.TrimSpace(name)))
	for _, known := range AllOperations {
		if op == known {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

// Operations is the set of enabled operations
type Operations map[Operation]bool

// NewOperations returns a set with ops enabled
func NewOperations(ops ...Operation) Operations {
	set := make(Operations, len(ops))
	for _, op := range ops {
		set[op] = true
	}
	return set
}

// Enabled returns the enabled operations in SELECT, INSERT, UPDATE, DELETE
// order regardless of how the set was built.
func (o Operations) Enabled() []Operation {
	var enabled []Operation
	for _, op := range AllOperations {
		if o[op] {
			enabled = append(enabled, op)
		}
	}
	return enabled
}

// String renders the enabled operations comma separated. It is empty when
// no operation is enabled.
func (o Operations) String() string {
	enabled := o.Enabled()
	names := make([]string, len(enabled))
	for i, op := range enabled {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}

// UnmarshalJSON accepts either a map of operation flags
// ({"select": true, "update": false}) or a list of names (["SELECT"]).
// Names are case-insensitive.
func (o *Operations) UnmarshalJSON(data []byte) error {
	set := make(Operations)

	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		for _, name := range names {
			op, err := ParseOperation(name)
			if err != nil {
				return err
			}
			set[op] = true
		}
		*o = set
		return nil
	}

	var flags map[string]bool
	if err := json.Unmarshal(data, &flags); err != nil {
		return fmt.Errorf("operations must be a list of names or a map of flags: %w", err)
	}
	for name, enabled := range flags {
		op, err := ParseOperation(name)
		if err != nil {
			return err
		}
		set[op] = set[op] || enabled
	}
	*o = set
	return nil
}

// MarshalJSON renders the enabled operations as a list.
func (o Operations) MarshalJSON() ([]byte, error) {
	enabled := o.Enabled()
	if enabled == nil {
		enabled = []Operation{}
	}
	return json.Marshal(enabled)
}

// Input is everything needed to generate one policy
type Input struct {
	Name       string           `json:"policyName"`
	Table      string           `json:"tableName"`
	Type       Type             `json:"policyType,omitempty"`
	Operations Operations       `json:"operations"`
	Root       *condition.Group `json:"rootGroup"`

	// FinalCondition, when set, is AND-ed after the root group in both the
	// WHERE clause and the table collection for joins.
	FinalCondition *condition.Condition `json:"finalCondition,omitempty"`
	Tables         []schema.Table       `json:"tables,omitempty"`
}

// ConditionTree returns the tree the policy is generated from: Root with
// FinalCondition appended as a trailing AND item. A non-empty OR root is kept
// as a nested item so its grouping is preserved, and a root of any other type
// is nested too so compilation still rejects it.
func (in Input) ConditionTree() *condition.Group {
	root := in.Root
	if root == nil {
		root = condition.AllOf()
	}
	if in.FinalCondition == nil {
		return root
	}

	var items []condition.Node
	if root.Type == condition.And || (root.Type == condition.Or && len(root.Items) == 0) {
		items = make([]condition.Node, 0, len(root.Items)+1)
		items = append(items, root.Items...)
	} else {
		items = []condition.Node{root}
	}
	items = append(items, in.FinalCondition)

	return &condition.Group{ID: root.ID, Type: condition.And, Items: items}
}

// Result is a generated policy
type Result struct {
	SQL string
	// From and Where are the clause bodies embedded in SQL.
	From  string
	Where string
	// Warnings are non-fatal problems such as tables that could not be
	// joined. The SQL is still returned but may not be valid.
	Warnings []error
}
