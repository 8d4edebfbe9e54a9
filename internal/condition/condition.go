// Package condition models the boolean condition tree of a policy and
// compiles it into a SQL boolean expression.
//
// A tree is built from two node kinds: *Condition leaves, each a single
// comparison, and *Group branches combining their items with AND or OR.
// Node is sealed, so every traversal is a type switch over exactly these two.
package condition

// Node is a *Condition or a *Group
type Node interface {
	node()
}

// Operator is a comparison operator
type Operator string

// Supported comparison operators.
const (
	OpEq  Operator = "="
	OpNe  Operator = "<>"
	OpGt  Operator = ">"
	OpLt  Operator = "<"
	OpGte Operator = ">="
	OpLte Operator = "<="
	OpIn  Operator = "IN"
)

// Operators lists the supported operators in display order.
var Operators = []Operator{OpEq, OpNe, OpGt, OpLt, OpGte, OpLte, OpIn}

// Valid reports whether o is a supported operator.
func (o Operator) Valid() bool {
	for _, op := range Operators {
		if o == op {
			return true
		}
	}
	return false
}

// RightType selects which right-hand field of a Condition is meaningful
type RightType string

const (
	RightColumn   RightType = "column"
	RightValue    RightType = "value"
	RightFunction RightType = "function"
)

// GroupType is the boolean connective of a Group
type GroupType string

const (
	And GroupType = "AND"
	Or  GroupType = "OR"
)

// Condition is a single comparison between a column and a column, a quoted
// value, or a raw function call.
type Condition struct {
	ID            string    `json:"id,omitempty"`
	LeftTable     string    `json:"leftTable"`
	LeftColumn    string    `json:"leftColumn"`
	Operator      Operator  `json:"operator"`
	RightType     RightType `json:"rightType"`
	RightTable    string    `json:"rightTable,omitempty"`
	RightColumn   string    `json:"rightColumn,omitempty"`
	RightValue    string    `json:"rightValue,omitempty"`
	RightFunction string    `json:"rightFunction,omitempty"`
}

func (*Condition) node() {}

// Group combines its items with Type. An empty group is always true.
type Group struct {
	ID    string    `json:"id,omitempty"`
	Type  GroupType `json:"type"`
	Items []Node    `json:"items"`
}

func (*Group) node() {}

// AllOf returns an AND group over items
func AllOf(items ...Node) *Group {
	return &Group{Type: And, Items: items}
}

// AnyOf returns an OR group over items
func AnyOf(items ...Node) *Group {
	return &Group{Type: Or, Items: items}
}

// ColumnEquals returns a condition comparing two columns for equality
func ColumnEquals(leftTable, leftColumn, rightTable, rightColumn string) *Condition {
	return &Condition{
		LeftTable:   leftTable,
		LeftColumn:  leftColumn,
		Operator:    OpEq,
		RightType:   RightColumn,
		RightTable:  rightTable,
		RightColumn: rightColumn,
	}
}

// Tables returns the distinct tables referenced by the tree in pre-order,
// first-seen order: the left table of every condition and the right table of
// column comparisons.
func Tables(n Node) []string {
	var tables []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		tables = append(tables, name)
	}

	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *Group:
			if n == nil {
				return
			}
			for _, item := range n.Items {
				walk(item)
			}
		case *Condition:
			if n == nil {
				return
			}
			add(n.LeftTable)
			if n.RightType == RightColumn {
				add(n.RightTable)
			}
		}
	}
	walk(n)

	return tables
}
