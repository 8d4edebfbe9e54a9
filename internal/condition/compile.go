package condition

import (
	"fmt"
	"strings"
)

// Compile renders n as a SQL boolean expression.
//
// Conditions render as "<table>.<column> <op> <right>". Group items are
// joined with " AND " or " OR "; nested groups are wrapped in one pair of
// parentheses while the root is left bare. An empty group renders TRUE.
//
// Values are single-quoted without escaping and functions are emitted
// verbatim, so both must be sanitized by the caller.
func Compile(n Node) (string, error) {
	return compile(n, "")
}

func compile(n Node, path string) (string, error) {
	switch n := n.(type) {
	case *Condition:
		if n == nil {
			return "", &InvalidConditionError{Path: path, Reason: "nil condition"}
		}
		return compileCondition(n, path)
	case *Group:
		if n == nil {
			return "", &InvalidConditionError{Path: path, Reason: "nil group"}
		}
		return compileGroup(n, path)
	default:
		return "", &InvalidConditionError{Path: path, Reason: fmt.Sprintf("unsupported node %T", n)}
	}
}

func compileGroup(g *Group, path string) (string, error) {
	if g.Type != And && g.Type != Or {
		return "", &InvalidConditionError{Path: path, Field: "type", Reason: fmt.Sprintf("must be AND or OR, got %q", g.Type)}
	}
	if len(g.Items) == 0 {
		return "TRUE", nil
	}

	parts := make([]string, 0, len(g.Items))
	for i, item := range g.Items {
		itemPath := fmt.Sprintf("items[%d]", i)
		if path != "" {
			itemPath = path + "." + itemPath
		}

		sql, err := compile(item, itemPath)
		if err != nil {
			return "", err
		}
		if _, nested := item.(*Group); nested {
			sql = "(" + sql + ")"
		}
		parts = append(parts, sql)
	}

	return strings.Join(parts, " "+string(g.Type)+" "), nil
}

func compileCondition(c *Condition, path string) (string, error) {
	if err := validate(c, path); err != nil {
		return "", err
	}

	var right string
	switch c.RightType {
	case RightColumn:
		right = c.RightTable + "." + c.RightColumn
	case RightValue:
		right = "'" + c.RightValue + "'"
	case RightFunction:
		right = c.RightFunction
	}

	return fmt.Sprintf("%s.%s %s %s", c.LeftTable, c.LeftColumn, c.Operator, right), nil
}

func validate(c *Condition, path string) error {
	required := func(field, value string) error {
		if value == "" {
			return &InvalidConditionError{Path: path, Field: field, Reason: "is required"}
		}
		return nil
	}

	if err := required("leftTable", c.LeftTable); err != nil {
		return err
	}
	if err := required("leftColumn", c.LeftColumn); err != nil {
		return err
	}
	if err := required("operator", string(c.Operator)); err != nil {
		return err
	}
	if !c.Operator.Valid() {
		return &InvalidConditionError{Path: path, Field: "operator", Reason: fmt.Sprintf("%q is not supported", c.Operator)}
	}

	switch c.RightType {
	case RightColumn:
		if err := required("rightTable", c.RightTable); err != nil {
			return err
		}
		return required("rightColumn", c.RightColumn)
	case RightValue:
		return required("rightValue", c.RightValue)
	case RightFunction:
		return required("rightFunction", c.RightFunction)
	default:
		return &InvalidConditionError{Path: path, Field: "rightType", Reason: fmt.Sprintf("must be column, value or function, got %q", c.RightType)}
	}
}
