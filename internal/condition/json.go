package condition

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON decodes a group whose items are conditions or nested groups.
// An item object carrying a "type" key is a group; any other object is a
// condition.
func (g *Group) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    string            `json:"id"`
		Type  GroupType         `json:"type"`
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	items := make([]Node, 0, len(raw.Items))
	for i, data := range raw.Items {
		item, err := UnmarshalNode(data)
		if err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, item)
	}

	g.ID = raw.ID
	g.Type = raw.Type
	g.Items = items
	return nil
}

// UnmarshalNode decodes a single condition or group
func UnmarshalNode(data []byte) (Node, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, err
	}

	if _, isGroup := keys["type"]; isGroup {
		g := &Group{}
		if err := json.Unmarshal(data, g); err != nil {
			return nil, err
		}
		return g, nil
	}

	c := &Condition{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}
