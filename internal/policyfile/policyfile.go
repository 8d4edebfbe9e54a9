// Package policyfile reads policy definitions from YAML or JSON documents.
//
// A document is either a single policy:
//
//	policyName: projects_access_policy
//	tableName: projects
//	policyType: permissive
//	operations: {select: true}
//	rootGroup:
//	  type: AND
//	  items:
//	    - {leftTable: members, leftColumn: user_id, operator: "=", rightType: function, rightFunction: auth.uid()}
//	tables: [...]
//
// or a set of policies sharing a catalog:
//
//	tables: [...]
//	policies: [...]
package policyfile

import (
	"encoding/json"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/tordrt/rlsgen/internal/policy"
	"github.com/tordrt/rlsgen/internal/schema"
)

// File is a decoded policy document
type File struct {
	// Tables is the catalog shared by every policy that declares none.
	Tables   []schema.Table `json:"tables,omitempty"`
	Policies []policy.Input `json:"policies,omitempty"`
}

// Load reads and parses the policy file at path
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a YAML or JSON policy document
func Parse(data []byte) (*File, error) {
	var keys map[string]json.RawMessage
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("invalid policy document: %w", err)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("empty policy document")
	}

	if _, ok := keys["policies"]; ok {
		var f File
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("invalid policy document: %w", err)
		}
		return &f, nil
	}

	var in policy.Input
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("invalid policy document: %w", err)
	}
	return &File{Policies: []policy.Input{in}}, nil
}

// Inputs returns the policies with their catalogs resolved. A policy's own
// tables win, then catalog (typically extracted from a database), then the
// file-level tables.
func (f *File) Inputs(catalog *schema.Schema) []policy.Input {
	inputs := make([]policy.Input, len(f.Policies))
	for i, in := range f.Policies {
		if len(in.Tables) == 0 {
			switch {
			case catalog != nil:
				in.Tables = catalog.Tables
			default:
				in.Tables = f.Tables
			}
		}
		inputs[i] = in
	}
	return inputs
}

// MarshalCatalog renders s as a policy document holding only tables, ready
// to have policies added
func MarshalCatalog(s *schema.Schema) ([]byte, error) {
	return yaml.Marshal(File{Tables: s.Tables})
}
