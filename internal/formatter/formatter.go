// Package formatter writes generated policies and schema catalogs.
package formatter

import (
	"github.com/tordrt/rlsgen/internal/policy"
)

// Formats accepted by New.
const (
	FormatSQL      = "sql"
	FormatScript   = "script"
	FormatMarkdown = "markdown"
)

// Policy pairs a generation input with its result
type Policy struct {
	Input  policy.Input
	Result *policy.Result
}

// Formatter writes a batch of generated policies
type Formatter interface {
	Format(policies []Policy) error
}

// Pair zips inputs with the results GenerateAll returned for them
func Pair(inputs []policy.Input, results []*policy.Result) []Policy {
	policies := make([]Policy, 0, len(inputs))
	for i, in := range inputs {
		if i >= len(results) {
			break
		}
		policies = append(policies, Policy{Input: in, Result: results[i]})
	}
	return policies
}

// statement returns the policy's CREATE POLICY text, pretty printed if asked
func statement(p Policy, pretty bool) string {
	if pretty {
		return Pretty(p.Result.SQL)
	}
	return p.Result.SQL
}
