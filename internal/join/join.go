// Package join infers the FROM clause of a policy subquery from the tables a
// condition tree references and the foreign keys of a schema catalog.
package join

import (
	"strings"

	"github.com/tordrt/rlsgen/internal/condition"
	"github.com/tordrt/rlsgen/internal/schema"
)

// Join is a single "JOIN <table> ON <table>.<col> = <driving>.<col>" clause
type Join struct {
	Table        string
	Relationship schema.Relationship
}

// SQL renders the join clause.
func (j Join) SQL() string {
	rel := j.Relationship
	return "JOIN " + j.Table + " ON " + j.Table + "." + rel.TargetColumn + " = " + rel.SourceTable + "." + rel.SourceColumn
}

// Plan is the resolved join topology of a policy subquery
type Plan struct {
	// Driving is the first table of the FROM clause.
	Driving string
	Joins   []Join
	// Warnings holds a *MissingRelationshipError for every table that could
	// not be joined to the driving table.
	Warnings []error
}

// SQL renders the FROM clause fragment: the driving table followed by its
// joins, separated by single spaces.
func (p Plan) SQL() string {
	parts := make([]string, 0, len(p.Joins)+1)
	parts = append(parts, p.Driving)
	for _, j := range p.Joins {
		parts = append(parts, j.SQL())
	}
	return strings.Join(parts, " ")
}

// Resolve computes the join plan for root on the policy target table.
//
// The driving table is the first table root references, or target when it
// references none. The target is joined to the driving table only when root
// does not reference it. Every other referenced table is joined to the
// driving table in first-seen order, using a relationship declared in either
// direction. A table with no such relationship is left unjoined and reported
// in Plan.Warnings.
func Resolve(root condition.Node, target string, s *schema.Schema) Plan {
	tables := condition.Tables(root)
	if len(tables) == 0 {
		return Plan{Driving: target}
	}

	plan := Plan{Driving: tables[0]}
	joined := map[string]bool{plan.Driving: true}

	referenced := make(map[string]bool, len(tables))
	for _, t := range tables {
		referenced[t] = true
	}

	if plan.Driving != target && !referenced[target] {
		plan.join(s, target)
		joined[target] = true
	}

	for _, t := range tables[1:] {
		if joined[t] || t == target {
			continue
		}
		plan.join(s, t)
		joined[t] = true
	}

	return plan
}

func (p *Plan) join(s *schema.Schema, table string) {
	rel, ok := s.FindRelationship(p.Driving, table)
	if !ok {
		p.Warnings = append(p.Warnings, &MissingRelationshipError{From: p.Driving, To: table})
		return
	}
	p.Joins = append(p.Joins, Join{Table: table, Relationship: rel})
}
