package schema

// Table returns the table with the given name, or nil
func (s *Schema) Table(name string) *Table {
	if s == nil {
		return nil
	}
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// FindRelationship returns a relationship linking from and to, oriented so
// that SourceTable is from and TargetTable is to.
//
// Both tables' outgoing edges are searched in catalog order. An edge declared
// in the opposite direction is returned reversed.
func (s *Schema) FindRelationship(from, to string) (Relationship, bool) {
	if s == nil {
		return Relationship{}, false
	}
	for _, table := range s.Tables {
		if table.Name != from && table.Name != to {
			continue
		}
		for _, rel := range table.Relationships {
			switch {
			case rel.SourceTable == from && rel.TargetTable == to:
				return rel, true
			case rel.SourceTable == to && rel.TargetTable == from:
				return rel.Reverse(), true
			}
		}
	}
	return Relationship{}, false
}

// IncomingRelationships returns every edge whose target is the named table
func (s *Schema) IncomingRelationships(name string) []Relationship {
	if s == nil {
		return nil
	}
	var incoming []Relationship
	for _, table := range s.Tables {
		for _, rel := range table.Relationships {
			if rel.TargetTable == name {
				incoming = append(incoming, rel)
			}
		}
	}
	return incoming
}

// Filter drops the named tables from the catalog in place
func (s *Schema) Filter(exclude []string) {
	if len(exclude) == 0 {
		return
	}

	excludeSet := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excludeSet[name] = true
	}

	filtered := make([]Table, 0, len(s.Tables))
	for _, table := range s.Tables {
		if !excludeSet[table.Name] {
			filtered = append(filtered, table)
		}
	}
	s.Tables = filtered
}
