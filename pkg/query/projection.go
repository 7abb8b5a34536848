// Package query builds parameterized PostgreSQL statements from a projection
// of logical field names onto table columns.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps logical field names to qualified columns (alias.column).
// Only projected fields can appear in conditions or ordering.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns map[string]string
	ordered []string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps a database column to a logical field name. Columns are
// selected in the order they are projected.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns[field] = qualified
	p.ordered = append(p.ordered, qualified)
	return p
}

// Table returns the table reference with alias (schema.table alias).
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Lookup returns the qualified column for a field and whether it is projected.
func (p *ProjectionMap) Lookup(field string) (string, bool) {
	col, ok := p.columns[field]
	return col, ok
}

// Column returns the qualified column for a field. It panics for unknown
// fields, which are always a programming error at the call site.
func (p *ProjectionMap) Column(field string) string {
	col, ok := p.columns[field]
	if !ok {
		panic(fmt.Sprintf("query: field %q is not projected on %s", field, p.table))
	}
	return col
}

// Columns returns all projected columns as a comma-separated select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ordered, ", ")
}
