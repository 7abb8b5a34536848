package query

import (
	"fmt"
	"reflect"
	"strings"
)

// placeholder marks where a condition's next positional parameter goes.
const placeholder = "$?"

type condition struct {
	clause string
	args   []any
}

// SortField is a single ORDER BY term keyed by logical field name.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// Builder assembles SELECT and COUNT statements with sequentially numbered
// parameters. Condition methods ignore nil values so optional filters can be
// chained without guards.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder for the given projection with optional default sort fields.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields parses "brand,-created_at" style input. A leading "-"
// sorts descending. Returns nil for empty input.
func ParseSortFields(s string) []SortField {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: field, Descending: desc})
	}
	return fields
}

// OrderByFields sets the sort order, replacing the default. Fields that are
// not projected are dropped since sort input usually comes from clients.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = b.sort[:0]
	for _, f := range fields {
		if _, ok := b.projection.Lookup(f.Field); ok {
			b.sort = append(b.sort, f)
		}
	}
	return b
}

// WhereEquals adds an equality condition. No-op for nil values.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.where(b.projection.Column(field)+" = "+placeholder, value)
}

// WhereContains adds a case-insensitive ILIKE condition. No-op for nil or empty values.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.where(b.projection.Column(field)+" ILIKE "+placeholder, "%"+*value+"%")
}

// WhereBetween bounds a field inclusively. Either bound may be nil to leave
// that side open.
func (b *Builder) WhereBetween(field string, lower, upper any) *Builder {
	col := b.projection.Column(field)
	if !isNil(lower) {
		b.where(col+" >= "+placeholder, lower)
	}
	if !isNil(upper) {
		b.where(col+" <= "+placeholder, upper)
	}
	return b
}

// WhereSearch matches search against any of the fields with ILIKE.
// No-op for nil or blank search.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || len(fields) == 0 {
		return b
	}
	term := strings.TrimSpace(*search)
	if term == "" {
		return b
	}

	clauses := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, field := range fields {
		clauses[i] = b.projection.Column(field) + " ILIKE " + placeholder
		args[i] = "%" + term + "%"
	}
	return b.where("("+strings.Join(clauses, " OR ")+")", args...)
}

// BuildCount returns a COUNT(*) statement with the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.buildWhere()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.Table(), where), args
}

// BuildPage returns a SELECT with conditions, ordering, limit and offset.
// Page is one-based.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	where, args := b.buildWhere()
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.projection.Columns(),
		b.projection.Table(),
		where,
		b.buildOrderBy(),
		pageSize,
		(page-1)*pageSize,
	)
	return sql, args
}

// BuildSingle returns a SELECT for one record keyed by field. Other
// conditions on the builder are ignored.
func (b *Builder) BuildSingle(field string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.Table(),
		b.projection.Column(field),
	)
	return sql, []any{id}
}

func (b *Builder) where(clause string, args ...any) *Builder {
	b.conditions = append(b.conditions, condition{clause: clause, args: args})
	return b
}

func (b *Builder) buildOrderBy() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = b.projection.Column(f.Field) + " " + dir
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *Builder) buildWhere() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	clauses := make([]string, len(b.conditions))
	var args []any
	for i, cond := range b.conditions {
		clause := cond.clause
		for _, arg := range cond.args {
			args = append(args, arg)
			clause = strings.Replace(clause, placeholder, fmt.Sprintf("$%d", len(args)), 1)
		}
		clauses[i] = clause
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
