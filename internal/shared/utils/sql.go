package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// JoinWithOr joins a slice of strings with OR operator
func JoinWithOr(clauses []string) string {
	return strings.Join(clauses, " OR ")
}

// WhereBuilder collects filter clauses with positional arguments.
// Each "?" in a clause becomes the next $n placeholder.
type WhereBuilder struct {
	clauses []string
	args    []any
}

func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

func (b *WhereBuilder) Add(clause string, args ...any) *WhereBuilder {
	var sb strings.Builder
	i := 0
	for _, r := range clause {
		if r == '?' && i < len(args) {
			b.args = append(b.args, args[i])
			fmt.Fprintf(&sb, "$%d", len(b.args))
			i++
			continue
		}
		sb.WriteRune(r)
	}
	b.clauses = append(b.clauses, sb.String())
	return b
}

// AddSearch adds (col1 ILIKE $n OR col2 ILIKE $n ...) for a non-empty term.
func (b *WhereBuilder) AddSearch(term string, columns ...string) *WhereBuilder {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return b
	}

	b.args = append(b.args, "%"+EscapeLike(term)+"%")
	placeholder := fmt.Sprintf("$%d", len(b.args))

	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE " + placeholder
	}
	b.clauses = append(b.clauses, "("+JoinWithOr(parts)+")")
	return b
}

// Arg appends an argument and returns its placeholder, for LIMIT/OFFSET.
func (b *WhereBuilder) Arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// SQL returns "WHERE a AND b", or "" when there are no clauses.
func (b *WhereBuilder) SQL() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return "WHERE " + JoinWithAnd(b.clauses)
}

func (b *WhereBuilder) Args() []any {
	return b.args
}

// EscapeLike escapes LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// DeletedScope selects rows by soft delete state.
type DeletedScope string

const (
	ScopeActive  DeletedScope = "active"
	ScopeDeleted DeletedScope = "deleted"
	ScopeAll     DeletedScope = "all"
)

func (s DeletedScope) Valid() bool {
	return s == ScopeActive || s == ScopeDeleted || s == ScopeAll || s == ""
}

// AddDeletedScope filters on column deleted_at; the empty scope means active.
func (b *WhereBuilder) AddDeletedScope(scope DeletedScope, column string) *WhereBuilder {
	switch scope {
	case ScopeDeleted:
		return b.Add(column + " IS NOT NULL")
	case ScopeAll:
		return b
	default:
		return b.Add(column + " IS NULL")
	}
}

// Assignment is one "column = value" pair of an UPDATE.
type Assignment struct {
	Column string
	Value  any
}

// BuildUpdate renders "UPDATE table SET c1 = $2, ..., updated_at = NOW()
// WHERE id = $1 AND deleted_at IS NULL" for a single live row.
func BuildUpdate(table string, id any, assignments []Assignment) (string, []any) {
	args := make([]any, 0, len(assignments)+1)
	args = append(args, id)

	sets := make([]string, 0, len(assignments)+1)
	for _, a := range assignments {
		args = append(args, a.Value)
		sets = append(sets, fmt.Sprintf("%s = $%d", a.Column, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 AND deleted_at IS NULL", table, strings.Join(sets, ", "))
	return query, args
}
