package query

import (
	"strings"

	"cloud.google.com/go/spanner"
)

// Builder constructs SELECT statements for Cloud Spanner. Every method
// returns a new Builder so partial queries can be shared. Parameter names are
// generated, callers never pick them.
type Builder struct {
	table        string
	selectCols   []string
	whereClauses []Condition
	limitVal     int64
}

// From creates a new Builder for the specified table.
func From(table string) *Builder {
	return &Builder{table: table}
}

// Select appends columns to retrieve.
func (b *Builder) Select(columns ...string) *Builder {
	nb := b.clone()
	nb.selectCols = append(nb.selectCols, columns...)
	return nb
}

// Where adds a condition. Conditions are combined with AND.
func (b *Builder) Where(condition Condition) *Builder {
	nb := b.clone()
	nb.whereClauses = append(nb.whereClauses, condition)
	return nb
}

// Limit caps the number of rows. Zero means no limit.
func (b *Builder) Limit(limit int64) *Builder {
	nb := b.clone()
	nb.limitVal = limit
	return nb
}

// Build renders the statement.
func (b *Builder) Build() spanner.Statement {
	var sql strings.Builder
	params := make(map[string]interface{})

	sql.WriteString("SELECT ")
	if len(b.selectCols) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.selectCols, ", "))
	}
	sql.WriteString(" FROM ")
	sql.WriteString(b.table)

	if len(b.whereClauses) > 0 {
		parts := make([]string, 0, len(b.whereClauses))
		paramIndex := 0
		for _, condition := range b.whereClauses {
			fragment, condParams := condition.SQL(paramIndex)
			parts = append(parts, fragment)
			for k, v := range condParams {
				params[k] = v
			}
			paramIndex += len(condParams)
		}
		sql.WriteString(" WHERE ")
		sql.WriteString(strings.Join(parts, " AND "))
	}

	if b.limitVal > 0 {
		sql.WriteString(" LIMIT @limit")
		params["limit"] = b.limitVal
	}

	return spanner.Statement{SQL: sql.String(), Params: params}
}

func (b *Builder) clone() *Builder {
	return &Builder{
		table:        b.table,
		selectCols:   append([]string(nil), b.selectCols...),
		whereClauses: append([]Condition(nil), b.whereClauses...),
		limitVal:     b.limitVal,
	}
}
