package query

import "fmt"

// Condition is a WHERE fragment using Spanner named parameters.
// paramIndex keeps generated names (@p0, @p1, ...) unique within a statement.
type Condition interface {
	SQL(paramIndex int) (string, map[string]interface{})
}

type eqCondition struct {
	field string
	value interface{}
}

// Eq matches field = value.
func Eq(field string, value interface{}) Condition {
	return &eqCondition{field: field, value: value}
}

func (c *eqCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	name := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s = @%s", c.field, name), map[string]interface{}{name: c.value}
}
