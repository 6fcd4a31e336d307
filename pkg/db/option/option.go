package option

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Option mutates a gorm statement before execution.
type Option interface {
	Apply(stmt *gorm.DB) *gorm.DB
}

type sortBy struct {
	clause string
}

func (s sortBy) Apply(stmt *gorm.DB) *gorm.DB {
	if s.clause == "" {
		return stmt
	}
	return stmt.Order(s.clause)
}

// WithQuerySortBy builds an ORDER BY option from user input. The allowed map
// translates request field names to SQL columns, which must be table-qualified
// when the query joins. Unknown fields fall back to created_at.
func WithQuerySortBy(column, order string, allowed map[string]string) Option {
	sqlColumn, ok := allowed[strings.TrimSpace(strings.ToLower(column))]
	if !ok {
		if sqlColumn, ok = allowed["created_at"]; !ok {
			sqlColumn = "created_at"
		}
	}

	direction := "DESC"
	if strings.EqualFold(strings.TrimSpace(order), "ASC") {
		direction = "ASC"
	}

	return sortBy{clause: fmt.Sprintf("%s %s", sqlColumn, direction)}
}
