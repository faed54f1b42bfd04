package sqlxrepos

import (
	"strings"

	"github.com/academia-hq/academia/core"
)

// orderBy builds an ORDER BY clause from the requested orderings, keeping only
// fields present in allowed. Falls back to the default column when nothing remains.
func orderBy(allowed map[string]string, def string, orderings []core.DBOrdering) string {
	clauses := make([]string, 0, len(orderings))
	for _, ord := range orderings {
		col, ok := allowed[ord.Field]
		if !ok {
			continue
		}
		direction := " DESC"
		if ord.Ascending {
			direction = " ASC"
		}
		clauses = append(clauses, col+direction)
	}
	if len(clauses) == 0 {
		return " ORDER BY " + def
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}
