package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/academia-hq/academia/core"
)

const orderingParam = "ordering"

// Ordering binds the "ordering" query param: a comma-separated list of
// field names, each optionally prefixed with "-" for descending order.
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	raw := ctx.QueryParam(orderingParam)
	if raw == "" {
		return
	}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if asc := !strings.HasPrefix(field, "-"); asc {
			ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: true})
		} else {
			ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field[1:]})
		}
	}
}
