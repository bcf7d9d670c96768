package querysql

import (
	"fmt"
	"strings"

	"github.com/raymondSeger/prisma/internal/compiler"
	"github.com/raymondSeger/prisma/internal/ir"
	"github.com/raymondSeger/prisma/internal/queryir"
)

// ParseOrderBy decodes orderings of the form field[:asc|desc] against m.
// The direction defaults to ascending and is matched case-insensitively.
func ParseOrderBy(m *ir.Model, specs []string) ([]queryir.Ordering, error) {
	var out []queryir.Ordering
	for _, arg := range specs {
		name, dir, hasDir := strings.Cut(arg, ":")
		if _, ok := m.Field(name); !ok {
			return nil, fmt.Errorf("unknown field %q on model %s", name, m.Name)
		}
		order := ir.Ascending
		if hasDir {
			var ok bool
			if order, ok = ir.ParseSortOrder(dir); !ok {
				return nil, fmt.Errorf("invalid sort order %q for %s", dir, name)
			}
		}
		out = append(out, queryir.Ordering{
			Column: queryir.NewColumn(m.Table, m.Column(name)),
			Order:  compiler.ToOrder(order),
		})
	}
	return out, nil
}
