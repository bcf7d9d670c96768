package compiler

import (
	"github.com/raymondSeger/prisma/internal/ir"
	"github.com/raymondSeger/prisma/internal/queryir"
)

// ToOrder maps a client sort order to the renderer's token.
// Panics with a *Fault for anything but Ascending or Descending.
func ToOrder(o ir.SortOrder) queryir.Order {
	switch o {
	case ir.Ascending:
		return queryir.OrderAsc
	case ir.Descending:
		return queryir.OrderDesc
	default:
		panic(newFault(FaultUnknownSortOrder, "unsupported sort order %d", int(o)))
	}
}
