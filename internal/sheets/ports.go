package sheets

import (
	"context"

	"menusales/internal/core"
)

// Ports for outbound adapters.
type (
	// TableLoader reads one category's sheet. Each call reads the source
	// afresh; a missing sheet or unreadable source yields *core.NotFoundError.
	TableLoader interface {
		Load(ctx context.Context, category core.Category) (core.SalesTable, error)
	}

	// SheetLister reports which categories the source actually contains.
	SheetLister interface {
		Sheets(ctx context.Context) ([]core.Category, error)
	}

	// LayoutResolver tells adapters which axis of a sheet holds the items.
	LayoutResolver interface {
		LayoutOf(category core.Category) core.Layout
	}
)
