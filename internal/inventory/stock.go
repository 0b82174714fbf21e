package inventory

import "github.com/stockroomhq/stockroom-backend/pkg/enums"

// Fixed-band boundaries, independent of per-item thresholds.
const (
	lowStockBandMax    = 20
	mediumStockBandMax = 50
)

// ClassifyStock maps a quantity onto the fixed reporting bands.
func ClassifyStock(quantity int) enums.StockBand {
	switch {
	case quantity <= 0:
		return enums.StockBandOut
	case quantity < lowStockBandMax:
		return enums.StockBandLow
	case quantity < mediumStockBandMax:
		return enums.StockBandMedium
	default:
		return enums.StockBandIn
	}
}
