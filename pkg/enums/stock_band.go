package enums

import "fmt"

// StockBand is the fixed four-tier reporting classification. It is independent
// of the per-item low stock threshold used for alerting.
type StockBand string

const (
	StockBandOut    StockBand = "Out of Stock"
	StockBandLow    StockBand = "Low Stock"
	StockBandMedium StockBand = "Medium Stock"
	StockBandIn     StockBand = "In Stock"
)

var validStockBands = []StockBand{
	StockBandOut,
	StockBandLow,
	StockBandMedium,
	StockBandIn,
}

// IsValid reports whether the value matches a canonical stock band.
func (b StockBand) IsValid() bool {
	for _, candidate := range validStockBands {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseStockBand converts raw input into StockBand.
func ParseStockBand(value string) (StockBand, error) {
	for _, candidate := range validStockBands {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock band %q", value)
}
