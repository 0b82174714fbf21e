package inventory

import (
	"testing"

	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

func TestClassifyStockBands(t *testing.T) {
	cases := []struct {
		quantity int
		want     enums.StockBand
	}{
		{-5, enums.StockBandOut},
		{0, enums.StockBandOut},
		{1, enums.StockBandLow},
		{19, enums.StockBandLow},
		{20, enums.StockBandMedium},
		{49, enums.StockBandMedium},
		{50, enums.StockBandIn},
		{5000, enums.StockBandIn},
	}

	for _, tc := range cases {
		if got := ClassifyStock(tc.quantity); got != tc.want {
			t.Errorf("ClassifyStock(%d) = %s, want %s", tc.quantity, got, tc.want)
		}
	}
}
