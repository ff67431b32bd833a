// Package money converts job costs expressed in USD to the integer cent
// amounts stored in the ledger.
package money

import (
	"fmt"
	"math"
)

// ToCents converts a USD amount to integer cents.
//
// Amounts of at least one cent round to the nearest cent. Sub-cent
// amounts keep two extra digits of precision (round(usd*10000)/100)
// before truncating at the integer storage boundary, so 0.005 USD
// becomes 50/100 = 0 stored cents. The truncation is an intentional
// approximation: the ledger stores whole cents only.
//
// Returns an error for NaN or infinite input.
func ToCents(usd float64) (int64, error) {
	if math.IsNaN(usd) || math.IsInf(usd, 0) {
		return 0, fmt.Errorf("cost must be a finite number, got %v", usd)
	}
	if usd >= 0.01 {
		return int64(math.Round(usd * 100)), nil
	}
	return int64(math.Round(usd*10000)) / 100, nil
}
