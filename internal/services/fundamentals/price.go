package fundamentals

import (
	"time"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
	"github.com/fslick/fundamentals-yf/pkg/util"
)

// PriceOn returns the close of the most recent point dated on or before date.
// Dates compare as calendar days; among points sharing a day the one inserted
// last wins. A date before the first point, or an empty series, yields a
// *DateOutOfRangeError.
func PriceOn(date time.Time, series *models.PriceSeries) (float64, error) {
	day := util.TruncateDay(date)
	var (
		symbol   string
		best     time.Time
		closing  float64
		found    bool
		earliest time.Time
	)
	if series != nil {
		symbol = series.Symbol
		for i, p := range series.Points {
			d := util.TruncateDay(p.Date)
			if i == 0 || d.Before(earliest) {
				earliest = d
			}
			if d.After(day) {
				continue
			}
			if !found || !d.Before(best) {
				best, closing, found = d, p.Close, true
			}
		}
	}
	if !found {
		return 0, &DateOutOfRangeError{Symbol: symbol, Date: day, Earliest: earliest}
	}
	return closing, nil
}
