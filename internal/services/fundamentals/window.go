package fundamentals

import (
	"sort"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

// TrailingWindow is the number of periods in a trailing aggregate.
const TrailingWindow = 4

// SortByDate returns a copy of statements ordered by date ascending.
func SortByDate(statements []models.Statement) []models.Statement {
	out := make([]models.Statement, len(statements))
	copy(out, statements)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// PreviousWindow drops the most recent statement, so a trailing aggregate over
// the result covers the window shifted back one period.
func PreviousWindow(statements []models.Statement) []models.Statement {
	if len(statements) == 0 {
		return nil
	}
	sorted := SortByDate(statements)
	return sorted[:len(sorted)-1]
}

func lastN(sorted []models.Statement, n int) []models.Statement {
	if len(sorted) <= n {
		return sorted
	}
	return sorted[len(sorted)-n:]
}
