package fundamentals

import (
	"errors"
	"fmt"
	"time"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

var (
	// ErrDateOutOfRange matches any *DateOutOfRangeError.
	ErrDateOutOfRange = errors.New("date out of range")
	// ErrMissingField matches any *MissingFieldError.
	ErrMissingField = errors.New("missing field")
)

// DateOutOfRangeError reports a lookup before the first available price.
type DateOutOfRangeError struct {
	Symbol   string
	Date     time.Time
	Earliest time.Time // zero when the series is empty
}

func (e *DateOutOfRangeError) Error() string {
	if e.Earliest.IsZero() {
		return fmt.Sprintf("no price for %s on or before %s: series is empty",
			e.Symbol, e.Date.Format(models.DateLayout))
	}
	return fmt.Sprintf("no price for %s on or before %s: earliest is %s",
		e.Symbol, e.Date.Format(models.DateLayout), e.Earliest.Format(models.DateLayout))
}

func (e *DateOutOfRangeError) Is(target error) bool { return target == ErrDateOutOfRange }

// MissingFieldError reports a structurally required statement field that is absent.
type MissingFieldError struct {
	Field   string
	Message string
}

func (e *MissingFieldError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }
