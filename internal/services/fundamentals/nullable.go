package fundamentals

import (
	"math"

	"github.com/guregu/null/v6"
)

// present is true for a known, non-zero value.
func present(v null.Float) bool {
	return v.Valid && v.Float64 != 0
}

// firstPresent returns the first known, non-zero value, or null.
func firstPresent(vs ...null.Float) null.Float {
	for _, v := range vs {
		if present(v) {
			return v
		}
	}
	return null.Float{}
}

// firstValid returns the first known value, or null.
func firstValid(vs ...null.Float) null.Float {
	for _, v := range vs {
		if v.Valid {
			return v
		}
	}
	return null.Float{}
}

// add is null when either side is unknown.
func add(a, b null.Float) null.Float {
	if !a.Valid || !b.Valid {
		return null.Float{}
	}
	return finite(a.Float64 + b.Float64)
}

// sum is null when any term is unknown or there are no terms.
func sum(vs ...null.Float) null.Float {
	if len(vs) == 0 {
		return null.Float{}
	}
	total := vs[0]
	for _, v := range vs[1:] {
		total = add(total, v)
	}
	return total
}

// mul is null unless both factors are present.
func mul(a, b null.Float) null.Float {
	if !present(a) || !present(b) {
		return null.Float{}
	}
	return finite(a.Float64 * b.Float64)
}

// div is null for an unknown numerator or a zero/unknown denominator.
func div(num, den null.Float) null.Float {
	if !num.Valid || !present(den) {
		return null.Float{}
	}
	return finite(num.Float64 / den.Float64)
}

func sub(a, b null.Float) null.Float {
	if !a.Valid || !b.Valid {
		return null.Float{}
	}
	return finite(a.Float64 - b.Float64)
}

func finite(f float64) null.Float {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return null.Float{}
	}
	return null.FloatFrom(f)
}
