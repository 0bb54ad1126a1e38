package types

import "github.com/moznion/go-optional"

// Series is an indicator output aligned with a BarSeries. None marks positions
// where the indicator does not have enough history yet.
type Series []optional.Option[float64]

// NewSeries returns a series of length n with every value undefined.
func NewSeries(n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = optional.None[float64]()
	}

	return s
}

// SeriesFromFloats wraps every value as defined.
func SeriesFromFloats(values []float64) Series {
	s := make(Series, len(values))
	for i, v := range values {
		s[i] = optional.Some(v)
	}

	return s
}

// At returns the value at i and whether it is defined. Out of range positions are undefined.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) || s[i].IsNone() {
		return 0, false
	}

	return s[i].Unwrap(), true
}

// FirstDefined returns the position of the first defined value, or -1.
func (s Series) FirstDefined() int {
	for i, v := range s {
		if v.IsSome() {
			return i
		}
	}

	return -1
}
