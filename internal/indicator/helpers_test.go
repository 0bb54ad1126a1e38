package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/Simon666Z/quantforge/internal/types"
)

func some(v float64) optional.Option[float64] {
	return optional.Some(v)
}

func none() optional.Option[float64] {
	return optional.None[float64]()
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}

	return out
}

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}

	return out
}

func allUndefined(s types.Series) bool {
	return s.FirstDefined() == -1
}
