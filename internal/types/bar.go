package types

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"

	"github.com/Simon666Z/quantforge/pkg/errors"
)

// DateLayout is the layout used for bar dates in ledgers, API payloads and files.
const DateLayout = "2006-01-02"

// Bar is one day's OHLCV snapshot for an instrument.
type Bar struct {
	Time   time.Time `yaml:"time" json:"time" validate:"required"`
	Open   float64   `yaml:"open" json:"open" validate:"gt=0"`
	High   float64   `yaml:"high" json:"high" validate:"gt=0"`
	Low    float64   `yaml:"low" json:"low" validate:"gt=0"`
	Close  float64   `yaml:"close" json:"close" validate:"gt=0"`
	Volume int64     `yaml:"volume" json:"volume" validate:"gte=0"`
}

// BarSeries holds bars as parallel arrays. Position i of every array belongs to bar i,
// and Times is strictly increasing.
type BarSeries struct {
	Symbol string
	Times  []time.Time
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
	Volume []int64
}

// NewBarSeries builds a series from bars that are already sorted by date.
// Timestamps are truncated to UTC dates. The bars are rejected with ErrCodeMalformedBarSeries
// when the slice is empty, a bar fails validation, or dates are not strictly increasing.
func NewBarSeries(symbol string, bars []Bar) (BarSeries, error) {
	if len(bars) == 0 {
		return BarSeries{}, errors.New(errors.ErrCodeMalformedBarSeries, "bar series is empty")
	}

	validate := validator.New()
	series := BarSeries{
		Symbol: symbol,
		Times:  make([]time.Time, len(bars)),
		Open:   make([]float64, len(bars)),
		High:   make([]float64, len(bars)),
		Low:    make([]float64, len(bars)),
		Close:  make([]float64, len(bars)),
		Volume: make([]int64, len(bars)),
	}

	for i, bar := range bars {
		if err := validate.Struct(bar); err != nil {
			return BarSeries{}, errors.Wrapf(errors.ErrCodeMalformedBarSeries, err, "invalid bar at index %d", i)
		}

		if bar.Time.IsZero() {
			return BarSeries{}, errors.Newf(errors.ErrCodeMalformedBarSeries, "missing timestamp at index %d", i)
		}

		series.Times[i] = DateOf(bar.Time)
		series.Open[i] = bar.Open
		series.High[i] = bar.High
		series.Low[i] = bar.Low
		series.Close[i] = bar.Close
		series.Volume[i] = bar.Volume
	}

	if err := series.Validate(); err != nil {
		return BarSeries{}, err
	}

	return series, nil
}

// Validate checks the structural invariants of the series.
func (s BarSeries) Validate() error {
	n := len(s.Times)
	if n == 0 {
		return errors.New(errors.ErrCodeMalformedBarSeries, "bar series is empty")
	}

	if len(s.Open) != n || len(s.High) != n || len(s.Low) != n || len(s.Close) != n || len(s.Volume) != n {
		return errors.Newf(errors.ErrCodeMalformedBarSeries,
			"bar series columns have mismatched lengths: times=%d open=%d high=%d low=%d close=%d volume=%d",
			n, len(s.Open), len(s.High), len(s.Low), len(s.Close), len(s.Volume))
	}

	for i := 0; i < n; i++ {
		if !finite(s.Open[i], s.High[i], s.Low[i], s.Close[i]) {
			return errors.Newf(errors.ErrCodeMalformedBarSeries, "missing or non-finite price at %s", s.Times[i].Format(DateLayout))
		}

		if s.Open[i] <= 0 || s.High[i] <= 0 || s.Low[i] <= 0 || s.Close[i] <= 0 {
			return errors.Newf(errors.ErrCodeMalformedBarSeries, "non-positive price at %s", s.Times[i].Format(DateLayout))
		}

		if s.Volume[i] < 0 {
			return errors.Newf(errors.ErrCodeMalformedBarSeries, "negative volume at %s", s.Times[i].Format(DateLayout))
		}

		if i > 0 && !s.Times[i].After(s.Times[i-1]) {
			return errors.Newf(errors.ErrCodeMalformedBarSeries,
				"timestamps must be strictly increasing: %s follows %s",
				s.Times[i].Format(DateLayout), s.Times[i-1].Format(DateLayout))
		}
	}

	return nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// Len returns the number of bars.
func (s BarSeries) Len() int {
	return len(s.Times)
}

// Bar returns the bar at position i.
func (s BarSeries) Bar(i int) Bar {
	return Bar{
		Time:   s.Times[i],
		Open:   s.Open[i],
		High:   s.High[i],
		Low:    s.Low[i],
		Close:  s.Close[i],
		Volume: s.Volume[i],
	}
}

// Bars converts the series back into a slice of bars.
func (s BarSeries) Bars() []Bar {
	bars := make([]Bar, s.Len())
	for i := range bars {
		bars[i] = s.Bar(i)
	}

	return bars
}

// IndexRange resolves an optional [start, end] date window into bar positions.
// first is the first bar on or after start, last is the last bar on or before end.
// ok is false when no bar falls inside the window.
func (s BarSeries) IndexRange(start, end optional.Option[time.Time]) (first, last int, ok bool) {
	first, last = 0, s.Len()-1

	if start.IsSome() {
		from := DateOf(start.Unwrap())
		for first < s.Len() && s.Times[first].Before(from) {
			first++
		}
	}

	if end.IsSome() {
		to := DateOf(end.Unwrap())
		for last >= 0 && s.Times[last].After(to) {
			last--
		}
	}

	return first, last, first <= last && first < s.Len() && last >= 0
}

// DateOf truncates t to midnight UTC of its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
