package types

import (
	"math"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/Simon666Z/quantforge/pkg/errors"
)

type BarSeriesTestSuite struct {
	suite.Suite
}

func TestBarSeriesSuite(t *testing.T) {
	suite.Run(t, new(BarSeriesTestSuite))
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func bar(d int, price float64) Bar {
	return Bar{Time: day(d), Open: price, High: price + 1, Low: price - 1, Close: price, Volume: 100}
}

func (suite *BarSeriesTestSuite) TestNewBarSeries() {
	tests := []struct {
		name        string
		bars        []Bar
		expectError bool
	}{
		{
			name: "valid ascending series",
			bars: []Bar{bar(1, 10), bar(2, 11), bar(3, 12)},
		},
		{
			name:        "empty series",
			bars:        []Bar{},
			expectError: true,
		},
		{
			name:        "duplicate timestamp",
			bars:        []Bar{bar(1, 10), bar(1, 11)},
			expectError: true,
		},
		{
			name:        "descending timestamps",
			bars:        []Bar{bar(2, 10), bar(1, 11)},
			expectError: true,
		},
		{
			name:        "zero close",
			bars:        []Bar{{Time: day(1), Open: 1, High: 1, Low: 1, Close: 0}},
			expectError: true,
		},
		{
			name:        "negative volume",
			bars:        []Bar{{Time: day(1), Open: 1, High: 1, Low: 1, Close: 1, Volume: -1}},
			expectError: true,
		},
		{
			name:        "missing timestamp",
			bars:        []Bar{{Open: 1, High: 1, Low: 1, Close: 1}},
			expectError: true,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			series, err := NewBarSeries("AAPL", tc.bars)
			if tc.expectError {
				suite.Error(err)
				suite.True(errors.HasCode(err, errors.ErrCodeMalformedBarSeries))

				return
			}

			suite.NoError(err)
			suite.Equal(len(tc.bars), series.Len())
			suite.Equal("AAPL", series.Symbol)
		})
	}
}

func (suite *BarSeriesTestSuite) TestNewBarSeriesNormalizesDates() {
	ny, err := time.LoadLocation("America/New_York")
	suite.Require().NoError(err)

	series, err := NewBarSeries("SPY", []Bar{
		{Time: time.Date(2024, 3, 4, 16, 0, 0, 0, ny), Open: 1, High: 1, Low: 1, Close: 1},
		{Time: time.Date(2024, 3, 5, 9, 30, 0, 0, ny), Open: 1, High: 1, Low: 1, Close: 1},
	})
	suite.Require().NoError(err)
	suite.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), series.Times[0])
	suite.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), series.Times[1])
}

func (suite *BarSeriesTestSuite) TestValidateMismatchedColumns() {
	series := BarSeries{
		Times: []time.Time{day(1), day(2)},
		Open:  []float64{1, 1},
		High:  []float64{1, 1},
		Low:   []float64{1},
		Close: []float64{1, 1},
		Volume: []int64{
			1, 1,
		},
	}

	err := series.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMalformedBarSeries))
}

func (suite *BarSeriesTestSuite) TestValidateRejectsNonFinitePrices() {
	tests := []struct {
		name   string
		mutate func(s *BarSeries)
	}{
		{name: "NaN close", mutate: func(s *BarSeries) { s.Close[1] = math.NaN() }},
		{name: "NaN open", mutate: func(s *BarSeries) { s.Open[0] = math.NaN() }},
		{name: "NaN high", mutate: func(s *BarSeries) { s.High[2] = math.NaN() }},
		{name: "NaN low", mutate: func(s *BarSeries) { s.Low[2] = math.NaN() }},
		{name: "positive infinity", mutate: func(s *BarSeries) { s.High[1] = math.Inf(1) }},
		{name: "negative infinity", mutate: func(s *BarSeries) { s.Low[0] = math.Inf(-1) }},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			series, err := NewBarSeries("AAPL", []Bar{bar(1, 10), bar(2, 11), bar(3, 12)})
			suite.Require().NoError(err)

			tc.mutate(&series)

			err = series.Validate()
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeMalformedBarSeries))
		})
	}
}

func (suite *BarSeriesTestSuite) TestBarRoundTrip() {
	bars := []Bar{bar(1, 10), bar(2, 11), bar(3, 12)}
	series, err := NewBarSeries("AAPL", bars)
	suite.Require().NoError(err)
	suite.Equal(bars, series.Bars())
	suite.Equal(bars[1], series.Bar(1))
}

func (suite *BarSeriesTestSuite) TestIndexRange() {
	series, err := NewBarSeries("AAPL", []Bar{bar(2, 10), bar(3, 11), bar(5, 12), bar(8, 13)})
	suite.Require().NoError(err)

	tests := []struct {
		name   string
		start  optional.Option[time.Time]
		end    optional.Option[time.Time]
		first  int
		last   int
		inside bool
	}{
		{name: "no window", start: optional.None[time.Time](), end: optional.None[time.Time](), first: 0, last: 3, inside: true},
		{name: "start between bars", start: optional.Some(day(4)), end: optional.None[time.Time](), first: 2, last: 3, inside: true},
		{name: "end between bars", start: optional.None[time.Time](), end: optional.Some(day(6)), first: 0, last: 2, inside: true},
		{name: "exact bounds", start: optional.Some(day(3)), end: optional.Some(day(5)), first: 1, last: 2, inside: true},
		{name: "window without bars", start: optional.Some(day(6)), end: optional.Some(day(7)), inside: false},
		{name: "window after data", start: optional.Some(day(20)), end: optional.None[time.Time](), inside: false},
		{name: "window before data", start: optional.None[time.Time](), end: optional.Some(day(1)), inside: false},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			first, last, ok := series.IndexRange(tc.start, tc.end)
			suite.Equal(tc.inside, ok)

			if tc.inside {
				suite.Equal(tc.first, first)
				suite.Equal(tc.last, last)
			}
		})
	}
}
