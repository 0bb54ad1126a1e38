package types

// SignalSet holds entry and exit flags aligned 1:1 with a BarSeries.
// Both may be true on the same bar.
type SignalSet struct {
	Entries []bool `json:"entries" yaml:"entries"`
	Exits   []bool `json:"exits" yaml:"exits"`
}

// NewSignalSet returns an all-false signal set of length n.
func NewSignalSet(n int) SignalSet {
	return SignalSet{
		Entries: make([]bool, n),
		Exits:   make([]bool, n),
	}
}

// Len returns the number of bars covered.
func (s SignalSet) Len() int {
	return len(s.Entries)
}

// Shift moves every flag forward by one bar. A flag raised at bar t can only be acted
// on at t+1, and the first bar becomes false.
func (s SignalSet) Shift() SignalSet {
	shifted := NewSignalSet(s.Len())
	for i := 1; i < s.Len(); i++ {
		shifted.Entries[i] = s.Entries[i-1]
		shifted.Exits[i] = s.Exits[i-1]
	}

	return shifted
}

// CountEntries returns the number of bars with an entry flag.
func (s SignalSet) CountEntries() int {
	return countTrue(s.Entries)
}

// CountExits returns the number of bars with an exit flag.
func (s SignalSet) CountExits() int {
	return countTrue(s.Exits)
}

func countTrue(flags []bool) int {
	n := 0

	for _, f := range flags {
		if f {
			n++
		}
	}

	return n
}
