package scan

import (
	"slices"
	"time"

	"github.com/Simon666Z/quantforge/pkg/errors"
)

// Scenario is a named historical stress window. Start and End are inclusive dates.
type Scenario struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Start       time.Time `json:"start" yaml:"start"`
	End         time.Time `json:"end" yaml:"end"`
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

var scenarios = map[string]Scenario{
	"covid_crash": {
		Name:        "covid_crash",
		Description: "COVID-19 sell-off and first rebound",
		Start:       date(2020, time.February, 19),
		End:         date(2020, time.April, 30),
	},
	"gfc_2008": {
		Name:        "gfc_2008",
		Description: "Global financial crisis, October 2007 peak to March 2009 trough",
		Start:       date(2007, time.October, 9),
		End:         date(2009, time.March, 9),
	},
	"dotcom_bust": {
		Name:        "dotcom_bust",
		Description: "Dot-com bubble unwind",
		Start:       date(2000, time.March, 10),
		End:         date(2002, time.October, 9),
	},
	"rate_hike_2022": {
		Name:        "rate_hike_2022",
		Description: "2022 rate hiking cycle bear market",
		Start:       date(2022, time.January, 3),
		End:         date(2022, time.October, 12),
	},
	"flash_crash_2010": {
		Name:        "flash_crash_2010",
		Description: "May 2010 flash crash and summer correction",
		Start:       date(2010, time.April, 23),
		End:         date(2010, time.July, 2),
	},
}

// Scenarios returns every known scenario ordered by name.
func Scenarios() []Scenario {
	all := make([]Scenario, 0, len(scenarios))
	for _, s := range scenarios {
		all = append(all, s)
	}

	slices.SortFunc(all, func(a, b Scenario) int {
		if a.Name < b.Name {
			return -1
		}

		if a.Name > b.Name {
			return 1
		}

		return 0
	})

	return all
}

// LookupScenario returns the scenario called name or ErrCodeUnknownScenario.
func LookupScenario(name string) (Scenario, error) {
	s, ok := scenarios[name]
	if !ok {
		return Scenario{}, errors.Newf(errors.ErrCodeUnknownScenario, "unknown scenario: %s", name)
	}

	return s, nil
}
