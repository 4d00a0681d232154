package lunar

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// MonthSummary lists the marked days of one month as the poster shows them.
type MonthSummary struct {
	Month     time.Month `yaml:"month"`
	FullMoons []int      `yaml:"full_moons"`
	BlueMoons []int      `yaml:"blue_moons,omitempty"`
	NewMoons  []int      `yaml:"new_moons"`
	Weekends  []int      `yaml:"weekends"` // Friday and Saturday nights
}

// YearSummary collects the month summaries of a table along with the spread
// of the lunations it contains, measured in whole days between new-moon labels.
type YearSummary struct {
	Year           int              `yaml:"year"`
	Months         [12]MonthSummary `yaml:"months"`
	Lunations      int              `yaml:"lunations"`
	MeanLunation   float64          `yaml:"mean_lunation_days"`
	LunationStdDev float64          `yaml:"lunation_stddev_days"`
}

// Summarize groups a table by month. The first full moon of a month is a
// full moon; any later one in the same month is a blue moon.
func Summarize(t *YearTable) YearSummary {
	s := YearSummary{Year: t.Year}
	for i := range s.Months {
		s.Months[i].Month = time.Month(i + 1)
	}

	var newMoonDays []float64
	for i, r := range t.Days {
		if r.Month < 1 || r.Month > 12 {
			continue
		}
		m := &s.Months[r.Month-1]

		switch r.Label {
		case LabelFull:
			if len(m.FullMoons) > 0 {
				m.BlueMoons = append(m.BlueMoons, r.Day)
			} else {
				m.FullMoons = append(m.FullMoons, r.Day)
			}
		case LabelNew:
			m.NewMoons = append(m.NewMoons, r.Day)
			newMoonDays = append(newMoonDays, float64(i))
		}

		if r.Weekday == 5 || r.Weekday == 6 {
			m.Weekends = append(m.Weekends, r.Day)
		}
	}

	if len(newMoonDays) > 1 {
		gaps := make([]float64, len(newMoonDays)-1)
		for i := range gaps {
			gaps[i] = newMoonDays[i+1] - newMoonDays[i]
		}
		s.Lunations = len(gaps)
		s.MeanLunation, s.LunationStdDev = stat.MeanStdDev(gaps, nil)
	}
	return s
}

// Marks returns the poster glyph for each marked day of the month: 'f' for a
// full moon, 'b' for a blue moon and 'n' for a new moon.
func (m MonthSummary) Marks() map[int]rune {
	marks := make(map[int]rune, len(m.FullMoons)+len(m.BlueMoons)+len(m.NewMoons))
	for _, d := range m.NewMoons {
		marks[d] = 'n'
	}
	for _, d := range m.FullMoons {
		marks[d] = 'f'
	}
	for _, d := range m.BlueMoons {
		marks[d] = 'b'
	}
	return marks
}
