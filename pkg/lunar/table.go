package lunar

import (
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/lunartable/pkg/ephemeris"
)

const (
	MinYear = 1
	MaxYear = 9999
)

// ErrInvalidYear is returned by BuildYear for years outside [MinYear, MaxYear].
var ErrInvalidYear = errors.New("invalid year")

// DefaultZone is the zone database name of PacificStandard, for callers that
// resolve zones by name.
const DefaultZone = "Etc/GMT+8"

// PacificStandard is the zone used for labelling when Config.Local is unset.
// It stays at UTC-8 all year.
var PacificStandard = time.FixedZone("PST", -8*60*60)

// Label marks days holding a notable phase.
type Label int

const (
	LabelNone Label = 0
	LabelFull Label = 1
	LabelNew  Label = 2
)

func (l Label) String() string {
	switch l {
	case LabelFull:
		return "full"
	case LabelNew:
		return "new"
	default:
		return "none"
	}
}

// DayRecord is one row of a year table.
type DayRecord struct {
	Year    int
	Month   int
	Day     int
	Phase   float64
	Label   Label
	Weekday int // ISO: 1 = Monday, 7 = Sunday
}

// Date returns the record's calendar date at midnight in loc.
func (r DayRecord) Date(loc *time.Location) time.Time {
	return time.Date(r.Year, time.Month(r.Month), r.Day, 0, 0, 0, 0, loc)
}

// YearTable holds one record per calendar day of Year, in date order.
type YearTable struct {
	Year int
	Days []DayRecord
}

// Config selects the ephemeris model and time references for a Builder.
type Config struct {
	// Provider supplies phase instants. Defaults to ephemeris.NewMeeus().
	Provider ephemeris.Provider
	// Frame is the zone whose midnights are the daily sample instants.
	// Defaults to UTC.
	Frame *time.Location
	// Local is the civil zone in which a full or new moon's calendar day is
	// judged. Defaults to PacificStandard.
	Local *time.Location
}

// Builder produces year tables. It holds no state between years.
type Builder struct {
	provider ephemeris.Provider
	frame    *time.Location
	local    *time.Location
}

// NewBuilder returns a Builder for cfg, filling unset fields with defaults.
func NewBuilder(cfg Config) *Builder {
	b := &Builder{
		provider: cfg.Provider,
		frame:    cfg.Frame,
		local:    cfg.Local,
	}
	if b.provider == nil {
		b.provider = ephemeris.NewMeeus()
	}
	if b.frame == nil {
		b.frame = time.UTC
	}
	if b.local == nil {
		b.local = PacificStandard
	}
	return b
}

// Provider returns the ephemeris model the builder consults.
func (b *Builder) Provider() ephemeris.Provider { return b.provider }

// BuildYear samples every day of year at midnight in the builder's frame. A
// provider error aborts the year; no partial table is returned.
func (b *Builder) BuildYear(year int) (*YearTable, error) {
	if year < MinYear || year > MaxYear {
		return nil, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}

	table := &YearTable{Year: year, Days: make([]DayRecord, 0, 366)}
	for date := time.Date(year, time.January, 1, 0, 0, 0, 0, b.frame); date.Year() == year; date = date.AddDate(0, 0, 1) {
		rec, err := b.day(date)
		if err != nil {
			return nil, fmt.Errorf("building %d: %w", year, err)
		}
		table.Days = append(table.Days, rec)
	}
	return table, nil
}

func (b *Builder) day(date time.Time) (DayRecord, error) {
	y, m, d := date.Date()

	prev, next, err := bracket(b.provider, date)
	if err != nil {
		return DayRecord{}, err
	}

	label, err := b.label(date, next)
	if err != nil {
		return DayRecord{}, err
	}

	return DayRecord{
		Year:    y,
		Month:   int(m),
		Day:     d,
		Phase:   fraction(date, prev, next),
		Label:   label,
		Weekday: isoWeekday(date.Weekday()),
	}, nil
}

// label compares the local calendar day of the coming full and new moons
// against date. Full takes priority when both match.
func (b *Builder) label(date, nextNew time.Time) (Label, error) {
	_, m, d := date.Date()

	full, err := b.provider.NextFullMoon(date)
	if err != nil {
		return LabelNone, fmt.Errorf("next full moon for %s: %w", date.Format(time.RFC3339), err)
	}
	if sameDay(full.In(b.local), m, d) {
		return LabelFull, nil
	}
	if sameDay(nextNew.In(b.local), m, d) {
		return LabelNew, nil
	}
	return LabelNone, nil
}

func sameDay(t time.Time, m time.Month, d int) bool {
	_, tm, td := t.Date()
	return tm == m && td == d
}

func isoWeekday(w time.Weekday) int {
	if w == time.Sunday {
		return 7
	}
	return int(w)
}
