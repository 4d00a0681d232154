// Package ephemeris supplies the new- and full-moon instants that the daily
// lunar tables are built from. Two models are available: Meeus, which wraps
// the true-phase algorithm from Astronomical Algorithms chapter 49, and
// Elongation, a low-precision search over analytic Sun and Moon longitudes.
package ephemeris

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// SynodicMonth is the average length of the lunar cycle in days
const SynodicMonth = 29.530588853

const (
	ModelMeeus      = "meeus"
	ModelElongation = "elongation"
)

var (
	// ErrOutOfRange is returned for instants the model cannot place.
	ErrOutOfRange = errors.New("instant outside ephemeris range")
	// ErrUnknownModel is returned by New for an unrecognized model name.
	ErrUnknownModel = errors.New("unknown ephemeris model")
)

// Provider locates lunar phase instants around a given time. All returned
// instants are in UTC.
type Provider interface {
	// Name identifies the model in data file headers and logs.
	Name() string
	// PreviousNewMoon returns the latest new moon at or before t.
	PreviousNewMoon(t time.Time) (time.Time, error)
	// NextNewMoon returns the earliest new moon strictly after t.
	NextNewMoon(t time.Time) (time.Time, error)
	// NextFullMoon returns the earliest full moon strictly after t.
	NextFullMoon(t time.Time) (time.Time, error)
}

var models = map[string]func() Provider{
	ModelMeeus:      func() Provider { return NewMeeus() },
	ModelElongation: func() Provider { return NewElongation() },
}

// New returns the provider registered under name.
func New(name string) (Provider, error) {
	ctor, ok := models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownModel, name, Models())
	}
	return ctor(), nil
}

// Models lists the registered model names in sorted order.
func Models() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// yearRange bounds the calendar years a model will answer for.
type yearRange struct {
	min, max int
}

func (r yearRange) check(t time.Time) error {
	y := t.UTC().Year()
	if y < r.min || y > r.max {
		return fmt.Errorf("%w: year %d not in [%d, %d]", ErrOutOfRange, y, r.min, r.max)
	}
	return nil
}

// addDays offsets t by a fractional number of days.
func addDays(t time.Time, days float64) time.Time {
	return t.Add(time.Duration(math.Round(days * float64(24*time.Hour))))
}

// daysBetween returns b-a in fractional days.
func daysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}
