package ephemeris

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/deltat"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonphase"
	"github.com/soniakeys/unit"
)

const (
	j2000      = 2451545.0
	julianYear = 365.25

	// lunationsPerYear converts decimal years to lunation numbers (Meeus eq. 49.2).
	lunationsPerYear = 12.3685

	// lunationZeroJDE is the mean new moon of 2000 January 6, lunation k=0.
	lunationZeroJDE = 2451550.09766
)

// Meeus computes true phase instants with the periodic corrections of
// Astronomical Algorithms chapter 49. Results are accurate to a few minutes
// over the supported range.
type Meeus struct {
	years yearRange
}

// NewMeeus returns a Meeus provider valid for years -2000 through 3000.
func NewMeeus() *Meeus {
	return &Meeus{years: yearRange{min: -2000, max: 3000}}
}

func (m *Meeus) Name() string { return ModelMeeus }

func (m *Meeus) PreviousNewMoon(t time.Time) (time.Time, error) {
	if err := m.years.check(t); err != nil {
		return time.Time{}, err
	}
	jd := julian.TimeToJD(t)
	k := m.lunationBefore(jd)
	return julian.JDToTime(newMoonJD(k)), nil
}

func (m *Meeus) NextNewMoon(t time.Time) (time.Time, error) {
	if err := m.years.check(t); err != nil {
		return time.Time{}, err
	}
	jd := julian.TimeToJD(t)
	k := m.lunationBefore(jd) + 1
	return julian.JDToTime(newMoonJD(k)), nil
}

func (m *Meeus) NextFullMoon(t time.Time) (time.Time, error) {
	if err := m.years.check(t); err != nil {
		return time.Time{}, err
	}
	jd := julian.TimeToJD(t)
	k := m.lunationBefore(jd)
	full := fullMoonJD(k)
	for full <= jd {
		k++
		full = fullMoonJD(k)
	}
	return julian.JDToTime(full), nil
}

// lunationBefore returns the integer lunation k whose new moon satisfies
// newMoonJD(k) <= jd < newMoonJD(k+1).
func (m *Meeus) lunationBefore(jd float64) float64 {
	k := math.Floor((jd - lunationZeroJDE) / SynodicMonth)
	for newMoonJD(k) > jd {
		k--
	}
	for newMoonJD(k+1) <= jd {
		k++
	}
	return k
}

// lunationYear is the decimal year moonphase snaps back to lunation k.
func lunationYear(k float64) float64 {
	return 2000 + k/lunationsPerYear
}

// newMoonJD returns the new moon of lunation k as a UT Julian day.
func newMoonJD(k float64) float64 {
	return toUT(moonphase.New(lunationYear(k)))
}

// fullMoonJD returns the full moon following the new moon of lunation k.
func fullMoonJD(k float64) float64 {
	return toUT(moonphase.Full(lunationYear(k + .5)))
}

// toUT removes ΔT from an ephemeris (dynamical) Julian day.
func toUT(jde float64) float64 {
	return jde - deltaT(jde).Day()
}

func deltaT(jde float64) unit.Time {
	y := 2000 + (jde-j2000)/julianYear
	switch {
	case y < 948:
		return deltat.PolyBefore948(y)
	case y < 1620:
		return deltat.Poly948to1600(y)
	case y < 2000:
		return deltat.Interp10A(jde)
	default:
		return deltat.PolyAfter2000(y)
	}
}
