// Package lunar builds per-day moon phase tables for a calendar year. Phase
// fractions are interpolated between the surrounding new moons reported by an
// ephemeris.Provider, and days holding a full or new moon in the local civil
// zone are labelled for the poster renderer.
package lunar

import (
	"fmt"
	"math"
	"time"

	"github.com/chrissnell/lunartable/pkg/ephemeris"
)

// MoonPhase contains calculated moon phase information
type MoonPhase struct {
	Phase        float64 // Lunation fraction [0,1): 0=new, 0.5=full
	Elongation   float64 // Sun→Moon angle in degrees [0,360)
	Illumination float64 // Illuminated fraction [0,1]: 0=new, 1=full
	AgeDays      float64 // Days since the previous new moon
	IsWaxing     bool    // True when moon is waxing (getting fuller)
	PhaseName    string  // Human-readable phase name
}

// Describe reports the moon at t. Phase and AgeDays come from p; the
// illumination and phase name come from the Sun→Moon elongation.
func Describe(p ephemeris.Provider, t time.Time) (MoonPhase, error) {
	prev, next, err := bracket(p, t)
	if err != nil {
		return MoonPhase{}, err
	}

	elongation := ephemeris.ElongationAt(t)
	illumination := (1 - math.Cos(elongation*math.Pi/180)) / 2
	isWaxing := elongation < 180

	return MoonPhase{
		Phase:        fraction(t, prev, next),
		Elongation:   elongation,
		Illumination: illumination,
		AgeDays:      t.Sub(prev).Hours() / 24,
		IsWaxing:     isWaxing,
		PhaseName:    phaseName(illumination, isWaxing),
	}, nil
}

// PhaseOnDate returns the fraction of the lunation elapsed at t, linearly
// interpolated between the new moons on either side of it.
func PhaseOnDate(p ephemeris.Provider, t time.Time) (float64, error) {
	prev, next, err := bracket(p, t)
	if err != nil {
		return 0, err
	}
	return fraction(t, prev, next), nil
}

// bracket returns the new moons prev <= t < next.
func bracket(p ephemeris.Provider, t time.Time) (prev, next time.Time, err error) {
	prev, err = p.PreviousNewMoon(t)
	if err != nil {
		return prev, next, fmt.Errorf("previous new moon for %s: %w", t.Format(time.RFC3339), err)
	}
	next, err = p.NextNewMoon(t)
	if err != nil {
		return prev, next, fmt.Errorf("next new moon for %s: %w", t.Format(time.RFC3339), err)
	}
	return prev, next, nil
}

func fraction(t, prev, next time.Time) float64 {
	return float64(t.Sub(prev)) / float64(next.Sub(prev))
}

// phaseName returns the 8-phase name based on illumination percentage and direction
func phaseName(illumination float64, isWaxing bool) string {
	switch {
	case illumination < 0.01:
		return "New Moon"
	case illumination > 0.99:
		return "Full Moon"
	case illumination >= 0.49 && illumination <= 0.51:
		if isWaxing {
			return "First Quarter"
		}
		return "Third Quarter"
	case illumination < 0.50:
		if isWaxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default:
		if isWaxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	}
}
