package ephemeris

import (
	"math"
	"time"
)

// Elongation finds phase instants by searching for the times the Sun→Moon
// elongation crosses 0° (new) and 180° (full). It uses only the dominant
// terms of the solar and lunar longitude series, so instants are typically
// good to within an hour or two.
type Elongation struct {
	years yearRange
	// tolerance is the elongation error, in degrees, at which the search stops.
	tolerance float64
	maxSteps  int
}

// NewElongation returns an Elongation provider valid for years 1000 through 3000.
func NewElongation() *Elongation {
	return &Elongation{
		years:     yearRange{min: 1000, max: 3000},
		tolerance: 1e-6,
		maxSteps:  20,
	}
}

func (e *Elongation) Name() string { return ModelElongation }

func (e *Elongation) PreviousNewMoon(t time.Time) (time.Time, error) {
	if err := e.years.check(t); err != nil {
		return time.Time{}, err
	}
	return e.previous(t, 0), nil
}

func (e *Elongation) NextNewMoon(t time.Time) (time.Time, error) {
	if err := e.years.check(t); err != nil {
		return time.Time{}, err
	}
	return e.next(t, 0), nil
}

func (e *Elongation) NextFullMoon(t time.Time) (time.Time, error) {
	if err := e.years.check(t); err != nil {
		return time.Time{}, err
	}
	return e.next(t, 180), nil
}

// next returns the first instant after t at which the elongation equals target.
func (e *Elongation) next(t time.Time, target float64) time.Time {
	ahead := normalizeAngle(target - ElongationAt(t))
	c := e.refine(addDays(t, ahead/360*SynodicMonth), target)
	if !c.After(t) {
		c = e.refine(addDays(c, SynodicMonth), target)
	}
	return c
}

// previous returns the last instant at or before t at which the elongation
// equals target.
func (e *Elongation) previous(t time.Time, target float64) time.Time {
	behind := normalizeAngle(ElongationAt(t) - target)
	c := e.refine(addDays(t, -behind/360*SynodicMonth), target)
	if c.After(t) {
		c = e.refine(addDays(c, -SynodicMonth), target)
	}
	return c
}

// refine walks c toward the nearest crossing of target, assuming the mean
// elongation rate of 360° per synodic month.
func (e *Elongation) refine(c time.Time, target float64) time.Time {
	for i := 0; i < e.maxSteps; i++ {
		diff := normalizeAngle(ElongationAt(c)-target+180) - 180
		if math.Abs(diff) < e.tolerance {
			break
		}
		c = addDays(c, -diff/360*SynodicMonth)
	}
	return c
}

// ElongationAt returns the Sun→Moon ecliptic elongation in degrees [0,360)
// at t. 0 is new, 180 is full.
func ElongationAt(t time.Time) float64 {
	T := julianCenturies(jdFromTime(t))
	return normalizeAngle(moonEclipticLongitude(T) - sunEclipticLongitude(T))
}

// jdFromTime converts a UTC time to Julian Day
func jdFromTime(t time.Time) float64 {
	return 2440587.5 + float64(t.UnixNano())/86400e9
}

// julianCenturies returns Julian centuries since J2000.0
func julianCenturies(jd float64) float64 {
	return (jd - j2000) / 36525.0
}

// normalizeAngle wraps an angle to the range [0, 360)
func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// sunEclipticLongitude computes the Sun's ecliptic longitude in degrees
func sunEclipticLongitude(T float64) float64 {
	// Mean longitude
	L0 := 280.46646 + 36000.76983*T + 0.0003032*T*T

	// Mean anomaly
	M := 357.52911 + 35999.05029*T - 0.0001537*T*T
	Mrad := degToRad(normalizeAngle(M))

	// Equation of center
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(Mrad) +
		(0.019993-0.000101*T)*math.Sin(2*Mrad) +
		0.000289*math.Sin(3*Mrad)

	return normalizeAngle(L0 + C)
}

// moonEclipticLongitude computes the Moon's ecliptic longitude in degrees
func moonEclipticLongitude(T float64) float64 {
	// Mean longitude
	L := 218.3164477 +
		481267.88123421*T -
		0.0015786*T*T +
		T*T*T/538841 -
		T*T*T*T/65194000

	// Moon mean elongation
	D := 297.8501921 +
		445267.1114034*T -
		0.0018819*T*T +
		T*T*T/545868 -
		T*T*T*T/113065000

	// Sun mean anomaly
	M := 357.5291092 +
		35999.0502909*T -
		0.0001536*T*T +
		T*T*T/24490000

	// Moon mean anomaly
	Mp := 134.9633964 +
		477198.8675055*T +
		0.0087414*T*T +
		T*T*T/69699 -
		T*T*T*T/14712000

	// Argument of latitude
	F := 93.2720950 +
		483202.0175233*T -
		0.0036539*T*T -
		T*T*T/3526000 +
		T*T*T*T/863310000

	Drad := degToRad(normalizeAngle(D))
	Mrad := degToRad(normalizeAngle(M))
	Mprad := degToRad(normalizeAngle(Mp))
	Frad := degToRad(normalizeAngle(F))

	// Dominant terms of Meeus Table 47.A
	lambdaMoon := L +
		6.289*math.Sin(Mprad) +
		1.274*math.Sin(2*Drad-Mprad) +
		0.658*math.Sin(2*Drad) +
		0.214*math.Sin(2*Mprad) -
		0.186*math.Sin(Mrad) -
		0.114*math.Sin(2*Frad)

	return normalizeAngle(lambdaMoon)
}
