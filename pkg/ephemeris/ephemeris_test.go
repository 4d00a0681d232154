package ephemeris

import (
	"errors"
	"math"
	"testing"
	"time"
)

// Published 2023 phase instants (UTC), rounded to the minute.
var (
	newMoons2023 = []time.Time{
		time.Date(2023, 1, 21, 20, 53, 0, 0, time.UTC),
		time.Date(2023, 2, 20, 7, 6, 0, 0, time.UTC),
		time.Date(2023, 3, 21, 17, 23, 0, 0, time.UTC),
		time.Date(2023, 4, 20, 4, 12, 0, 0, time.UTC),
		time.Date(2023, 5, 19, 15, 53, 0, 0, time.UTC),
		time.Date(2023, 6, 18, 4, 37, 0, 0, time.UTC),
		time.Date(2023, 7, 17, 18, 32, 0, 0, time.UTC),
		time.Date(2023, 8, 16, 9, 38, 0, 0, time.UTC),
		time.Date(2023, 9, 15, 1, 40, 0, 0, time.UTC),
		time.Date(2023, 10, 14, 17, 55, 0, 0, time.UTC),
		time.Date(2023, 11, 13, 9, 27, 0, 0, time.UTC),
		time.Date(2023, 12, 12, 23, 32, 0, 0, time.UTC),
	}
	fullMoons2023 = []time.Time{
		time.Date(2023, 2, 5, 18, 29, 0, 0, time.UTC),
		time.Date(2023, 8, 1, 18, 31, 0, 0, time.UTC),
		time.Date(2023, 8, 31, 1, 35, 0, 0, time.UTC),
	}
)

func within(got, want time.Time, tol time.Duration) bool {
	d := got.Sub(want)
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestMeeusKnownInstants(t *testing.T) {
	m := NewMeeus()

	for _, nm := range newMoons2023 {
		// A day after each new moon, the previous new moon is that one.
		probe := nm.Add(24 * time.Hour)

		prev, err := m.PreviousNewMoon(probe)
		if err != nil {
			t.Fatalf("PreviousNewMoon(%v): %v", probe, err)
		}
		if !within(prev, nm, 10*time.Minute) {
			t.Errorf("PreviousNewMoon(%v) = %v, expected %v", probe, prev, nm)
		}

		// Just before the new moon, it is the next one.
		next, err := m.NextNewMoon(nm.Add(-time.Hour))
		if err != nil {
			t.Fatalf("NextNewMoon: %v", err)
		}
		if !within(next, nm, 10*time.Minute) {
			t.Errorf("NextNewMoon(%v) = %v, expected %v", nm.Add(-time.Hour), next, nm)
		}
	}

	for _, fm := range fullMoons2023 {
		probe := fm.Add(-72 * time.Hour)
		got, err := m.NextFullMoon(probe)
		if err != nil {
			t.Fatalf("NextFullMoon: %v", err)
		}
		if !within(got, fm, 10*time.Minute) {
			t.Errorf("NextFullMoon(%v) = %v, expected %v", probe, got, fm)
		}
	}
}

func TestProvidersBracketEveryDay(t *testing.T) {
	for _, p := range []Provider{NewMeeus(), NewElongation()} {
		t.Run(p.Name(), func(t *testing.T) {
			start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			for day := 0; day < 366; day++ {
				ts := start.AddDate(0, 0, day)

				prev, err := p.PreviousNewMoon(ts)
				if err != nil {
					t.Fatalf("PreviousNewMoon(%v): %v", ts, err)
				}
				next, err := p.NextNewMoon(ts)
				if err != nil {
					t.Fatalf("NextNewMoon(%v): %v", ts, err)
				}
				if prev.After(ts) || !next.After(ts) {
					t.Fatalf("%v not bracketed by [%v, %v)", ts, prev, next)
				}

				lunation := daysBetween(prev, next)
				if lunation < 29.1 || lunation > 30.0 {
					t.Errorf("lunation around %v = %.3f days, expected 29.1-30.0", ts, lunation)
				}

				full, err := p.NextFullMoon(ts)
				if err != nil {
					t.Fatalf("NextFullMoon(%v): %v", ts, err)
				}
				if !full.After(ts) || daysBetween(ts, full) > 30 {
					t.Errorf("NextFullMoon(%v) = %v, expected within the coming month", ts, full)
				}
			}
		})
	}
}

func TestMeeusPreviousJustAfterInstant(t *testing.T) {
	m := NewMeeus()
	nm, err := m.NextNewMoon(time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	prev, err := m.PreviousNewMoon(nm.Add(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if !within(prev, nm, time.Millisecond) {
		t.Errorf("PreviousNewMoon just after %v = %v", nm, prev)
	}
}

func TestElongationAgreesWithMeeus(t *testing.T) {
	m := NewMeeus()
	e := NewElongation()

	for _, nm := range newMoons2023 {
		probe := nm.Add(-48 * time.Hour)
		want, err := m.NextNewMoon(probe)
		if err != nil {
			t.Fatal(err)
		}
		got, err := e.NextNewMoon(probe)
		if err != nil {
			t.Fatal(err)
		}
		if !within(got, want, 4*time.Hour) {
			t.Errorf("elongation new moon %v differs from meeus %v by %v", got, want, got.Sub(want))
		}
	}

	for _, fm := range fullMoons2023 {
		probe := fm.Add(-48 * time.Hour)
		want, _ := m.NextFullMoon(probe)
		got, _ := e.NextFullMoon(probe)
		if !within(got, want, 4*time.Hour) {
			t.Errorf("elongation full moon %v differs from meeus %v by %v", got, want, got.Sub(want))
		}
	}
}

func TestElongationAt(t *testing.T) {
	tests := []struct {
		name   string
		time   time.Time
		target float64
	}{
		{"new moon Jan 2023", newMoons2023[0], 0},
		{"full moon Feb 2023", fullMoons2023[0], 180},
		{"first quarter Jan 2023", time.Date(2023, 1, 28, 15, 19, 0, 0, time.UTC), 90},
		{"third quarter Feb 2023", time.Date(2023, 2, 13, 16, 1, 0, 0, time.UTC), 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ElongationAt(tt.time)
			if got < 0 || got >= 360 {
				t.Fatalf("ElongationAt = %.3f, expected [0, 360)", got)
			}
			diff := math.Abs(normalizeAngle(got-tt.target+180) - 180)
			if diff > 1.5 {
				t.Errorf("ElongationAt = %.3f°, expected within 1.5° of %.0f°", got, tt.target)
			}
		})
	}
}

func TestOutOfRange(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		time     time.Time
	}{
		{"meeus far future", NewMeeus(), time.Date(3500, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"elongation far past", NewElongation(), time.Date(500, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.provider.PreviousNewMoon(tt.time); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("PreviousNewMoon error = %v, expected ErrOutOfRange", err)
			}
			if _, err := tt.provider.NextNewMoon(tt.time); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("NextNewMoon error = %v, expected ErrOutOfRange", err)
			}
			if _, err := tt.provider.NextFullMoon(tt.time); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("NextFullMoon error = %v, expected ErrOutOfRange", err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, name := range Models() {
		p, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if p.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, p.Name())
		}
	}

	if _, err := New("pyephem"); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("New(unknown) error = %v, expected ErrUnknownModel", err)
	}
}

func BenchmarkMeeusNextFullMoon(b *testing.B) {
	m := NewMeeus()
	ts := time.Date(2023, 1, 28, 15, 19, 0, 0, time.UTC)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.NextFullMoon(ts)
	}
}

func BenchmarkElongationNextFullMoon(b *testing.B) {
	e := NewElongation()
	ts := time.Date(2023, 1, 28, 15, 19, 0, 0, time.UTC)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.NextFullMoon(ts)
	}
}
