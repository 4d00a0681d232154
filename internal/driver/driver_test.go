package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chrissnell/lunartable/internal/datafile"
	"github.com/chrissnell/lunartable/internal/metrics"
	"github.com/chrissnell/lunartable/pkg/lunar"
)

var errBoom = errors.New("boom")

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeWriter records the years it is asked for and fails on the given ones.
type fakeWriter struct {
	clock   *clockwork.FakeClock
	fail    map[int]bool
	written []int
	onWrite func(year int)
}

func (f *fakeWriter) WriteYear(year int) (*lunar.YearTable, error) {
	f.written = append(f.written, year)
	if f.onWrite != nil {
		f.onWrite(year)
	}
	if f.clock != nil {
		f.clock.Advance(50 * time.Millisecond)
	}
	if f.fail[year] {
		return nil, errBoom
	}
	return &lunar.YearTable{Year: year, Days: make([]lunar.DayRecord, 365)}, nil
}

func (f *fakeWriter) Path(year int) string { return fmt.Sprintf("%d.dat", year) }

func newLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return zap.New(core).Sugar(), logs
}

func TestRun_AllYears(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	w := &fakeWriter{clock: clock}
	m := metrics.New()
	logger, logs := newLogger()

	d := New(Options{StartYear: 2025, EndYear: 2028}, w, logger, m, clock)
	require.NoError(t, d.Run(context.Background()))

	assert.Equal(t, []int{2025, 2026, 2027, 2028}, w.written)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.YearsWritten))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.YearFailures))
	assert.Equal(t, 4*365.0, testutil.ToFloat64(m.DaysWritten))
	assert.Equal(t, float64(clock.Now().Unix()), testutil.ToFloat64(m.LastSuccess))
	assert.Equal(t, 4, logs.FilterMessage("wrote year").Len())
}

func TestRun_FailFast(t *testing.T) {
	w := &fakeWriter{fail: map[int]bool{2026: true}}
	m := metrics.New()
	logger, _ := newLogger()

	err := New(Options{StartYear: 2025, EndYear: 2028}, w, logger, m, nil).Run(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "year 2026")

	assert.Equal(t, []int{2025, 2026}, w.written)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.YearsWritten))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.YearFailures))
}

func TestRun_KeepGoing(t *testing.T) {
	w := &fakeWriter{fail: map[int]bool{2026: true, 2028: true}}
	m := metrics.New()
	logger, logs := newLogger()

	err := New(Options{StartYear: 2025, EndYear: 2029, KeepGoing: true}, w, logger, m, nil).Run(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "year 2026")
	assert.Contains(t, err.Error(), "year 2028")

	assert.Equal(t, []int{2025, 2026, 2027, 2028, 2029}, w.written)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.YearsWritten))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.YearFailures))
	assert.Equal(t, 2, logs.FilterMessage("year failed, continuing").Len())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &fakeWriter{onWrite: func(year int) {
		if year == 2026 {
			cancel()
		}
	}}
	logger, _ := newLogger()

	err := New(Options{StartYear: 2025, EndYear: 2030}, w, logger, metrics.New(), nil).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{2025, 2026}, w.written)
}

func TestRun_WritesMetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lunartable.prom")
	logger, _ := newLogger()

	d := New(Options{StartYear: 2025, EndYear: 2025, MetricsFile: path}, &fakeWriter{}, logger, metrics.New(), nil)
	require.NoError(t, d.Run(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lunartable_years_written_total 1")
}

func TestRun_RealFiles(t *testing.T) {
	dir := t.TempDir()
	w := datafile.NewWriter(dir, lunar.NewBuilder(lunar.Config{}), lunar.HeaderInfo{ZoneLabel: "PST", Model: "meeus"})
	logger, _ := newLogger()

	require.NoError(t, New(Options{StartYear: 2027, EndYear: 2028}, w, logger, metrics.New(), nil).Run(context.Background()))

	for _, year := range []int{2027, 2028} {
		table, err := w.ReadYear(year)
		require.NoError(t, err)
		assert.Equal(t, year, table.Year)
	}
	_, err := os.Stat(filepath.Join(dir, "2029.dat"))
	assert.True(t, os.IsNotExist(err))
}
