// Package driver runs table generation across a range of years.
package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/chrissnell/lunartable/internal/metrics"
	"github.com/chrissnell/lunartable/pkg/lunar"
)

// YearWriter builds and persists one year's table.
type YearWriter interface {
	WriteYear(year int) (*lunar.YearTable, error)
	Path(year int) string
}

// Options bounds a run.
type Options struct {
	StartYear int
	EndYear   int
	// KeepGoing continues past a failed year instead of stopping the run.
	KeepGoing bool
	// MetricsFile, if set, receives a Prometheus textfile after the run.
	MetricsFile string
}

// Driver writes every year from StartYear through EndYear in order.
type Driver struct {
	opts    Options
	writer  YearWriter
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
	clock   clockwork.Clock
}

// New creates a Driver. A nil clock uses the real clock.
func New(opts Options, writer YearWriter, logger *zap.SugaredLogger, m *metrics.Metrics, clock clockwork.Clock) *Driver {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Driver{
		opts:    opts,
		writer:  writer,
		logger:  logger,
		metrics: m,
		clock:   clock,
	}
}

// Run writes each year in ascending order. By default the first failure ends
// the run; with KeepGoing every year is attempted and the failures are joined.
// Cancelling ctx stops the run between years; files already written remain.
func (d *Driver) Run(ctx context.Context) error {
	var failures []error

	d.logger.Infow("generating lunar tables", "start_year", d.opts.StartYear, "end_year", d.opts.EndYear)
	for year := d.opts.StartYear; year <= d.opts.EndYear; year++ {
		if err := ctx.Err(); err != nil {
			failures = append(failures, fmt.Errorf("stopped before %d: %w", year, err))
			break
		}

		if err := d.writeYear(year); err != nil {
			d.metrics.YearFailures.Inc()
			if !d.opts.KeepGoing {
				failures = append(failures, err)
				break
			}
			d.logger.Errorw("year failed, continuing", "year", year, "error", err)
			failures = append(failures, err)
		}
	}

	if d.opts.MetricsFile != "" {
		if err := d.metrics.WriteTextfile(d.opts.MetricsFile); err != nil {
			failures = append(failures, fmt.Errorf("error writing metrics file: %w", err))
		}
	}

	return errors.Join(failures...)
}

func (d *Driver) writeYear(year int) error {
	start := d.clock.Now()

	table, err := d.writer.WriteYear(year)
	if err != nil {
		return fmt.Errorf("year %d: %w", year, err)
	}

	elapsed := d.clock.Since(start)
	d.metrics.YearsWritten.Inc()
	d.metrics.DaysWritten.Add(float64(len(table.Days)))
	d.metrics.YearDuration.Observe(elapsed.Seconds())
	d.metrics.LastSuccess.Set(float64(d.clock.Now().Unix()))

	d.logger.Infow("wrote year", "year", year, "days", len(table.Days), "path", d.writer.Path(year), "elapsed", elapsed)
	return nil
}
