package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chrissnell/lunartable/pkg/ephemeris"
	"github.com/chrissnell/lunartable/pkg/lunar"
)

func (a *app) phaseCmd() *cobra.Command {
	var timeStr string

	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Print the moon phase for an instant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := time.Now().UTC()
			if timeStr != "" {
				var err error
				t, err = time.Parse(time.RFC3339, timeStr)
				if err != nil {
					return fmt.Errorf("error parsing time: %w", err)
				}
			}
			return a.printPhase(cmd, t)
		},
	}
	cmd.Flags().StringVar(&timeStr, "time", "", "Time to calculate phase for (RFC3339 format, e.g., 2024-01-15T12:00:00Z)")
	return cmd
}

func (a *app) printPhase(cmd *cobra.Command, t time.Time) error {
	p, err := ephemeris.New(a.cfg.Model)
	if err != nil {
		return err
	}
	bc, err := a.cfg.BuilderConfig()
	if err != nil {
		return err
	}

	phase, err := lunar.Describe(p, t)
	if err != nil {
		return err
	}
	nextNew, err := p.NextNewMoon(t)
	if err != nil {
		return err
	}
	nextFull, err := p.NextFullMoon(t)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Moon Phase for %s (%s model)\n", t.Format(time.RFC3339), p.Name())
	fmt.Fprintf(out, "  Phase:        %.1f%% (%.4f)\n", phase.Phase*100, phase.Phase)
	fmt.Fprintf(out, "  Phase Name:   %s\n", phase.PhaseName)
	fmt.Fprintf(out, "  Illumination: %.1f%%\n", phase.Illumination*100)
	fmt.Fprintf(out, "  Age:          %.1f days\n", phase.AgeDays)
	fmt.Fprintf(out, "  Elongation:   %.1f°\n", phase.Elongation)
	if phase.IsWaxing {
		fmt.Fprintf(out, "  Direction:    Waxing\n")
	} else {
		fmt.Fprintf(out, "  Direction:    Waning\n")
	}
	fmt.Fprintf(out, "  Next Full:    %s\n", nextFull.In(bc.Local).Format(time.RFC3339))
	fmt.Fprintf(out, "  Next New:     %s\n", nextNew.In(bc.Local).Format(time.RFC3339))
	return nil
}
