package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/chrissnell/lunartable/internal/datafile"
	"github.com/chrissnell/lunartable/internal/driver"
	"github.com/chrissnell/lunartable/internal/log"
	"github.com/chrissnell/lunartable/internal/metrics"
	"github.com/chrissnell/lunartable/pkg/lunar"
)

func (a *app) generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Write <year>.dat files for the configured range of years",
		Args:  cobra.NoArgs,
		RunE:  a.runGenerate,
	}
}

func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	logger := log.GetSugaredLogger().With("run_id", uuid.NewString())

	bc, err := a.cfg.BuilderConfig()
	if err != nil {
		return err
	}
	writer := datafile.NewWriter(a.cfg.DataDir, lunar.NewBuilder(bc), a.cfg.Header())

	d := driver.New(driver.Options{
		StartYear:   a.cfg.StartYear,
		EndYear:     a.cfg.EndYear,
		KeepGoing:   a.cfg.KeepGoing,
		MetricsFile: a.cfg.MetricsFile,
	}, writer, logger, metrics.New(), nil)

	return d.Run(cmd.Context())
}
