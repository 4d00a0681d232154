package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chrissnell/lunartable/internal/config"
	"github.com/chrissnell/lunartable/internal/constants"
	"github.com/chrissnell/lunartable/internal/log"
)

// app carries the state shared by one invocation's commands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "lunartable",
		Short: "Generate per-day lunar phase tables for moon posters",
		Long: "lunartable writes one data file per year listing each day's lunar phase,\n" +
			"whether a full or new moon falls on it, and its day of week. With no\n" +
			"subcommand it generates 2025 through 2100 into data/.",
		Version:           constants.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runGenerate,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "YAML configuration file")
	flags.Bool("debug", false, "Turn on debugging output")
	flags.Int("start", 0, "First year to generate (default 2025)")
	flags.Int("end", 0, "Last year to generate, inclusive (default 2100)")
	flags.String("dir", "", "Directory for <year>.dat files (default data)")
	flags.String("model", "", "Ephemeris model: meeus or elongation (default meeus)")
	flags.String("zone", "", "Time zone in which full and new moon days are judged (default Etc/GMT+8, PST all year)")
	flags.String("zone-label", "", "Zone name written into data file headers (default PST)")
	flags.Bool("keep-going", false, "Continue with later years when one fails")
	flags.String("metrics-file", "", "Write Prometheus metrics to this textfile after the run")

	a.bind(flags, map[string]string{
		"debug":        "debug",
		"start_year":   "start",
		"end_year":     "end",
		"data_dir":     "dir",
		"model":        "model",
		"zone":         "zone",
		"zone_label":   "zone-label",
		"keep_going":   "keep-going",
		"metrics_file": "metrics-file",
	})

	root.AddCommand(a.generateCmd(), a.phaseCmd(), a.summaryCmd())
	return root
}

func (a *app) bind(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

// setup loads configuration and starts logging before any command runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	return log.Init(cfg.Debug)
}
