package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chrissnell/lunartable/internal/datafile"
	"github.com/chrissnell/lunartable/pkg/lunar"
)

func (a *app) summaryCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary <year>",
		Short: "Summarize a written year file month by month",
		Long: "summary reads <dir>/<year>.dat and lists, per month, the full (f),\n" +
			"blue (b) and new (n) moon days and the Friday/Saturday nights.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q: %w", args[0], err)
			}

			table, err := datafile.NewWriter(a.cfg.DataDir, nil, a.cfg.Header()).ReadYear(year)
			if err != nil {
				return err
			}
			s := lunar.Summarize(table)

			switch format {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(s); err != nil {
					return err
				}
				return enc.Close()
			case "text":
				return writeSummaryText(cmd.OutOrStdout(), s)
			default:
				return fmt.Errorf("unsupported format %q: use text or yaml", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or yaml")
	return cmd
}

func writeSummaryText(w io.Writer, s lunar.YearSummary) error {
	if _, err := fmt.Fprintf(w, "%d\n", s.Year); err != nil {
		return err
	}
	for _, m := range s.Months {
		marks := m.Marks()
		days := make([]string, 0, len(marks))
		for d := 1; d <= 31; d++ {
			if r, ok := marks[d]; ok {
				days = append(days, fmt.Sprintf("%c %d", r, d))
			}
		}
		if _, err := fmt.Fprintf(w, "%-10s %-24s weekends %s\n",
			m.Month, strings.Join(days, ", "), joinInts(m.Weekends)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "lunations %d, mean %.2f days (sd %.2f)\n", s.Lunations, s.MeanLunation, s.LunationStdDev)
	return err
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}
