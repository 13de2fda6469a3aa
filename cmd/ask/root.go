package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"insights-chat/internal/config"
	"insights-chat/internal/dataset"
	"insights-chat/internal/models"
	"insights-chat/internal/observability"
	"insights-chat/internal/query"
)

func execute(args []string) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.Flags().GetString("output")
		if output == "json" {
			_ = printJSON(rootCmd.OutOrStdout(), map[string]string{"error": err.Error()})
		} else {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		output   string
		delay    time.Duration
		dataFile string
		logLevel string
	)

	rootCmd := &cobra.Command{
		Use:           "ask [question...]",
		Short:         "Answer an analytical question about the dataset",
		Long:          "Routes a plain-English question to an aggregation routine and prints the answer, table and chart data.",
		Example:       `  ask "Show me revenue by region"` + "\n" + `  ask --output json growth analysis`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if output != "table" && output != "json" {
				return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
			}
			if delay < 0 {
				return fmt.Errorf("delay must be non-negative, got %s", delay)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.NewLoggerTo(cmd.ErrOrStderr(), config.LoggerConfig{Level: logLevel, Format: "text"})

			ds := dataset.Sample()
			if dataFile != "" {
				loaded, err := dataset.LoadCSV(cmd.Context(), dataFile)
				if err != nil {
					return fmt.Errorf("load dataset: %w", err)
				}
				ds = loaded
			}

			service := query.NewService(query.NewDispatcher(ds), query.WithDelay(delay), query.WithLogger(logger))
			resp, err := service.Analyze(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			if output == "json" {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	rootCmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table or json")
	rootCmd.Flags().DurationVar(&delay, "delay", 0, "simulated processing delay before answering")
	rootCmd.Flags().StringVar(&dataFile, "data", os.Getenv("DATASET_CSV"), "CSV file with period,revenue,customers,region columns")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	return rootCmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResponse writes the answer followed by the table, if any, as aligned
// columns.
func printResponse(w io.Writer, resp models.QueryResponse) error {
	if _, err := fmt.Fprintln(w, resp.Answer); err != nil {
		return err
	}
	if resp.Failed() {
		_, err := fmt.Fprintf(w, "\n%s\n", resp.Error)
		return err
	}
	if resp.Table == nil {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, strings.Join(resp.Table.Headers, "\t"))
	for _, row := range resp.Table.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprint(cell)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if resp.HasChart() {
		fmt.Fprintf(tw, "\nchart: %s (%d points)\n", resp.Chart, len(resp.Series))
	}
	return tw.Flush()
}
