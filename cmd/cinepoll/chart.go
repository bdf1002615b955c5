package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cinepoll/cinepoll/internal/chart"
)

var (
	chartOut   string
	chartTitle string
)

var chartCmd = &cobra.Command{
	Use:   "chart label=votes [label=votes ...]",
	Short: "Render a results bar chart from literal tallies",
	Long: `Renders the same PNG bar chart the bot sends, from tallies given on
the command line. Useful for checking chart output without a live poll.

Example:
  cinepoll chart -o results.png "Dune Part Three=5" "The Heist=2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChart,
}

func init() {
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "chart.png", "Output PNG path")
	chartCmd.Flags().StringVar(&chartTitle, "title", "Movie Poll Results", "Chart title")
	rootCmd.AddCommand(chartCmd)
}

// parseTallies turns "Dune=3" style arguments into a tally map.
func parseTallies(args []string) (map[string]int, error) {
	tallies := make(map[string]int, len(args))
	for _, arg := range args {
		label, value, ok := strings.Cut(arg, "=")
		if !ok || label == "" {
			return nil, fmt.Errorf("expected label=votes, got %q", arg)
		}
		votes, err := strconv.Atoi(value)
		if err != nil || votes < 0 {
			return nil, fmt.Errorf("invalid vote count in %q", arg)
		}
		tallies[label] = votes
	}
	return tallies, nil
}

func runChart(cmd *cobra.Command, args []string) error {
	tallies, err := parseTallies(args)
	if err != nil {
		return err
	}

	f, err := os.Create(chartOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", chartOut, err)
	}

	renderer := chart.NewRenderer()
	if err := renderer.Render(f, chartTitle, chart.SortTallies(tallies)); err != nil {
		_ = f.Close()
		return fmt.Errorf("render: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", chartOut)
	return nil
}
