package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/quant/feed"
	"github.com/rustyeddy/quant/pkg/logx"
	sig "github.com/rustyeddy/quant/signal"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Compute alpha signals for an instrument from a CSV of bars",
	Long: `Compute the alpha signal family for a single instrument from a CSV
file of historical bars and print each signal with its classification.

Example:
  quant signals --file testdata/aapl.csv --instrument AAPL`,
	RunE: runSignals,
}

var (
	signalsFile       string
	signalsInstrument string
	signalsLookback   int
)

func init() {
	rootCmd.AddCommand(signalsCmd)

	signalsCmd.Flags().StringVar(&signalsFile, "file", "", "CSV file of bars (required)")
	signalsCmd.Flags().StringVar(&signalsInstrument, "instrument", "", "instrument symbol (required)")
	signalsCmd.Flags().IntVar(&signalsLookback, "lookback", 0, "only use the last N bars (0 means all)")
	signalsCmd.MarkFlagRequired("file")
	signalsCmd.MarkFlagRequired("instrument")
}

func runSignals(cmd *cobra.Command, args []string) error {
	bars, err := feed.LoadBars(signalsFile, signalsInstrument)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}
	if signalsLookback > 0 && len(bars) > signalsLookback {
		bars = bars[len(bars)-signalsLookback:]
	}

	gen := sig.NewGenerator(logx.New("warn"))
	alphas := gen.Generate(context.Background(), signalsInstrument, bars)
	if len(alphas) == 0 {
		fmt.Printf("no signals for %s (%d bars, need at least 14)\n", signalsInstrument, len(bars))
		return nil
	}

	fmt.Printf("%s  (%d bars)\n", signalsInstrument, len(bars))
	for _, a := range alphas {
		fmt.Printf("  %-14s %+.4f  %s\n", a.Name, a.Score, a.Class())
	}
	return nil
}
