package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/syncprim"
)

var (
	// CLI flags for dine
	dineDuration time.Duration // How long the philosophers sit at the table
)

// dineCmd runs the dining philosophers for a fixed duration
var dineCmd = &cobra.Command{
	Use:   "dine",
	Short: "Run the dining philosophers",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		ctx, cancel := signalContext()
		defer cancel()

		table := syncprim.NewTable(cfg.Sync.Dining, sim.NewSimulationKey(cfg.Sync.Seed))
		if err := table.Start(ctx); err != nil {
			logrus.Fatalf("%v", err)
		}
		select {
		case <-time.After(dineDuration):
		case <-ctx.Done():
		}
		table.Stop()
		printMeals(cmd.OutOrStdout(), table.Meals())
	},
}

// prodConsCmd runs the bounded-buffer demo to completion
var prodConsCmd = &cobra.Command{
	Use:   "prodcons",
	Short: "Run the producer-consumer demo",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		ctx, cancel := signalContext()
		defer cancel()

		report, err := syncprim.ProducerConsumer(ctx, cfg.Sync.ProducerConsumer, sim.NewSimulationKey(cfg.Sync.Seed))
		if err != nil && !errors.Is(err, context.Canceled) {
			logrus.Fatalf("%v", err)
		}
		printProducerConsumer(cmd.OutOrStdout(), report, cfg.Sync.ProducerConsumer.Capacity)
	},
}

// rwCmd runs the reader-writer demo to completion
var rwCmd = &cobra.Command{
	Use:   "rw",
	Short: "Run the reader-writer demo",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		ctx, cancel := signalContext()
		defer cancel()

		report, err := syncprim.ReaderWriter(ctx, cfg.Sync.ReaderWriter, sim.NewSimulationKey(cfg.Sync.Seed))
		if err != nil && !errors.Is(err, context.Canceled) {
			logrus.Fatalf("%v", err)
		}
		printReaderWriter(cmd.OutOrStdout(), report)
	},
}

func init() {
	dineCmd.Flags().DurationVar(&dineDuration, "duration", 10*time.Second, "How long the philosophers dine")
}
