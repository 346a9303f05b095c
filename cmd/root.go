package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Valesague52/Proyecto-Final-SOs/sim/trace"
)

var (
	// CLI flags shared by every command
	logLevel   string // Log verbosity level
	configPath string // Path to a sosim.yaml config file
	seed       int64  // Seed for actor delays in the synchronization demos

	// CLI flags for run
	scenarioPath string        // Path to a scenario YAML file
	drainTimeout time.Duration // How long to wait for device lanes to go idle before reporting
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "sosim",
	Short: "Operating-system resource management simulator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// loadConfig reads --config and applies flag overrides. Flags win only when
// the user set them explicitly.
func loadConfig(cmd *cobra.Command) Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	if cmd.Flags().Changed("seed") {
		cfg.Sync.Seed = seed
	}
	return cfg
}

// signalContext returns a context cancelled on Ctrl-C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// runCmd executes a scenario against every manager and prints the reports
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario script against the simulated kernel",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		if scenarioPath == "" {
			logrus.Fatalf("--scenario not provided. Exiting simulation.")
		}
		sc, err := LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		ctx, cancel := signalContext()
		defer cancel()

		k := NewKernel(cfg)
		if err := k.Start(ctx); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Running %d steps from %s", len(sc.Steps), scenarioPath)
		failed := k.Run(ctx, sc)
		if !k.WaitIdle(drainTimeout, cfg.Device.PollInterval) {
			logrus.Warnf("device lanes still busy after %s", drainTimeout)
		}
		k.Shutdown()

		out := cmd.OutOrStdout()
		printProcesses(out, k.Processes.Policy(), k.Processes.ListProcesses(), k.Processes.Metrics())
		printMemory(out, k.Memory)
		printPageTable(out, k.Memory.Frames())
		printDiskMap(out, k.Disk.Visualization())
		printDevices(out, k.Devices.Lanes(), k.Devices.Completed())
		printInterrupts(out, k.Devices.PendingInterrupts())
		if cfg.Trace.Level == trace.TraceLevelDecisions {
			printTraceSummary(out, trace.Summarize(k.Trace))
		}
		if failed > 0 {
			logrus.Warnf("%d of %d steps failed", failed, len(sc.Steps))
		}
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (defaults apply when omitted)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Seed for actor delays in the synchronization demos")

	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a scenario YAML file")
	runCmd.Flags().DurationVar(&drainTimeout, "drain-timeout", 10*time.Second, "Wait this long for pending I/O before reporting")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(diskCmd)
	rootCmd.AddCommand(dineCmd)
	rootCmd.AddCommand(prodConsCmd)
	rootCmd.AddCommand(rwCmd)
}
