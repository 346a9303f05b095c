package cmd

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Valesague52/Proyecto-Final-SOs/sim/disk"
)

var (
	// CLI flags for disk
	diskHead      int    // Initial head position
	diskTracks    []int  // Pending request tracks, in arrival order
	diskAlgorithm string // Algorithm for the scheduling run
	diskCompare   bool   // Also compare every algorithm
)

// diskCmd runs one disk scheduling pass over tracks given on the command line
var diskCmd = &cobra.Command{
	Use:   "disk",
	Short: "Simulate disk-arm scheduling over a list of tracks",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		if cmd.Flags().Changed("head") {
			cfg.Disk.Head = diskHead
		}
		if cmd.Flags().Changed("algorithm") {
			cfg.Disk.Algorithm = diskAlgorithm
		}
		if !disk.IsValidAlgorithm(cfg.Disk.Algorithm) {
			logrus.Fatalf("Unknown disk algorithm %q; valid: %s", cfg.Disk.Algorithm, strings.Join(disk.ValidAlgorithmNames(), ", "))
		}
		if err := cfg.Disk.Validate(); err != nil {
			logrus.Fatalf("%v", err)
		}
		if len(diskTracks) == 0 {
			logrus.Fatalf("--tracks not provided. Exiting simulation.")
		}

		s := disk.NewScheduler(cfg.Disk, nil)
		for i, tr := range diskTracks {
			if err := s.AddRequest(tr, i+1); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		run, err := s.Schedule()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		out := cmd.OutOrStdout()
		printRun(out, run)
		if diskCompare {
			c, err := s.CompareAlgorithms()
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			printComparison(out, c)
		}
		printDiskMap(out, s.Visualization())
	},
}

func init() {
	diskCmd.Flags().IntVar(&diskHead, "head", 0, "Initial head position (0-199)")
	diskCmd.Flags().IntSliceVar(&diskTracks, "tracks", nil, "Comma-separated request tracks in arrival order")
	diskCmd.Flags().StringVar(&diskAlgorithm, "algorithm", "fcfs", "Scheduling algorithm (fcfs, sstf, scan)")
	diskCmd.Flags().BoolVar(&diskCompare, "compare", false, "Compare total movement of every algorithm")
}
