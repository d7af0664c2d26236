package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	benchWorkers  int
	benchDuration time.Duration
)

var rootCmd = &cobra.Command{
	Use:       "slabbench {system|core|lock-free}",
	Short:     "Throughput benchmark for slab's queue backends",
	Long:      `slabbench drives a multi-producer/multi-consumer workload against one of three queue configurations and reports per-worker and aggregate throughput.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"system", "core", "lock-free"},
	RunE: func(cmd *cobra.Command, args []string) error {
		m := mode(args[0])
		if !m.valid() {
			return fmt.Errorf("unknown mode %q: want one of system, core, lock-free", args[0])
		}
		return runBench(m, benchWorkers, benchDuration)
	},
}

func init() {
	rootCmd.Flags().IntVar(&benchWorkers, "workers", 4, "number of worker goroutines, each alternating push and pop")
	rootCmd.Flags().DurationVar(&benchDuration, "duration", 2*time.Second, "how long each worker runs")
}
