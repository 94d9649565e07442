package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inventory-sim/inventory-sim/export"
	"github.com/inventory-sim/inventory-sim/sim"
)

var (
	// CLI flags for the simulation run
	seed         int64  // Seed for demand and supplier delay draws
	days         int    // Number of logical days to simulate
	logLevel     string // Log verbosity level
	costMethod   string // Inventory costing method (fifo, lifo, weighted-average)
	strategy     string // Initial replenishment strategy
	scenarioPath string // Scenario YAML path; empty runs the built-in dataset
	exportDir    string // Directory for CSV export; empty disables export
	recentEvents int    // Number of recent events echoed after the run
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "inventory-sim",
	Short: "Day-by-day inventory replenishment simulator",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the inventory simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		method, err := sim.ParseCostMethod(costMethod)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		strat, err := sim.ParseStrategy(strategy)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		scenario := DefaultScenario()
		if scenarioPath != "" {
			scenario, err = LoadScenario(scenarioPath)
			if err != nil {
				logrus.Fatalf("unable to load scenario: %v", err)
			}
		}

		cfg := sim.DefaultConfig()
		cfg.CostMethod = method
		cfg.Strategy = strat
		cfg.Seed = seed

		s, err := scenario.Build(cfg)
		if err != nil {
			logrus.Fatalf("unable to build scenario %q: %v", scenario.Name, err)
		}

		logrus.Infof("Starting simulation %q: %d days, method=%s, strategy=%s, seed=%d",
			scenario.Name, days, method, strat, seed)

		s.Run(days)
		s.Snapshot().Print()

		for _, ev := range s.RecentEvents(recentEvents) {
			logrus.Infof("[day %03d] %-13s %+v", ev.Day, ev.Kind, ev.Payload)
		}

		if exportDir != "" {
			w, err := export.NewWriter(exportDir)
			if err != nil {
				logrus.Fatalf("unable to open export directory: %v", err)
			}
			paths, err := w.ExportAllEvents(s.Events())
			if err != nil {
				logrus.Fatalf("event export failed: %v", err)
			}
			summary, err := w.ExportSummary(s.Snapshot())
			if err != nil {
				logrus.Fatalf("summary export failed: %v", err)
			}
			for _, p := range append(paths, summary) {
				logrus.Infof("exported %s", p)
			}
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
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for demand and supplier delay draws")
	runCmd.Flags().IntVar(&days, "days", 30, "Number of logical days to simulate")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&costMethod, "method", "fifo", "Costing method (fifo, lifo, weighted-average)")
	runCmd.Flags().StringVar(&strategy, "strategy", "conservative", "Initial strategy (conservative, aggressive, adaptive)")
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML file (empty: built-in hardware-store dataset)")

	runCmd.Flags().StringVar(&exportDir, "export-dir", "", "Directory for CSV export (empty: no export)")
	runCmd.Flags().IntVar(&recentEvents, "recent-events", 10, "Number of recent events echoed after the run")

	rootCmd.AddCommand(runCmd)
}
