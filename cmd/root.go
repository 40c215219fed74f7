package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/booster-sim/booster-sim/sim"
	"github.com/booster-sim/booster-sim/sim/trace"
)

var (
	// Shared flags
	logLevel     string // Log verbosity level
	defaultsPath string // Presets file

	// CLI flags for the run command
	preset      string  // Named preset from the defaults file
	doses       int     // Number of doses (= population size)
	dosesPerDay int     // Vaccination capacity per day
	bumpPrice   float64 // Price per slot of movement
	bumpMethod  string  // swap, shift, or shift-share
	trials      int     // Number of cohorts to simulate
	seed        int64   // Master seed
	workers     int     // Goroutines running trials
	traceLevel  string  // Exchange trace verbosity
	resultsPath string  // File to write results JSON to
	details     int     // Rows of the last trial's slot table to print
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "booster-sim",
	Short: "Monte Carlo simulator for a vaccination-slot reallocation market",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envCfg, err := loadEnv()
		if err != nil {
			return err
		}
		if err := applyEnv(cmd, envCfg); err != nil {
			return err
		}
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
		return nil
	},
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the booster market simulation",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveRunConfig(cmd, time.Now())
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		res, err := sim.Run(cmd.Context(), cfg)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		out := cmd.OutOrStdout()
		res.Print(out)
		_, _ = fmt.Fprintf(out, "Finished %d sims with %d people in %.3f seconds.\n",
			res.Aggregate.TotalCohorts, cfg.Cohort.NumberOfDoses, res.Elapsed.Seconds())

		if details > 0 && res.LastCohort != nil {
			printDetails(out, res.LastCohort.Details(), details)
		}
		if res.LastCohort != nil && res.LastCohort.Trace != nil {
			printTraceSummary(out, trace.Summarize(res.LastCohort.Trace))
		}
		if resultsPath != "" {
			if err := res.SaveResults(resultsPath, details > 0); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		logrus.Info("Simulation complete.")
	},
}

// resolveRunConfig layers built-in defaults, the selected preset, and
// explicit flags, in increasing precedence.
func resolveRunConfig(cmd *cobra.Command, now time.Time) (sim.RunConfig, error) {
	params := runParams{
		Doses:       doses,
		DosesPerDay: dosesPerDay,
		BumpPrice:   bumpPrice,
		BumpMethod:  bumpMethod,
		Trials:      trials,
	}
	if preset != "" {
		presets, err := loadPresets(defaultsPath, true)
		if err != nil {
			return sim.RunConfig{}, err
		}
		s, err := presets.Lookup(preset)
		if err != nil {
			return sim.RunConfig{}, err
		}
		// Explicit flags win over preset values.
		params.overlay(s, func(field string) bool { return cmd.Flags().Changed(field) })
		logrus.Infof("Using preset %q: %s", preset, s.Description)
	}
	if !trace.IsValidTraceLevel(traceLevel) {
		return sim.RunConfig{}, fmt.Errorf("unknown trace level %q", traceLevel)
	}
	cfg, err := params.runConfig(seed, workers, trace.TraceLevel(traceLevel), firstDoseDate(now))
	if err != nil {
		return sim.RunConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// printDetails writes the first n rows of a trial's slot table.
func printDetails(w io.Writer, rows []sim.SlotDetail, n int) {
	if n > len(rows) {
		n = len(rows)
	}
	_, _ = fmt.Fprintln(w, "=== Last Trial (first rows) ===")
	_, _ = fmt.Fprintf(w, "%6s %6s %5s %-10s %-14s %5s %10s %10s %10s\n",
		"slot", "orig", "days", "date", "name", "role", "willing", "spent", "received")
	for _, r := range rows[:n] {
		role := "-"
		switch {
		case r.Jumped:
			role = "jump"
		case r.Flexed:
			role = "flex"
		}
		_, _ = fmt.Fprintf(w, "%6d %6d %5d %-10s %-14s %5s %10.2f %10.2f %10.2f\n",
			r.Slot, r.OriginalSlot, r.DayDelta, r.Date.Format("2006-01-02"), r.Name, role,
			r.WillingToSpend, r.AmountSpent, r.AmountReceived)
	}
}

// printTraceSummary writes exchange statistics of the last trial.
func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	_, _ = fmt.Fprintln(w, "=== Exchange Trace (last trial) ===")
	_, _ = fmt.Fprintf(w, "Exchanges        : %d\n", s.TotalExchanges)
	_, _ = fmt.Fprintf(w, "Stranded jumpers : %d\n", s.StrandedJumpers)
	_, _ = fmt.Fprintf(w, "Displaced flexers: %d\n", s.DisplacedFlexers)
	_, _ = fmt.Fprintf(w, "Payment mean/max : %.2f / %.2f\n", s.MeanPayment, s.MaxPayment)
	_, _ = fmt.Fprintf(w, "Chain mean/max   : %.2f / %d\n", s.MeanChainLength, s.MaxChainLength)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addRunFlags binds the run flags to their package variables, resetting
// each to its default.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "Named preset from the defaults file; explicit flags override it")
	cmd.Flags().IntVar(&doses, "doses", defaultDoses, "Number of doses (one person per dose)")
	cmd.Flags().IntVar(&dosesPerDay, "doses-per-day", defaultDosesPerDay, "Doses administered per day")
	cmd.Flags().Float64Var(&bumpPrice, "bump-price", defaultBumpPrice, "Price per slot of movement")
	cmd.Flags().StringVar(&bumpMethod, "bump-method", defaultBumpMethod, "Bump method (swap, shift, shift-share)")
	cmd.Flags().IntVar(&trials, "trials", defaultTrials, "Number of cohorts to simulate")
	cmd.Flags().Int64Var(&seed, "seed", defaultSeed, "Master seed; each trial derives its own streams")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Goroutines running trials")
	cmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Exchange trace level (none, exchanges)")
	cmd.Flags().StringVar(&resultsPath, "results-path", "", "Write results JSON to this file")
	cmd.Flags().IntVar(&details, "details", 0, "Print this many rows of the last trial's slot table")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&defaultsPath, "defaults", "defaults.yaml", "Presets file")

	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
