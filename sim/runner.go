package sim

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// RunResult is the outcome of a multi-trial run.
type RunResult struct {
	ID        string
	Config    RunConfig
	Aggregate *Aggregate
	// LastCohort is the final trial (index Trials-1), kept for the detail report.
	LastCohort *Cohort
	Elapsed    time.Duration
}

// runCohort builds, runs, and checks trial i.
func runCohort(cfg RunConfig, i int) (*Cohort, error) {
	key := NewSimulationKey(cfg.Seed).ForCohort(i)
	c, err := NewCohort(cfg.Cohort, NewPartitionedRNG(key), cfg.Identities, cfg.TraceLevel)
	if err != nil {
		return nil, err
	}
	c.LetPeopleChoose()
	if err := c.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("trial %d: %w", i, err)
	}
	return c, nil
}

// Run executes cfg.Trials independent cohorts and folds them into one
// Aggregate. Trials are spread over cfg.Workers goroutines; each worker keeps
// a private Aggregate and the partials are merged at the end, so results do
// not depend on the worker count.
func Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > cfg.Trials {
		workers = cfg.Trials
	}

	id := uuid.NewString()
	start := time.Now()
	logrus.Infof("[run %s] %d trials of %d doses (%d/day, $%g/slot, %s) on %d workers",
		id, cfg.Trials, cfg.Cohort.NumberOfDoses, cfg.Cohort.DosesPerDay,
		cfg.Cohort.BumpPrice, cfg.Cohort.BumpMethod, workers)

	partials := make([]*Aggregate, workers)
	var last *Cohort
	var next atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		partial := NewAggregate()
		partials[w] = partial
		g.Go(func() error {
			for {
				i := int(next.Add(1) - 1)
				if i >= cfg.Trials {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				c, err := runCohort(cfg, i)
				if err != nil {
					return err
				}
				if err := partial.Accumulate(c); err != nil {
					return err
				}
				if i == cfg.Trials-1 {
					last = c
				}
				logrus.Debugf("[run %s] trial %d done", id, i)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	agg := NewAggregate()
	for _, p := range partials {
		if err := agg.Merge(p); err != nil {
			return nil, err
		}
	}

	elapsed := time.Since(start)
	logrus.Infof("[run %s] finished %d trials in %v", id, agg.TotalCohorts, elapsed)
	return &RunResult{
		ID:         id,
		Config:     cfg,
		Aggregate:  agg,
		LastCohort: last,
		Elapsed:    elapsed,
	}, nil
}

// Summary derives the report statistics of the run.
func (r *RunResult) Summary() Summary {
	return r.Aggregate.Summarize()
}

// Print writes the duration banner, the summary, and the elapsed time.
func (r *RunResult) Print(w io.Writer) {
	_, _ = fmt.Fprintln(w, DescribeDuration(r.Aggregate.NumberOfDays))
	r.Summary().Print(w)
	_, _ = fmt.Fprintf(w, "Elapsed      : %.3fs\n", r.Elapsed.Seconds())
}

// ResultsOutput is the JSON document written by SaveResults.
type ResultsOutput struct {
	RunID      string       `json:"run_id"`
	Seed       int64        `json:"seed"`
	Trials     int          `json:"trials"`
	ElapsedSec float64      `json:"elapsed_sec"`
	Summary    Summary      `json:"summary"`
	Aggregate  *Aggregate   `json:"aggregate"`
	Details    []SlotDetail `json:"details,omitempty"`
}

// Output assembles the JSON document. Per-slot details of the last trial are
// included only when withDetails is set.
func (r *RunResult) Output(withDetails bool) ResultsOutput {
	out := ResultsOutput{
		RunID:      r.ID,
		Seed:       r.Config.Seed,
		Trials:     r.Config.Trials,
		ElapsedSec: r.Elapsed.Seconds(),
		Summary:    r.Summary(),
		Aggregate:  r.Aggregate,
	}
	if withDetails && r.LastCohort != nil {
		out.Details = r.LastCohort.Details()
	}
	return out
}

// SaveResults writes the run as indented JSON to path.
func (r *RunResult) SaveResults(path string, withDetails bool) error {
	data, err := json.MarshalIndent(r.Output(withDetails), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results to %s: %w", path, err)
	}
	logrus.Infof("results written to %s", path)
	return nil
}
