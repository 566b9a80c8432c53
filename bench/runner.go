package bench

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/negamax"
)

var ErrUnexpectedScores = errors.New("unexpected scores")

// Runner solves every position of a suite. Each worker goroutine owns a
// Solver, so positions are solved in parallel but each search is single
// threaded.
type Runner struct {
	Threads  int
	Runs     int
	Capacity int
}

// Result is what one position produced over all runs.
type Result struct {
	Name   string    `yaml:"name"`
	Moves  string    `yaml:"moves"`
	Scores []int     `yaml:"scores,flow"`
	Nodes  uint64    `yaml:"nodes"`
	Millis []float64 `yaml:"millis,flow"`

	MeanMillis  float64 `yaml:"mean-millis"`
	StdevMillis float64 `yaml:"stdev-millis"`
	// half width of the 99% confidence interval of MeanMillis
	CI99Millis  float64 `yaml:"ci99-millis"`
}

func (r *Runner) normalize() {
	r.Threads = max(r.Threads, 1)
	r.Runs = max(r.Runs, 1)
	if r.Capacity < 1 {
		r.Capacity = negamax.DefaultCapacity
	}
}

// Run analyzes every position in the suite Runs times, with a cleared
// table before each run. It stops at the first position whose scores
// differ from its Expect list.
func (r *Runner) Run(ctx context.Context, suite Suite) (*Report, error) {
	r.normalize()
	boards := make([]*board.Board, len(suite.Positions))
	for i, p := range suite.Positions {
		b, err := p.Board()
		if err != nil {
			return nil, err
		}
		boards[i] = b
	}

	log.Info().Str("suite", suite.Name).
		Int("positions", len(boards)).
		Int("threads", r.Threads).
		Int("runs", r.Runs).
		Int("tt-capacity", r.Capacity).
		Msg("bench-starting")

	results := make([]Result, len(boards))
	tstart := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := range boards {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for t := 0; t < r.Threads; t++ {
		g.Go(func() error {
			defer func() {
				log.Debug().Msgf("Thread %v exiting bench", t)
			}()
			solver := negamax.NewSolver(r.Capacity)
			for idx := range jobs {
				res, err := r.solvePosition(ctx, solver, suite.Positions[idx], boards[idx])
				if err != nil {
					return err
				}
				// each index is handed to exactly one worker
				results[idx] = res
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := newReport(suite.Name, r, results, time.Since(tstart))
	log.Info().Str("suite", suite.Name).
		Uint64("total-nodes", report.TotalNodes).
		Float64("median-millis", report.MedianMillis).
		Float64("elapsed-sec", report.ElapsedSeconds).
		Msg("bench-finished")
	return report, nil
}

func (r *Runner) solvePosition(ctx context.Context, solver *negamax.Solver,
	p Position, b *board.Board) (Result, error) {

	res := Result{Name: p.Name, Moves: b.String(), Millis: make([]float64, 0, r.Runs)}
	var timing Statistic
	for run := 0; run < r.Runs; run++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		solver.Reset()
		t0 := time.Now()
		scores := solver.Analyze(*b)
		ms := float64(time.Since(t0).Microseconds()) / 1000

		res.Scores = scores[:]
		res.Nodes = solver.ExploredNodes()
		res.Millis = append(res.Millis, ms)
		timing.Push(ms)

		if p.Expect != nil && !slices.Equal(p.Expect, res.Scores) {
			return res, fmt.Errorf("%w: position %q got %v, expected %v",
				ErrUnexpectedScores, p.Name, res.Scores, p.Expect)
		}
	}
	res.MeanMillis = timing.Mean()
	res.StdevMillis = timing.Stdev()
	res.CI99Millis = timing.MeanHalfWidth(99)
	log.Debug().Str("position", p.Name).
		Ints("scores", res.Scores).
		Uint64("nodes", res.Nodes).
		Float64("mean-millis", res.MeanMillis).
		Msg("bench-position-solved")
	return res, nil
}
