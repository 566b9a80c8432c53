package bench

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

const (
	histogramBins  = 10
	histogramWidth = 50
)

type Report struct {
	Suite   string   `yaml:"suite"`
	Threads int      `yaml:"threads"`
	Runs    int      `yaml:"runs"`
	Results []Result `yaml:"results"`

	TotalNodes     uint64  `yaml:"total-nodes"`
	MedianMillis   float64 `yaml:"median-millis"`
	P90Millis      float64 `yaml:"p90-millis"`
	ElapsedSeconds float64 `yaml:"elapsed-seconds"`
}

func newReport(suite string, r *Runner, results []Result, elapsed time.Duration) *Report {
	rep := &Report{
		Suite:          suite,
		Threads:        r.Threads,
		Runs:           r.Runs,
		Results:        results,
		ElapsedSeconds: elapsed.Seconds(),
	}
	rep.TotalNodes = lo.SumBy(results, func(res Result) uint64 {
		return res.Nodes
	})
	if millis := rep.allMillis(); len(millis) > 0 {
		sort.Float64s(millis)
		rep.MedianMillis = stat.Quantile(0.5, stat.Empirical, millis, nil)
		rep.P90Millis = stat.Quantile(0.9, stat.Empirical, millis, nil)
	}
	return rep
}

func (r *Report) allMillis() []float64 {
	return lo.FlatMap(r.Results, func(res Result, _ int) []float64 {
		return res.Millis
	})
}

// String renders a table of positions followed by a histogram of run
// times.
func (r *Report) String() string {
	var ss strings.Builder
	fmt.Fprintf(&ss, "Suite %s: %d positions, %d runs each, %d threads\n",
		r.Suite, len(r.Results), r.Runs, r.Threads)
	fmt.Fprintf(&ss, "%-16s%-26s%-12s%-20s%-10s\n", "Position", "Scores", "Nodes", "Mean ms (99%)", "Stdev")
	for _, res := range r.Results {
		mean := fmt.Sprintf("%.3f ± %.3f", res.MeanMillis, res.CI99Millis)
		fmt.Fprintf(&ss, "%-16s%-26s%-12d%-20s%-10.3f\n",
			res.Name, fmt.Sprint(res.Scores), res.Nodes, mean, res.StdevMillis)
	}
	fmt.Fprintf(&ss, "Total nodes: %d; median %.3f ms; p90 %.3f ms; wall time %.3f s\n",
		r.TotalNodes, r.MedianMillis, r.P90Millis, r.ElapsedSeconds)

	// a histogram needs a spread of values
	if millis := r.allMillis(); len(millis) > 1 && lo.Min(millis) < lo.Max(millis) {
		ss.WriteString("Run time histogram (ms):\n")
		h := histogram.Hist(histogramBins, millis)
		if err := histogram.Fprint(&ss, h, histogram.Linear(histogramWidth)); err != nil {
			fmt.Fprintf(&ss, "could not draw histogram: %v\n", err)
		}
	}
	return ss.String()
}

func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
