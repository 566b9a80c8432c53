package bench

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/domino14/connect4/board"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

const testSuite = `
name: small
positions:
  - name: forced-win
    moves: "41245376333225777136115215667766214"
    notation: 1
    expect: [100, 0, -4, 7, -4, 100, 100]
  - name: full-columns
    moves: "33333344226000000666664"
    expect: [100, -18, -18, 100, -18, -18, 100]
  - moves: "3446035265065036561313652053440111014242"
`

func TestParseSuite(t *testing.T) {
	is := is.New(t)
	s, err := ParseSuite([]byte(testSuite))
	is.NoErr(err)
	is.Equal(s.Name, "small")
	is.Equal(len(s.Positions), 3)
	is.Equal(s.Positions[0].Notation, board.OneBased)
	is.Equal(s.Positions[1].Notation, board.ZeroBased)
	is.Equal(s.Positions[2].Name, "position-3")
	is.Equal(s.Positions[2].Expect, nil)
}

func TestParseSuiteErrors(t *testing.T) {
	is := is.New(t)
	for _, doc := range []string{
		"positions: [",
		"name: empty\npositions: []",
		"positions:\n  - moves: \"0101010\"",
		"positions:\n  - moves: \"01\"\n    notation: 3",
		"positions:\n  - moves: \"01\"\n    expect: [1, 2]",
	} {
		_, err := ParseSuite([]byte(doc))
		is.True(errors.Is(err, ErrBadSuite))
	}
	_, err := ParseSuite([]byte("positions:\n  - moves: \"9\""))
	is.True(errors.Is(err, board.ErrIllegalColumn))
}

func TestLoadSuite(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "suite.yaml")
	is.NoErr(os.WriteFile(path, []byte("positions:\n  - moves: \"3\"\n"), 0644))
	s, err := LoadSuite(path)
	is.NoErr(err)
	is.Equal(s.Name, path)
	is.Equal(s.Positions[0].Name, "position-1")

	_, err = LoadSuite(filepath.Join(t.TempDir(), "missing.yaml"))
	is.True(errors.Is(err, os.ErrNotExist))
}

func TestRandomSuite(t *testing.T) {
	is := is.New(t)
	s := RandomSuite(20, 30, 34)
	is.Equal(len(s.Positions), 20)
	for _, p := range s.Positions {
		b, err := p.Board()
		is.NoErr(err)
		is.True(b.MoveCount() <= 34)
	}
}

func TestStatistic(t *testing.T) {
	is := is.New(t)
	var s Statistic
	is.Equal(s.Mean(), 0.0)
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Push(v)
	}
	is.Equal(s.Count(), 8)
	is.Equal(s.Mean(), 5.0)
	is.True(math.Abs(s.Variance()-32.0/7) < 1e-9)
	is.True(math.Abs(ZVal(95)-1.959964) < 1e-6)
	is.True(math.Abs(s.MeanHalfWidth(95)-ZVal(95)*s.Stdev()/math.Sqrt(8)) < 1e-12)

	var one Statistic
	one.Push(3)
	is.Equal(one.MeanHalfWidth(99), 0.0)
}

func TestRunner(t *testing.T) {
	s, err := ParseSuite([]byte(testSuite))
	require.NoError(t, err)
	r := &Runner{Threads: 2, Runs: 2, Capacity: 100003}
	report, err := r.Run(context.Background(), s)
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	assert.Equal(t, "forced-win", report.Results[0].Name)
	assert.Equal(t, []int{100, 0, -4, 7, -4, 100, 100}, report.Results[0].Scores)
	assert.Equal(t, []int{100, 100, 0, 100, 100, 100, 100}, report.Results[2].Scores)
	for _, res := range report.Results {
		assert.Len(t, res.Millis, 2)
	}
	assert.Equal(t, report.Results[0].Nodes+report.Results[1].Nodes+report.Results[2].Nodes,
		report.TotalNodes)
	assert.LessOrEqual(t, report.MedianMillis, report.P90Millis)

	out := report.String()
	assert.Contains(t, out, "forced-win")

	var buf bytes.Buffer
	require.NoError(t, report.WriteYAML(&buf))
	var decoded Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, report.Results[1].Scores, decoded.Results[1].Scores)
	assert.Equal(t, "small", decoded.Suite)
}

func TestRunnerUnexpectedScores(t *testing.T) {
	is := is.New(t)
	s := Suite{Positions: []Position{{
		Name:   "wrong",
		Moves:  "33333344226000000666664",
		Expect: []int{100, 0, 0, 100, 0, 0, 100},
	}}}
	_, err := (&Runner{Capacity: 100003}).Run(context.Background(), s)
	is.True(errors.Is(err, ErrUnexpectedScores))
	is.True(strings.Contains(err.Error(), "wrong"))
}

func TestRunnerCanceled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Runner{Threads: 2, Capacity: 1009}).Run(ctx, RandomSuite(5, 30, 30))
	is.True(errors.Is(err, context.Canceled))
}
