package minimax

import (
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/domino14/connect4/board"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func TestAnalyze(t *testing.T) {
	is := is.New(t)
	b := board.MustFromMoves("41245376333225777136115215667766214", board.OneBased)
	is.Equal(Analyze(*b), [board.Width]int{100, 0, -4, 7, -4, 100, 100})
	is.Equal(Minimax(b), 7)
	is.Equal(b.MoveCount(), 35)
}

func TestAnalyzeLateDraw(t *testing.T) {
	is := is.New(t)
	const game = "344603526506503656131365205344011101424222"
	for _, tc := range []struct {
		moves string
		want  [board.Width]int
		value int
	}{
		{game[:34], [board.Width]int{-7, -7, 8, 100, 6, 100, 100}, 8},
		{game[:36], [board.Width]int{100, 100, 6, 100, 4, 100, 100}, 6},
		{game[:40], [board.Width]int{100, 100, 0, 100, 100, 100, 100}, 0},
		{game[:41], [board.Width]int{100, 100, 0, 100, 100, 100, 100}, 0},
	} {
		b := board.MustFromMoves(tc.moves, board.ZeroBased)
		is.Equal(Analyze(*b), tc.want)
		is.Equal(AnalyzeAlphaBeta(*b), tc.want)
		is.Equal(Minimax(b), tc.value)
	}
}

func TestFullBoard(t *testing.T) {
	is := is.New(t)
	b := board.MustFromMoves("344603526506503656131365205344011101424222", board.ZeroBased)
	is.True(b.IsFull())
	is.Equal(Minimax(b), 0)
	is.Equal(AlphaBeta(b, board.MinScore, board.MaxScore), 0)
	for _, s := range Analyze(*b) {
		is.Equal(s, board.IllegalMove)
	}
}

func TestGameOver(t *testing.T) {
	is := is.New(t)
	b := board.MustFromMoves("0101010", board.ZeroBased)
	// second player to move, first player won with the 7th stone
	is.Equal(Minimax(b), -(board.MaxScore - 7))
	for _, s := range Analyze(*b) {
		is.Equal(s, board.IllegalMove)
	}
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 30; i++ {
		b := board.RandomPlayout(board.Size - 9)
		// the playout may stop early; only keep small trees
		if board.Size-b.MoveCount() > 10 {
			continue
		}
		want := Minimax(b)
		is.Equal(AlphaBeta(b, board.MinScore, board.MaxScore), want)
		// null-window probes bound the exact value
		med := frand.Intn(2*board.MaxScore) - board.MaxScore
		r := AlphaBeta(b, med, med+1)
		if want <= med {
			is.True(r <= med)
		} else {
			is.True(r > med)
		}
	}
}
