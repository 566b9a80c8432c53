package negamax

import (
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/minimax"
)

// Smaller than DefaultCapacity so each test allocates little.
const testCapacity = 1000003

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func TestAnalyzeFixtures(t *testing.T) {
	for _, tc := range []struct {
		name     string
		moves    string
		notation board.Notation
		want     [board.Width]int
	}{
		{"three full columns", "33333344226000000666664", board.ZeroBased,
			[board.Width]int{100, -18, -18, 100, -18, -18, 100}},
		{"forced win", "41245376333225777136115215667766214", board.OneBased,
			[board.Width]int{100, 0, -4, 7, -4, 100, 100}},
		{"bench position", "41245376333225777136115215667", board.OneBased,
			[board.Width]int{3, 3, 3, 0, 3, 3, 3}},
		{"one cell left", "34460352650650365613136520534401110142422", board.ZeroBased,
			[board.Width]int{100, 100, 0, 100, 100, 100, 100}},
		{"two cells left", "3446035265065036561313652053440111014242", board.ZeroBased,
			[board.Width]int{100, 100, 0, 100, 100, 100, 100}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			b := board.MustFromMoves(tc.moves, tc.notation)
			s := NewSolver(testCapacity)
			is.Equal(s.Analyze(*b), tc.want)
		})
	}
}

func TestAnalyzeDoesNotMutate(t *testing.T) {
	is := is.New(t)
	b := board.MustFromMoves("33333344226000000666664", board.ZeroBased)
	before := *b
	NewSolver(testCapacity).Analyze(*b)
	is.Equal(*b, before)
}

func TestForcedWinGetsMaximalScore(t *testing.T) {
	is := is.New(t)
	b := board.MustFromMoves("41245376333225777136115215667766214", board.OneBased)
	s := NewSolver(testCapacity)
	scores := s.Analyze(*b)
	// column 4 wins on the spot with the 36th stone
	is.Equal(scores[3], board.MaxScore-36)
	for col, sc := range scores {
		if sc != board.IllegalMove {
			is.True(sc <= scores[3])
		} else {
			is.True(!b.CanPlay(col))
		}
	}
	col, score := s.BestMove(*b)
	is.Equal(col, 3)
	is.Equal(score, 7)
	is.Equal(s.Solve(*b), 7)
}

func TestFullBoard(t *testing.T) {
	is := is.New(t)
	b := board.MustFromMoves("344603526506503656131365205344011101424222", board.ZeroBased)
	is.True(b.IsFull())
	s := NewSolver(testCapacity)
	for _, sc := range s.Analyze(*b) {
		is.Equal(sc, board.IllegalMove)
	}
	is.Equal(s.negamax(b, board.MinScore, board.MaxScore), 0)
	is.Equal(s.Solve(*b), 0)
	col, score := s.BestMove(*b)
	is.Equal(col, -1)
	is.Equal(score, board.IllegalMove)
}

func TestGameOver(t *testing.T) {
	is := is.New(t)
	b := board.MustFromMoves("3323431", board.ZeroBased)
	s := NewSolver(testCapacity)
	for _, sc := range s.Analyze(*b) {
		is.Equal(sc, board.IllegalMove)
	}
	is.Equal(s.Solve(*b), -(board.MaxScore - 7))
	is.Equal(len(s.PrincipalVariation(*b, 5).Moves), 0)
}

func TestSolverMatchesReference(t *testing.T) {
	is := is.New(t)
	s := NewSolver(1009)
	checked := 0
	for checked < 40 {
		b := board.RandomPlayout(board.Size - 12)
		if b.MoveCount() < board.Size-12 {
			// the playout ran out of non-winning moves
			continue
		}
		want := minimax.AnalyzeAlphaBeta(*b)
		is.Equal(s.Analyze(*b), want)
		checked++
	}
}

func TestSolveMatchesAnalyze(t *testing.T) {
	is := is.New(t)
	s := NewSolver(testCapacity)
	checked := 0
	for checked < 25 {
		b := board.RandomPlayout(board.Size - 20)
		if b.MoveCount() < board.Size-20 {
			continue
		}
		best := board.MinScore
		for _, sc := range s.Analyze(*b) {
			if sc != board.IllegalMove {
				best = max(best, sc)
			}
		}
		// a fresh table for Solve must give the same answer as a warm one
		is.Equal(NewSolver(testCapacity).Solve(*b), best)
		is.Equal(s.Solve(*b), best)
		checked++
	}
}

func TestPrincipalVariation(t *testing.T) {
	is := is.New(t)
	b := board.MustFromMoves("3446035265065036561313652053440111", board.ZeroBased)
	s := NewSolver(testCapacity)
	pv := s.PrincipalVariation(*b, board.Size)
	is.Equal(pv.Score, s.Solve(*b))
	is.True(len(pv.Moves) > 0)

	// the line is legal and ends the game
	for _, col := range pv.Moves {
		is.True(b.CanPlay(col))
		b.MakeMove(col)
	}
	is.True(b.HasWon() || b.IsFull())
	// the first move wins with stone count 43 - score
	if pv.Score > 0 {
		is.Equal(b.MoveCount(), board.MaxScore-pv.Score)
	}
}

func TestReset(t *testing.T) {
	is := is.New(t)
	s := NewSolver(testCapacity)
	b := board.MustFromMoves("41245376333225777136115215667", board.OneBased)
	s.Analyze(*b)
	is.True(s.ExploredNodes() > 0)
	is.True(s.TableStats().Stores > 0)
	s.Reset()
	is.Equal(s.ExploredNodes(), uint64(0))
	is.Equal(s.TableStats().Stores, uint64(0))
}

func TestExploredNodesCountsScoredChildren(t *testing.T) {
	is := is.New(t)
	s := NewSolver(testCapacity)
	// every playable column hands the opponent an immediate win, so no
	// column needs a search.
	b := board.MustFromMoves("33333344226000000666664", board.ZeroBased)
	s.Analyze(*b)
	is.Equal(s.ExploredNodes(), uint64(4))
	is.Equal(s.TableStats().Stores, uint64(0))

	// four playable columns, column 1 needs a search to find the draw.
	s.Reset()
	b = board.MustFromMoves("41245376333225777136115215667766214", board.OneBased)
	s.Analyze(*b)
	is.True(s.ExploredNodes() > 4)
	is.True(s.TableStats().Stores > 0)
}

func TestNegamaxStaysInScoreBounds(t *testing.T) {
	is := is.New(t)
	s := NewSolver(1009)
	checked := 0
	for checked < 200 {
		empties := 3 + checked%8
		b := board.RandomPlayout(board.Size - empties)
		if b.MoveCount() < board.Size-empties || b.CanWinNext() || b.NonLosingMoves() == 0 {
			continue
		}
		n := b.MoveCount()
		want := minimax.AlphaBeta(b, board.MinScore, board.MaxScore)
		got := s.negamax(b, board.MinScore, board.MaxScore)
		is.Equal(got, want)
		is.True(got <= board.MaxScore-n-3)
		is.True(got >= -(board.MaxScore - n - 4))
		checked++
	}
}

// TestEmptyBoard solves the opening position, one column at a time with
// null-window searches. It takes several minutes and about 70MB for the
// table.
func TestEmptyBoard(t *testing.T) {
	if testing.Short() || os.Getenv("CONNECT4_SLOW_TESTS") == "" {
		t.Skip("set CONNECT4_SLOW_TESTS to solve the empty board (several minutes)")
	}
	is := is.New(t)
	s := NewSolver(DefaultCapacity)
	var scores [board.Width]int
	for _, col := range columnOrder {
		b := board.NewBoard()
		b.MakeMove(col)
		scores[col] = -s.Solve(*b)
	}
	is.Equal(scores, [board.Width]int{-3, -1, 0, 2, 0, -1, -3})
	is.Equal(s.Solve(*board.NewBoard()), 2)
	// mirror-symmetric, center best
	for col := 0; col < board.Width/2; col++ {
		is.Equal(scores[col], scores[board.Width-1-col])
		is.True(scores[col] < scores[3])
	}
}

func BenchmarkAnalyze(b *testing.B) {
	pos := board.MustFromMoves("41245376333225777136115215667", board.OneBased)
	s := NewSolver(testCapacity)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Reset()
		s.Analyze(*pos)
	}
}
