package negamax

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/common"
)

// thanks Wikipedia:
/*
function negamax(node, depth, α, β, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node

    childNodes := generateMoves(node)
    childNodes := orderMoves(childNodes)
    value := −∞
    foreach child in childNodes do
        value := max(value, −negamax(child, depth − 1, −β, −α, −color))
        α := max(α, value)
        if α ≥ β then
            break (* cut-off *)
    return value
**/

// columnOrder visits the center first. Only used to break ties between
// moves with the same heuristic score.
var columnOrder = [board.Width]int{3, 2, 4, 1, 5, 0, 6}

// Solver computes exact scores. It owns its transposition table, which is
// kept across calls until Reset. A Solver is not safe for concurrent use.
type Solver struct {
	ttable *TranspositionTable
	nodes  uint64
}

func NewSolver(capacity int) *Solver {
	return &Solver{ttable: NewTranspositionTable(capacity)}
}

// ExploredNodes returns the number of positions visited since the last
// Reset: every negamax call, plus every child of an analyzed position that
// is scored without searching (an immediate win, or a position where the
// opponent wins with the next stone).
func (s *Solver) ExploredNodes() uint64 {
	return s.nodes
}

// Reset clears the node counter and the transposition table.
func (s *Solver) Reset() {
	s.nodes = 0
	s.ttable.Clear()
}

func (s *Solver) TableStats() TableStats {
	return s.ttable.Stats()
}

// negamax returns the score of b for the side to move, within the window
// (alpha, beta): a result <= alpha is an upper bound, a result >= beta a
// lower bound, anything in between is exact.
// The side to move must not be able to win immediately.
func (s *Solver) negamax(b *board.Board, alpha, beta int) int {
	s.nodes++
	moveCount := b.MoveCount()

	if moveCount == board.Size {
		return 0
	}

	next := b.NonLosingMoves()
	if next == 0 {
		// whatever we play, the opponent wins with their next stone.
		return -(board.MaxScore - moveCount - 2)
	}

	if moveCount >= board.Size-2 {
		// at most two cells left, no win possible for either side.
		return 0
	}

	// the side to move cannot win with this stone, so the earliest win is
	// two stones away, and no move in next lets the opponent win right back.
	max := board.MaxScore - moveCount - 3
	if max < beta {
		beta = max
		if beta <= alpha {
			return beta
		}
	}

	min := -(board.MaxScore - moveCount - 4)
	if alpha < min {
		alpha = min
		if beta <= alpha {
			return alpha
		}
	}

	key := b.Key()
	value, isUpper := s.ttable.Get(key)
	if isUpper {
		if value < beta {
			beta = value
			if beta <= alpha {
				return beta
			}
		}
	} else if alpha < value {
		alpha = value
		if beta <= alpha {
			return alpha
		}
	}

	var moves MoveSorter
	for i := board.Width - 1; i >= 0; i-- {
		col := columnOrder[i]
		if next&board.ColumnMask(col) != 0 {
			moves.Add(col, b.MoveScore(col))
		}
	}

	for col, ok := moves.Next(); ok; col, ok = moves.Next() {
		b.MakeMove(col)
		score := -s.negamax(b, -beta, -alpha)
		b.UndoMove()

		if score >= beta {
			s.ttable.Put(key, score, false)
			return score
		}
		if score > alpha {
			alpha = score
		}
	}
	s.ttable.Put(key, alpha, true)
	return alpha
}

// scoreMove plays col, scores it for the player who played it, and takes
// it back. col must be playable.
func (s *Solver) scoreMove(b *board.Board, col int) int {
	b.MakeMove(col)
	defer b.UndoMove()

	moveCount := b.MoveCount()
	switch {
	case b.HasWon():
		s.nodes++
		return board.MaxScore - moveCount
	case b.CanWinNext():
		// the opponent wins with the very next stone
		s.nodes++
		return -(board.MaxScore - moveCount - 1)
	default:
		return -s.negamax(b, board.MinScore, board.MaxScore)
	}
}

// Analyze returns the score of every column for the side to move.
// Columns that cannot be played get board.IllegalMove. The board is
// copied, so the caller's position is left alone.
func (s *Solver) Analyze(b board.Board) [board.Width]int {
	var result [board.Width]int
	tstart := time.Now()
	startNodes := s.nodes

	for col := 0; col < board.Width; col++ {
		if b.HasWon() || !b.CanPlay(col) {
			result[col] = board.IllegalMove
			continue
		}
		result[col] = s.scoreMove(&b, col)
	}

	log.Debug().
		Str("moves", b.String()).
		Ints("scores", result[:]).
		Uint64("nodes", s.nodes-startNodes).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("analyze-returning")
	return result
}

// Solve returns the score of the position for the side to move. It narrows
// the score range with null-window searches, which is usually faster than
// analyzing every column with a full window.
func (s *Solver) Solve(b board.Board) int {
	moveCount := b.MoveCount()
	switch {
	case b.HasWon():
		return -(board.MaxScore - moveCount)
	case b.IsFull():
		return 0
	case b.CanWinNext():
		return board.MaxScore - moveCount - 1
	}

	tstart := time.Now()
	startNodes := s.nodes
	min, max := board.MinScore, board.MaxScore
	for min < max {
		med := min + (max-min)/2
		// probe closer to zero first; most positions are decided by
		// small margins.
		if med <= 0 && min/2 < med {
			med = min / 2
		} else if med >= 0 && max/2 > med {
			med = max / 2
		}
		r := s.negamax(&b, med, med+1)
		if r <= med {
			max = r
		} else {
			min = r
		}
	}

	log.Debug().
		Str("moves", b.String()).
		Int("score", min).
		Uint64("nodes", s.nodes-startNodes).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("solve-returning")
	return min
}

// BestMove returns the best column for the side to move and its score.
// Ties go to the column closest to the center. It returns -1 if no column
// can be played.
func (s *Solver) BestMove(b board.Board) (int, int) {
	scores := s.Analyze(b)
	playable := lo.Filter(columnOrder[:], func(col int, _ int) bool {
		return scores[col] != board.IllegalMove
	})
	if len(playable) == 0 {
		return -1, board.IllegalMove
	}
	best := lo.MaxBy(playable, func(col, bestSoFar int) bool {
		return scores[col] > scores[bestSoFar]
	})
	return best, scores[best]
}

// PrincipalVariation follows best play from b for up to maxLen moves.
func (s *Solver) PrincipalVariation(b board.Board, maxLen int) common.PVLine {
	var pv common.PVLine
	if maxLen <= 0 || b.HasWon() || b.IsFull() {
		return pv
	}
	col, score := s.BestMove(b)
	b.MakeMove(col)
	childPV := s.PrincipalVariation(b, maxLen-1)
	pv.Update(col, childPV, score)
	return pv
}
