// Package minimax holds slow reference searches. They use the same score
// scale as the negamax solver but no transposition table, no move
// ordering and no threat pruning, so they are only practical for positions
// with few empty cells.
package minimax

import (
	"github.com/domino14/connect4/board"
)

// Minimax returns the exact score of b for the side to move by visiting
// every continuation.
func Minimax(b *board.Board) int {
	moveCount := b.MoveCount()
	if b.HasWon() {
		// the previous move won
		return -(board.MaxScore - moveCount)
	}
	if moveCount == board.Size {
		return 0
	}

	value := board.MinScore
	for col := 0; col < board.Width; col++ {
		if !b.CanPlay(col) {
			continue
		}
		b.MakeMove(col)
		value = max(value, -Minimax(b))
		b.UndoMove()
	}
	return value
}

// thanks Wikipedia:
/**function alphabeta(node, α, β) is
    if node is a terminal node then
        return the value of node
    value := −∞
    for each child of node do
        value := max(value, −alphabeta(child, −β, −α))
        α := max(α, value)
        if α ≥ β then
            break (* cut-off *)
    return value
**/

// AlphaBeta is Minimax with alpha-beta cut-offs, visiting columns left to
// right. The result is exact when it lies strictly inside (alpha, beta).
func AlphaBeta(b *board.Board, alpha, beta int) int {
	moveCount := b.MoveCount()
	if b.HasWon() {
		return -(board.MaxScore - moveCount)
	}
	if moveCount == board.Size {
		return 0
	}

	value := board.MinScore
	for col := 0; col < board.Width; col++ {
		if !b.CanPlay(col) {
			continue
		}
		b.MakeMove(col)
		value = max(value, -AlphaBeta(b, -beta, -alpha))
		b.UndoMove()
		alpha = max(alpha, value)
		if alpha >= beta {
			break
		}
	}
	return value
}

// Analyze scores every column with Minimax. Columns that cannot be played,
// or any column once the game is over, get board.IllegalMove.
func Analyze(b board.Board) [board.Width]int {
	return analyze(&b, Minimax)
}

// AnalyzeAlphaBeta is Analyze using full-window AlphaBeta.
func AnalyzeAlphaBeta(b board.Board) [board.Width]int {
	return analyze(&b, func(b *board.Board) int {
		return AlphaBeta(b, board.MinScore, board.MaxScore)
	})
}

func analyze(b *board.Board, search func(*board.Board) int) [board.Width]int {
	var result [board.Width]int
	for col := 0; col < board.Width; col++ {
		if b.HasWon() || !b.CanPlay(col) {
			result[col] = board.IllegalMove
			continue
		}
		b.MakeMove(col)
		result[col] = -search(b)
		b.UndoMove()
	}
	return result
}
