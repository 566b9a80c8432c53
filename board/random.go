package board

import "lukechampine.com/frand"

// RandomPlayout plays up to maxMoves uniformly random moves from the empty
// board. It never plays a winning move, so the result is always a position
// with no winner; it stops early when every legal move would win.
func RandomPlayout(maxMoves int) *Board {
	b := NewBoard()
	b.RandomMoves(maxMoves)
	return b
}

// RandomMoves extends the position by up to n random non-winning moves and
// returns how many were played.
func (b *Board) RandomMoves(n int) int {
	var candidates [Width]int
	played := 0
	for played < n && !b.IsFull() && !b.HasWon() {
		ncand := 0
		for col := 0; col < Width; col++ {
			if b.CanPlay(col) && !b.IsWinningMove(col) {
				candidates[ncand] = col
				ncand++
			}
		}
		if ncand == 0 {
			break
		}
		b.MakeMove(candidates[frand.Intn(ncand)])
		played++
	}
	return played
}
