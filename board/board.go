package board

import (
	"errors"
	"math/bits"
)

// Board implementation based on
// https://github.com/denkspuren/BitboardC4/blob/master/BitboardDesign.md

type Token int

const (
	Empty Token = iota
	FirstPlayer
	SecondPlayer
)

func (t Token) String() string {
	switch t {
	case FirstPlayer:
		return "X"
	case SecondPlayer:
		return "O"
	}
	return "."
}

var (
	ErrIllegalColumn = errors.New("column out of range")
	ErrColumnFull    = errors.New("column is full")
	ErrGameOver      = errors.New("game is already won")
	ErrBadCharacter  = errors.New("bad character in move string")
	ErrNoMovesToUndo = errors.New("no moves to undo")
)

// A Board is a Connect-4 position. It is a plain value: copying a Board
// yields an independent position. The zero value is not usable; start from
// NewBoard.
type Board struct {
	// stones[0] belongs to the first player, stones[1] to the second.
	stones [2]uint64
	// heights holds the bit index of the next empty cell in each column.
	heights [Width]uint
	moves   [Size]int
	count   int
}

func NewBoard() *Board {
	b := &Board{}
	b.Clear()
	return b
}

// Clear empties the board.
func (b *Board) Clear() {
	*b = Board{}
	for col := range b.heights {
		b.heights[col] = uint(col * Stride)
	}
}

// MakeMove drops a stone for the side to move into col. The caller must
// check CanPlay first; use Play for validated input.
func (b *Board) MakeMove(col int) {
	b.stones[b.count&1] |= 1 << b.heights[col]
	b.moves[b.count] = col
	b.heights[col]++
	b.count++
}

// UndoMove takes back the last move. It panics if there is nothing to undo.
func (b *Board) UndoMove() {
	if b.count == 0 {
		panic(ErrNoMovesToUndo)
	}
	b.count--
	col := b.moves[b.count]
	b.moves[b.count] = 0
	b.heights[col]--
	b.stones[b.count&1] ^= 1 << b.heights[col]
}

// Play is a checked MakeMove.
func (b *Board) Play(col int) error {
	if col < 0 || col >= Width {
		return ErrIllegalColumn
	}
	if b.HasWon() {
		return ErrGameOver
	}
	if !b.CanPlay(col) {
		return ErrColumnFull
	}
	b.MakeMove(col)
	return nil
}

// CanPlay returns true if col still has an empty cell.
func (b *Board) CanPlay(col int) bool {
	return Top&(1<<b.heights[col]) == 0
}

// HasWon returns true if the player who made the last move has four in a row.
func (b *Board) HasWon() bool {
	return IsWin(b.stones[(b.count+1)&1])
}

// IsFull returns true if all cells are occupied.
func (b *Board) IsFull() bool {
	return b.count == Size
}

// IsWin returns true if mask contains four contiguous stones vertically,
// horizontally or along either diagonal. The guard bits keep runs from
// wrapping between columns.
func IsWin(mask uint64) bool {
	vert := mask & (mask >> 1)
	hori := mask & (mask >> Stride)
	diag1 := mask & (mask >> (Stride - 1))
	diag2 := mask & (mask >> (Stride + 1))

	return (vert&(vert>>2))|
		(hori&(hori>>(2*Stride)))|
		(diag1&(diag1>>(2*(Stride-1))))|
		(diag2&(diag2>>(2*(Stride+1)))) != 0
}

// winningCells returns the empty cells (cells not in occupied) that would
// complete four in a row for the stones in mask. Cells may be floating,
// i.e. not directly playable yet.
func winningCells(mask, occupied uint64) uint64 {
	// vertical; only upward extension is possible
	r := (mask << 1) & (mask << 2) & (mask << 3)

	for _, d := range [3]uint{Stride, Stride - 1, Stride + 1} {
		// xxx. and xx.x
		p := (mask << d) & (mask << (2 * d))
		r |= p & (mask << (3 * d))
		r |= p & (mask >> d)
		// .xxx and x.xx
		p = (mask >> d) & (mask >> (2 * d))
		r |= p & (mask << d)
		r |= p & (mask >> (3 * d))
	}
	return r & (Mask ^ occupied) & Mask
}

// WinningMask returns every empty cell that would complete four in a row
// for mask, given the current occupancy of the board.
func (b *Board) WinningMask(mask uint64) uint64 {
	return winningCells(mask, b.occupied())
}

// PossibleMask returns the cells that can be played right now: the lowest
// empty cell of every non-full column.
func (b *Board) PossibleMask() uint64 {
	return (b.occupied() + Bottom) & Mask
}

// NonLosingMoves returns the playable cells that do not hand the opponent
// an immediate win.
func (b *Board) NonLosingMoves() uint64 {
	possible := b.PossibleMask()
	oppWins := b.WinningMask(b.stones[(b.count+1)&1])
	forced := possible & oppWins
	if forced != 0 {
		if forced&(forced-1) != 0 {
			// two or more threats; only one can be blocked
			return 0
		}
		possible = forced
	}
	// never play directly below an opponent's winning cell
	return possible &^ (oppWins >> 1)
}

// CanWinNext returns true if the side to move has a winning move.
func (b *Board) CanWinNext() bool {
	return b.WinningMask(b.stones[b.count&1])&b.PossibleMask() != 0
}

// IsWinningMove returns true if playing col wins immediately for the side
// to move.
func (b *Board) IsWinningMove(col int) bool {
	return b.WinningMask(b.stones[b.count&1])&b.PossibleMask()&ColumnMask(col) != 0
}

// MoveScore counts the winning cells the side to move would own after
// playing col. It is used for move ordering only.
func (b *Board) MoveScore(col int) int {
	move := uint64(1) << b.heights[col]
	return bits.OnesCount64(winningCells(b.stones[b.count&1]|move, b.occupied()|move))
}

// Key returns a position key that is unique for each position and side to
// move. Mirrored positions get different keys.
func (b *Board) Key() uint64 {
	return (b.occupied() + Bottom) | b.stones[b.count&1]
}

func (b *Board) occupied() uint64 {
	return b.stones[0] | b.stones[1]
}

// MoveCount returns the number of stones on the board.
func (b *Board) MoveCount() int {
	return b.count
}

// Moves returns a copy of the columns played so far.
func (b *Board) Moves() []int {
	m := make([]int, b.count)
	copy(m, b.moves[:b.count])
	return m
}

// PlayerOnTurn returns the token of the side to move.
func (b *Board) PlayerOnTurn() Token {
	if b.count&1 == 0 {
		return FirstPlayer
	}
	return SecondPlayer
}

// Stones returns the stone mask of player.
func (b *Board) Stones(player Token) uint64 {
	switch player {
	case FirstPlayer:
		return b.stones[0]
	case SecondPlayer:
		return b.stones[1]
	}
	return 0
}

// ColumnHeight returns the number of stones in col.
func (b *Board) ColumnHeight(col int) int {
	return int(b.heights[col]) - col*Stride
}

// Get returns the token at row, col. Row 0 is the top row.
func (b *Board) Get(row, col int) Token {
	pos := uint64(1) << (Height - 1 - row + col*Stride)
	if b.stones[0]&pos != 0 {
		return FirstPlayer
	} else if b.stones[1]&pos != 0 {
		return SecondPlayer
	}
	return Empty
}
