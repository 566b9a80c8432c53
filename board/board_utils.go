package board

import (
	"fmt"
	"strings"
	"unicode"
)

// Notation selects how columns are written in move strings.
type Notation int

const (
	ZeroBased Notation = 0
	OneBased  Notation = 1
)

func (n Notation) Valid() bool {
	return n == ZeroBased || n == OneBased
}

// ColumnLabel returns the character for col in this notation.
func (n Notation) ColumnLabel(col int) byte {
	return byte('0' + col + int(n))
}

// ParseColumn converts a single column character to a zero-based column.
// The result is not range checked.
func (n Notation) ParseColumn(r rune) (int, error) {
	if r < '0' || r > '9' {
		return 0, fmt.Errorf("%w: %q", ErrBadCharacter, r)
	}
	return int(r-'0') - int(n), nil
}

// FromMoves replays a move string such as "3323431" on an empty board.
// Whitespace is ignored.
func FromMoves(moves string, n Notation) (*Board, error) {
	b := NewBoard()
	if err := b.PlayMoves(moves, n); err != nil {
		return nil, err
	}
	return b, nil
}

// MustFromMoves is like FromMoves but panics on an illegal sequence.
func MustFromMoves(moves string, n Notation) *Board {
	b, err := FromMoves(moves, n)
	if err != nil {
		panic(err)
	}
	return b
}

// PlayMoves plays a move string on top of the current position. On error
// the moves played before the bad one stay on the board.
func (b *Board) PlayMoves(moves string, n Notation) error {
	for i, r := range moves {
		if unicode.IsSpace(r) {
			continue
		}
		col, err := n.ParseColumn(r)
		if err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
		if err := b.Play(col); err != nil {
			return fmt.Errorf("move %d (%c): %w", b.count+1, r, err)
		}
	}
	return nil
}

// MoveString writes the moves played so far in notation n.
func (b *Board) MoveString(n Notation) string {
	var sb strings.Builder
	for _, col := range b.moves[:b.count] {
		sb.WriteByte(n.ColumnLabel(col))
	}
	return sb.String()
}

func (b *Board) String() string {
	return b.MoveString(ZeroBased)
}

// ToDisplayText renders the board with column labels in notation n.
func (b *Board) ToDisplayText(n Notation) string {
	var str strings.Builder
	str.WriteString("\n ")
	for col := 0; col < Width; col++ {
		str.WriteByte(' ')
		str.WriteByte(n.ColumnLabel(col))
	}
	str.WriteString("\n ")
	str.WriteString(strings.Repeat("-", Width*2+1))
	str.WriteString("\n")
	for row := 0; row < Height; row++ {
		str.WriteString("| ")
		for col := 0; col < Width; col++ {
			str.WriteString(b.Get(row, col).String())
			str.WriteByte(' ')
		}
		str.WriteString("|\n")
	}
	str.WriteString(" ")
	str.WriteString(strings.Repeat("-", Width*2+1))
	str.WriteString("\n")
	switch {
	case b.HasWon():
		fmt.Fprintf(&str, "%v has won\n", b.lastMover())
	case b.IsFull():
		str.WriteString("draw\n")
	default:
		fmt.Fprintf(&str, "%v to move (move %d)\n", b.PlayerOnTurn(), b.count+1)
	}
	return str.String()
}

func (b *Board) lastMover() Token {
	if b.PlayerOnTurn() == FirstPlayer {
		return SecondPlayer
	}
	return FirstPlayer
}
