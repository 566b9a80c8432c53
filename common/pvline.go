package common

import (
	"fmt"
	"strings"
)

// Credit: MIT-licensed https://github.com/algerbrex/blunder/blob/main/engine/search.go
type PVLine struct {
	// Moves are zero-based columns.
	Moves []int
	// Score is the value of the line for the side to move at its start.
	Score int
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Moves = nil
}

// Update the principal variation line with a new best move,
// and a new line of best play after the best move.
func (pvLine *PVLine) Update(col int, newPVLine PVLine, score int) {
	pvLine.Clear()
	pvLine.Moves = append(pvLine.Moves, col)
	pvLine.Moves = append(pvLine.Moves, newPVLine.Moves...)
	pvLine.Score = score
}

// Get the best move from the principal variation line. It returns -1 for
// an empty line.
func (pvLine *PVLine) GetPVMove() int {
	if len(pvLine.Moves) == 0 {
		return -1
	}
	return pvLine.Moves[0]
}

// MoveString writes the line as a move string, adding offset to each
// column (1 for one-based notation).
func (pvLine PVLine) MoveString(offset int) string {
	var sb strings.Builder
	for _, col := range pvLine.Moves {
		sb.WriteByte(byte('0' + col + offset))
	}
	return sb.String()
}

// Convert the principal variation line to a string.
func (pvLine PVLine) String() string {
	var s strings.Builder
	fmt.Fprintf(&s, "PV; val %d\n", pvLine.Score)
	for i, col := range pvLine.Moves {
		fmt.Fprintf(&s, "%d: column %d\n", i+1, col+1)
	}
	return s.String()
}

func (pvLine PVLine) NLBString() string {
	// no line breaks
	var s strings.Builder
	fmt.Fprintf(&s, "PV; val %d; ", pvLine.Score)
	for i, col := range pvLine.Moves {
		fmt.Fprintf(&s, "%d: column %d; ", i+1, col+1)
	}
	return s.String()
}
