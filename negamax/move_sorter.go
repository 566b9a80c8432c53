package negamax

import "github.com/domino14/connect4/board"

type sortEntry struct {
	col   int
	score int
}

// MoveSorter orders up to board.Width columns by score. Entries are kept
// in ascending order so that Next can pop the best one off the end. Among
// equal scores, the column added last comes out first.
type MoveSorter struct {
	entries [board.Width]sortEntry
	size    int
}

// Add inserts col with the given score. Adding more than board.Width
// entries panics.
func (m *MoveSorter) Add(col, score int) {
	pos := m.size
	for ; pos > 0 && m.entries[pos-1].score > score; pos-- {
		m.entries[pos] = m.entries[pos-1]
	}
	m.entries[pos] = sortEntry{col: col, score: score}
	m.size++
}

// Next removes and returns the column with the highest score. ok is false
// once the sorter is empty.
func (m *MoveSorter) Next() (col int, ok bool) {
	if m.size == 0 {
		return 0, false
	}
	m.size--
	return m.entries[m.size].col, true
}

func (m *MoveSorter) Len() int {
	return m.size
}

func (m *MoveSorter) Reset() {
	m.size = 0
}
