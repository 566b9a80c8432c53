package negamax

import (
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connect4/board"
)

// An entry is packed into a single uint64:
//
//	|    key    |  value  | flag  |
//	|  55 bits  |  8 bits | 1 bit |
//
// value is the score offset by board.MinScore so that it is never
// negative. flag is set when the score is an upper bound, and clear when
// it is a lower bound.
const (
	flagMask   = uint64(1)
	valueShift = 1
	valueMask  = uint64(0xff) << valueShift
	keyShift   = 9

	// MaxKeyBits is the widest key the table can store. Board keys use
	// board.Width*board.Stride bits.
	MaxKeyBits = 64 - keyShift

	entrySize = 8
)

// DefaultCapacity is a prime, so that key % capacity spreads keys well.
const DefaultCapacity = 8388593

// TableStats holds counters since the last Clear.
type TableStats struct {
	Capacity   int
	Lookups    uint64
	Hits       uint64
	Stores     uint64
	Collisions uint64
}

// TranspositionTable is a fixed-size table of packed entries. Each key maps
// to exactly one bucket and a store always overwrites what is there.
type TranspositionTable struct {
	table []uint64

	lookups uint64
	hits    uint64
	stores  uint64
	// a collision is a lookup that lands on a bucket holding a different,
	// valid key.
	collisions uint64
}

// NewTranspositionTable allocates capacity zeroed buckets. It panics if
// capacity is less than 1.
func NewTranspositionTable(capacity int) *TranspositionTable {
	if capacity < 1 {
		panic("transposition table capacity must be positive")
	}
	return &TranspositionTable{table: make([]uint64, capacity)}
}

func (t *TranspositionTable) index(key uint64) uint64 {
	return key % uint64(len(t.table))
}

// Get returns the stored bound for key. If nothing is stored for key it
// returns (board.MaxScore, true), an upper bound that constrains nothing.
func (t *TranspositionTable) Get(key uint64) (value int, isUpper bool) {
	t.lookups++
	entry := t.table[t.index(key)]
	if entry>>keyShift != key {
		if entry != 0 {
			t.collisions++
		}
		return board.MaxScore, true
	}
	t.hits++
	return int((entry&valueMask)>>valueShift) + board.MinScore, entry&flagMask != 0
}

// Put stores value for key as an upper or lower bound. value must lie in
// [board.MinScore, board.MaxScore] and key must fit in MaxKeyBits.
func (t *TranspositionTable) Put(key uint64, value int, isUpper bool) {
	entry := key<<keyShift | uint64(value-board.MinScore)<<valueShift
	if isUpper {
		entry |= flagMask
	}
	t.table[t.index(key)] = entry
	t.stores++
}

// Clear zeroes every bucket and the counters.
func (t *TranspositionTable) Clear() {
	clear(t.table)
	t.lookups = 0
	t.hits = 0
	t.stores = 0
	t.collisions = 0
}

func (t *TranspositionTable) Capacity() int {
	return len(t.table)
}

func (t *TranspositionTable) Stats() TableStats {
	return TableStats{
		Capacity:   len(t.table),
		Lookups:    t.lookups,
		Hits:       t.hits,
		Stores:     t.stores,
		Collisions: t.collisions,
	}
}

// CapacityForMemory returns a prime table capacity that uses roughly the
// given fraction of total system memory.
func CapacityForMemory(fraction float64) int {
	totalMem := memory.TotalMemory()
	desired := int(fraction * float64(totalMem) / entrySize)
	// keep at least a small table around even on odd inputs
	if desired < 1024 {
		desired = 1024
	}
	capacity := prevPrime(desired)
	log.Info().Int("num-elems", capacity).
		Int("desired-num-elems", desired).
		Int("estimated-total-memory-bytes", capacity*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")
	return capacity
}

// prevPrime returns the largest prime <= n, for n >= 2.
func prevPrime(n int) int {
	for ; n > 2; n-- {
		if isPrime(n) {
			return n
		}
	}
	return 2
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}
