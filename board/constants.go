package board

// Bitboard layout, column-major with one guard bit above every column:
//
//	 6 13 20 27 34 41 48   guard row
//	 5 12 19 26 33 40 47
//	 4 11 18 25 32 39 46
//	 3 10 17 24 31 38 45
//	 2  9 16 23 30 37 44
//	 1  8 15 22 29 36 43
//	 0  7 14 21 28 35 42   bottom row
const (
	Width  = 7
	Height = 6
	Size   = Width * Height

	// Stride is the number of bits per column, including the guard bit.
	Stride = Height + 1
)

const (
	// Bottom has the lowest cell of every column set.
	Bottom uint64 = 0b0000001_0000001_0000001_0000001_0000001_0000001_0000001
	// Top has the guard bit of every column set.
	Top uint64 = Bottom << Height
	// Mask has every playable cell set, and no guard bits.
	Mask uint64 = Bottom * ((1 << Height) - 1)
)

// Scores are from the point of view of the side to move. A win achieved
// with the k-th stone of the game is worth MaxScore-k to the winner, so
// faster wins score higher and faster losses score lower.
const (
	MaxScore = Size + 1
	MinScore = -MaxScore

	// IllegalMove marks a column that cannot be played. It lies outside
	// [MinScore, MaxScore].
	IllegalMove = 100
)

// ColumnMask returns the playable cells of col.
func ColumnMask(col int) uint64 {
	return ((uint64(1) << Height) - 1) << (col * Stride)
}

// BottomMask returns the lowest cell of col.
func BottomMask(col int) uint64 {
	return uint64(1) << (col * Stride)
}
