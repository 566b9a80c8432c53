package bench

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/domino14/connect4/board"
)

var ErrBadSuite = errors.New("bad suite")

// Position is one entry of a suite file:
//
//	- name: bench
//	  moves: "41245376333225777136115215667"
//	  notation: 1
//	  expect: [3, 3, 3, 0, 3, 3, 3]
type Position struct {
	Name     string         `yaml:"name"`
	Moves    string         `yaml:"moves"`
	Notation board.Notation `yaml:"notation,omitempty"`
	// Expect, if set, holds the analysis every run must reproduce.
	Expect []int `yaml:"expect,omitempty"`
}

func (p Position) Board() (*board.Board, error) {
	if !p.Notation.Valid() {
		return nil, fmt.Errorf("%w: position %q has notation %d", ErrBadSuite, p.Name, p.Notation)
	}
	b, err := board.FromMoves(p.Moves, p.Notation)
	if err != nil {
		return nil, fmt.Errorf("position %q: %w", p.Name, err)
	}
	if b.HasWon() {
		return nil, fmt.Errorf("%w: position %q is already won", ErrBadSuite, p.Name)
	}
	if p.Expect != nil && len(p.Expect) != board.Width {
		return nil, fmt.Errorf("%w: position %q expects %d scores, need %d",
			ErrBadSuite, p.Name, len(p.Expect), board.Width)
	}
	return b, nil
}

type Suite struct {
	Name      string     `yaml:"name"`
	Positions []Position `yaml:"positions"`
}

// ParseSuite reads a suite from YAML and checks that every position can be
// replayed.
func ParseSuite(data []byte) (Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Suite{}, fmt.Errorf("%w: %w", ErrBadSuite, err)
	}
	if len(s.Positions) == 0 {
		return Suite{}, fmt.Errorf("%w: no positions", ErrBadSuite)
	}
	for i := range s.Positions {
		if s.Positions[i].Name == "" {
			s.Positions[i].Name = fmt.Sprintf("position-%d", i+1)
		}
		if _, err := s.Positions[i].Board(); err != nil {
			return Suite{}, err
		}
	}
	return s, nil
}

func LoadSuite(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, err
	}
	s, err := ParseSuite(data)
	if err != nil {
		return Suite{}, err
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// DefaultSuite is the single position the bench binary solves when no
// suite is given.
func DefaultSuite() Suite {
	return Suite{
		Name: "default",
		Positions: []Position{{
			Name:     "bench",
			Moves:    "41245376333225777136115215667",
			Notation: board.OneBased,
			Expect:   []int{3, 3, 3, 0, 3, 3, 3},
		}},
	}
}

// RandomSuite builds n positions from random playouts of minMoves to
// maxMoves moves. Playouts that end early are kept as they are.
func RandomSuite(n, minMoves, maxMoves int) Suite {
	minMoves = max(0, min(minMoves, board.Size))
	maxMoves = max(minMoves, min(maxMoves, board.Size))
	s := Suite{Name: "random", Positions: make([]Position, n)}
	for i := range s.Positions {
		b := board.RandomPlayout(minMoves + frand.Intn(maxMoves-minMoves+1))
		s.Positions[i] = Position{
			Name:  fmt.Sprintf("random-%d", i+1),
			Moves: b.String(),
		}
	}
	return s
}
