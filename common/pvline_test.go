package common

import (
	"testing"

	"github.com/matryer/is"
)

func TestPVLineUpdate(t *testing.T) {
	is := is.New(t)
	var child PVLine
	child.Update(4, PVLine{}, -2)
	is.Equal(child.Moves, []int{4})

	var pv PVLine
	pv.Update(3, child, 2)
	is.Equal(pv.Moves, []int{3, 4})
	is.Equal(pv.Score, 2)
	is.Equal(pv.GetPVMove(), 3)
	is.Equal(pv.MoveString(0), "34")
	is.Equal(pv.MoveString(1), "45")

	pv.Clear()
	is.Equal(pv.GetPVMove(), -1)
}

func TestPVLineString(t *testing.T) {
	is := is.New(t)
	pv := PVLine{Moves: []int{3, 0}, Score: 5}
	is.Equal(pv.String(), "PV; val 5\n1: column 4\n2: column 1\n")
	is.Equal(pv.NLBString(), "PV; val 5; 1: column 4; 2: column 1; ")
}
