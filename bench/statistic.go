package bench

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Statistic keeps a running mean and variance.
type Statistic struct {
	count int

	// For Welford's algorithm:
	oldM float64
	newM float64
	oldS float64
	newS float64
}

func (s *Statistic) Push(val float64) {
	s.count++
	if s.count == 1 {
		s.oldM = val
		s.newM = val
		s.oldS = 0
	} else {
		s.newM = s.oldM + (val-s.oldM)/float64(s.count)
		s.newS = s.oldS + (val-s.oldM)*(val-s.newM)
		s.oldM = s.newM
		s.oldS = s.newS
	}
}

func (s *Statistic) Count() int {
	return s.count
}

func (s *Statistic) Mean() float64 {
	if s.count > 0 {
		return s.newM
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.count <= 1 {
		return 0.0
	}
	return s.newS / float64(s.count-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

// ZVal returns the two-tailed Z-value associated with a specific confidence interval.
// The interval is a number from 0 to 100 percent.
func ZVal(confidenceInterval float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	return dist.Quantile((1 + confidenceInterval/100) / 2)
}

// MeanHalfWidth is the half width of the confidence interval around the
// mean, at the given confidence in percent.
func (s *Statistic) MeanHalfWidth(confidenceInterval float64) float64 {
	if s.count <= 1 {
		return 0.0
	}
	return ZVal(confidenceInterval) * s.Stdev() / math.Sqrt(float64(s.count))
}
