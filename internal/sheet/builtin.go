package sheet

import (
	"math"
	"time"
)

// Sleeper provides the blocking primitive behind SLEEP. Production code
// uses WallSleeper; tests inject a fake so a SLEEP(600) cell doesn't
// cost the test suite ten minutes.
type Sleeper interface {
	Sleep(d time.Duration)
}

// WallSleeper sleeps for real, using the system clock.
type WallSleeper struct{}

func (WallSleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}

// rangeValues reads every cell in [startRow,endRow] x [startCol,endCol]
// in row-major order. It stops and reports hasErr at the first Error
// cell it finds, since any Error in a range poisons the whole
// aggregate.
func rangeValues(st *Store, startRow, startCol, endRow, endCol, cols int) (vals []int32, hasErr bool) {
	vals = make([]int32, 0, (endRow-startRow+1)*(endCol-startCol+1))
	for r := startRow; r <= endRow; r++ {
		for c := startCol; c <= endCol; c++ {
			v := st.Get(Key(r, c, cols))
			if v.Err {
				return nil, true
			}
			vals = append(vals, v.N)
		}
	}
	return vals, false
}

func aggregateSum(vals []int32) int32 {
	var sum int32
	for _, v := range vals {
		sum += v
	}
	return sum
}

func aggregateAvg(vals []int32) int32 {
	return aggregateSum(vals) / int32(len(vals))
}

func aggregateMin(vals []int32) int32 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func aggregateMax(vals []int32) int32 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// aggregateStdev computes the population standard deviation in
// double-precision, rounding the final result to the nearest integer
// with ties broken away from zero. The mean is the truncated integer
// average; the squared deviations, the variance and the square root are
// computed in float64, and only the rounded result is ever visible to a
// cell.
func aggregateStdev(vals []int32) int32 {
	count := int32(len(vals))
	mean := aggregateSum(vals) / count

	var sumSquares float64
	for _, v := range vals {
		d := float64(v) - float64(mean)
		sumSquares += d * d
	}
	variance := sumSquares / float64(count)
	return roundHalfAwayFromZero(math.Sqrt(variance))
}

func roundHalfAwayFromZero(x float64) int32 {
	if x >= 0 {
		return int32(math.Floor(x + 0.5))
	}
	return int32(math.Ceil(x - 0.5))
}
