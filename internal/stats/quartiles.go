// Package stats holds the aggregate math the dashboard's salary view is
// built on.
package stats

import "errors"

var ErrEmpty = errors.New("stats: empty sequence")

// Quartiles summarizes a sorted salary distribution. Fences are the usual
// 1.5*IQR Tukey bounds.
type Quartiles struct {
	LowerFence float64 `json:"lower_fence"`
	First      float64 `json:"first"`
	Median     float64 `json:"median"`
	Third      float64 `json:"third"`
	UpperFence float64 `json:"upper_fence"`
}

// Calculate computes quartiles over seq, which must be sorted ascending and
// non-empty.
func Calculate(seq []uint64) (Quartiles, error) {
	n := len(seq)
	if n == 0 {
		return Quartiles{}, ErrEmpty
	}

	even := n%2 == 0
	mi := medianIndex(n, even)

	var left []uint64
	if even {
		left = seq[:mi+1]
	} else {
		left = seq[:mi]
	}
	right := seq[mi+1:]

	first, err := median(left)
	if err != nil {
		return Quartiles{}, err
	}
	third, err := median(right)
	if err != nil {
		return Quartiles{}, err
	}
	med, err := median(seq)
	if err != nil {
		return Quartiles{}, err
	}

	iqr := third - first

	return Quartiles{
		LowerFence: first - iqr*1.5,
		First:      first,
		Median:     med,
		Third:      third,
		UpperFence: third + iqr*1.5,
	}, nil
}

func median(seq []uint64) (float64, error) {
	n := len(seq)
	if n == 0 {
		return 0, ErrEmpty
	}
	if n == 1 {
		return float64(seq[0]), nil
	}

	even := n%2 == 0
	mi := medianIndex(n, even)

	if even {
		return (float64(seq[mi]) + float64(seq[mi+1])) / 2, nil
	}
	return float64(seq[mi]), nil
}

func medianIndex(n int, even bool) int {
	if n <= 1 {
		return 0
	}
	if even {
		return n/2 - 1
	}
	return (n+1)/2 - 1
}
