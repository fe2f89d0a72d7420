package peak

import (
	"math"
	"sort"
)

// Peak is a local maximum of a stream.
type Peak struct {
	Index  int
	Height float64
}

// FindOptions filter the local maxima reported by Find. Zero values
// disable the corresponding filter.
type FindOptions struct {
	MinHeight float64 // inclusive; ignored unless HasMinHeight
	MaxHeight float64 // inclusive; ignored unless HasMaxHeight
	Distance  int     // minimum index separation between kept peaks

	HasMinHeight bool
	HasMaxHeight bool
}

// Find returns the local maxima of x that satisfy opts, ordered by index.
// The first and last samples are never peaks.
func Find(x []float64, opts FindOptions) []Peak {
	peaks := localMaxima(x)

	if opts.HasMinHeight || opts.HasMaxHeight {
		kept := peaks[:0]
		for _, p := range peaks {
			if opts.HasMinHeight && p.Height < opts.MinHeight {
				continue
			}
			if opts.HasMaxHeight && p.Height > opts.MaxHeight {
				continue
			}
			kept = append(kept, p)
		}
		peaks = kept
	}

	if opts.Distance > 1 && len(peaks) > 1 {
		peaks = selectByDistance(peaks, opts.Distance)
	}
	return peaks
}

// localMaxima finds samples greater than their left neighbor and greater
// than the first differing sample to their right. Plateaus report their
// middle sample.
func localMaxima(x []float64) []Peak {
	var peaks []Peak
	last := len(x) - 1
	for i := 1; i < last; i++ {
		if !(x[i-1] < x[i]) || math.IsNaN(x[i]) {
			continue
		}
		ahead := i + 1
		for ahead < last && x[ahead] == x[i] {
			ahead++
		}
		if x[ahead] < x[i] {
			mid := (i + ahead - 1) / 2
			peaks = append(peaks, Peak{Index: mid, Height: x[mid]})
			i = ahead
		}
	}
	return peaks
}

// selectByDistance removes peaks closer than distance to a peak of higher
// priority. Priority is height, then later index, so of two equal peaks
// the later one survives.
func selectByDistance(peaks []Peak, distance int) []Peak {
	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		pa, pb := peaks[order[a]], peaks[order[b]]
		if pa.Height != pb.Height {
			return pa.Height > pb.Height
		}
		return pa.Index > pb.Index
	})

	keep := make([]bool, len(peaks))
	for i := range keep {
		keep[i] = true
	}
	for _, j := range order {
		if !keep[j] {
			continue
		}
		for k := j - 1; k >= 0 && peaks[j].Index-peaks[k].Index < distance; k-- {
			keep[k] = false
		}
		for k := j + 1; k < len(peaks) && peaks[k].Index-peaks[j].Index < distance; k++ {
			keep[k] = false
		}
	}

	out := peaks[:0]
	for i, p := range peaks {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}
