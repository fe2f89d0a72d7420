package score

import "fmt"

// Stream is the score sequence of one class, either at window resolution
// (one value per window) or restored to sample resolution.
type Stream struct {
	Class  Class
	Values []float64
}

// Len returns the number of values.
func (s Stream) Len() int { return len(s.Values) }

// Streams splits m into one window-rate Stream per class of set.
func Streams(m Matrix, set ClassSet) ([]Stream, error) {
	out := make([]Stream, set.Len())
	for _, c := range set.classes {
		out[c.ID] = Stream{Class: c, Values: make([]float64, len(m))}
	}
	for w, row := range m {
		if len(row) != set.Len() {
			return nil, &ContractError{Offset: w, Row: -1,
				Reason: fmt.Sprintf("row has %d classes, want %d", len(row), set.Len())}
		}
		for c, v := range row {
			out[c].Values[w] = v
		}
	}
	return out, nil
}
