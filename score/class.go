package score

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-pick/dsp/core"
)

// Class is one output of the classifier. ID is the column index in the
// classifier's output and is stable for the lifetime of a ClassSet.
type Class struct {
	ID    int
	Label string
}

func (c Class) String() string { return c.Label }

// ClassSet is the closed, ordered set of classes a classifier emits.
type ClassSet struct {
	classes []Class
	byLabel map[string]int
}

// NewClassSet builds a set from labels in classifier column order.
// Labels must be unique and non-empty.
func NewClassSet(labels ...string) (ClassSet, error) {
	if len(labels) == 0 {
		return ClassSet{}, fmt.Errorf("%w: score: empty class set", core.ErrConfiguration)
	}
	s := ClassSet{
		classes: make([]Class, len(labels)),
		byLabel: make(map[string]int, len(labels)),
	}
	for i, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			return ClassSet{}, fmt.Errorf("%w: score: class %d has no label", core.ErrConfiguration, i)
		}
		if _, dup := s.byLabel[l]; dup {
			return ClassSet{}, fmt.Errorf("%w: score: duplicate class %q", core.ErrConfiguration, l)
		}
		s.classes[i] = Class{ID: i, Label: l}
		s.byLabel[l] = i
	}
	return s, nil
}

// Len returns the number of classes.
func (s ClassSet) Len() int { return len(s.classes) }

// Classes returns the classes in column order.
func (s ClassSet) Classes() []Class {
	return append([]Class(nil), s.classes...)
}

// Lookup returns the class with the given label.
func (s ClassSet) Lookup(label string) (Class, bool) {
	i, ok := s.byLabel[label]
	if !ok {
		return Class{}, false
	}
	return s.classes[i], true
}

// Others returns every class except target, in column order.
func (s ClassSet) Others(target Class) []Class {
	out := make([]Class, 0, len(s.classes))
	for _, c := range s.classes {
		if c.ID != target.ID {
			out = append(out, c)
		}
	}
	return out
}
