package weighting

import (
	"math"
	"sort"
)

// Entry is one non-zero coordinate of a sparse vector.
type Entry struct {
	ID     int
	Weight float64
}

// Vector is a sparse weight vector over vocabulary coordinates, always
// sorted by ID for merge-join operations.
type Vector []Entry

// NewVector builds a sorted Vector from a coordinate→weight map, dropping
// zero weights.
func NewVector(weights map[int]float64) Vector {
	if len(weights) == 0 {
		return nil
	}
	v := make(Vector, 0, len(weights))
	for id, w := range weights {
		if w == 0 {
			continue
		}
		v = append(v, Entry{ID: id, Weight: w})
	}
	sort.Slice(v, func(i, j int) bool {
		return v[i].ID < v[j].ID
	})
	return v
}

// Get returns the weight at coordinate id, or 0 when absent.
func (v Vector) Get(id int) float64 {
	i := sort.Search(len(v), func(i int) bool { return v[i].ID >= id })
	if i < len(v) && v[i].ID == id {
		return v[i].Weight
	}
	return 0
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, e := range v {
		sum += e.Weight * e.Weight
	}
	return math.Sqrt(sum)
}

// Dot computes the inner product of two sorted sparse vectors with a
// merge-join. Either vector being empty yields 0.
func Dot(a, b Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].ID == b[j].ID:
			dot += a[i].Weight * b[j].Weight
			i++
			j++
		case a[i].ID < b[j].ID:
			i++
		default:
			j++
		}
	}
	return dot
}
