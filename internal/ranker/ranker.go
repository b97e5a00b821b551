// Package ranker scores every query vector against every document vector
// and orders documents by descending similarity.
package ranker

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/weighting"
)

// Matrix is a dense similarity matrix: Matrix[q][d] is the similarity of
// query position q to document position d (both 0-based).
type Matrix [][]float64

// Similarities computes the inner product of each query with each document.
// Cosine-normalized schemes make this the cosine similarity; otherwise it is
// the raw dot product. A zero vector scores 0 against everything.
func Similarities(queries, docs []weighting.Vector) Matrix {
	m := make(Matrix, len(queries))
	for qi, q := range queries {
		row := make([]float64, len(docs))
		if len(q) > 0 {
			for di, d := range docs {
				row[di] = weighting.Dot(q, d)
			}
		}
		m[qi] = row
	}
	return m
}

// ScoredDoc is a document position with its similarity to one query.
type ScoredDoc struct {
	Doc   int     `json:"doc"`
	Score float64 `json:"score"`
}

// Rank orders the document positions of one similarity row by descending
// score. Equal scores keep ascending document position.
func Rank(scores []float64) []ScoredDoc {
	result := make([]ScoredDoc, len(scores))
	for i, s := range scores {
		result[i] = ScoredDoc{Doc: i, Score: s}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	return result
}

// Top returns at most limit ranked documents of one similarity row.
func Top(scores []float64, limit int) []ScoredDoc {
	ranked := Rank(scores)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
