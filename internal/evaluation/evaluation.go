// Package evaluation scores rankings against relevance judgments with
// (mean) average precision.
package evaluation

import (
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/errors"
)

// AveragePrecision walks the ranking of one similarity row and averages
// precision at every relevant rank over the size of relevant. Document
// positions in relevant are 1-based. An empty relevant set yields 0.
func AveragePrecision(scores []float64, relevant map[int]struct{}) float64 {
	if len(relevant) == 0 {
		return 0
	}
	var hits int
	var sum float64
	for rank, doc := range ranker.Rank(scores) {
		if _, ok := relevant[doc.Doc+1]; !ok {
			continue
		}
		hits++
		sum += float64(hits) / float64(rank+1)
		if hits == len(relevant) {
			break
		}
	}
	return sum / float64(len(relevant))
}

// Result is the outcome of evaluating one similarity matrix.
type Result struct {
	MAP float64
	// PerQuery holds the average precision of every evaluated query,
	// keyed by 1-based query position.
	PerQuery map[int]float64
}

// Evaluate computes average precision for every query row of m that has
// relevant documents and their mean. Queries without judgments are skipped
// rather than counted as zero. If no query can be evaluated the result is
// undefined and ErrUndefinedMAP is returned.
func Evaluate(m ranker.Matrix, j Judgments) (Result, error) {
	res := Result{PerQuery: make(map[int]float64)}
	var sum float64
	for qi, row := range m {
		q := qi + 1
		relevant := j.Relevant(q)
		if len(relevant) == 0 {
			continue
		}
		ap := AveragePrecision(row, relevant)
		res.PerQuery[q] = ap
		sum += ap
	}
	if len(res.PerQuery) == 0 {
		return Result{}, apperrors.Newf(apperrors.ErrUndefinedMAP, "%d queries, none with relevance judgments", len(m))
	}
	res.MAP = sum / float64(len(res.PerQuery))
	return res, nil
}

// MeanAveragePrecision is Evaluate without the per-query breakdown.
func MeanAveragePrecision(m ranker.Matrix, j Judgments) (float64, error) {
	res, err := Evaluate(m, j)
	if err != nil {
		return 0, err
	}
	return res.MAP, nil
}
