package sweep

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/weighting"
)

// Record is the MAP score of one (corpus, scheme pair, stemming) configuration.
type Record struct {
	Corpus   string
	Pair     weighting.Pair
	Stemming bool
	Score    float64
}

// Sort orders records by descending score. Ties keep their current order,
// which for a fresh sweep is generation order.
func Sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
}
