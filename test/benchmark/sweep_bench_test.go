package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/analysis"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/evaluation"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/sweep"
)

func benchCorpus(nDocs, nQueries int) *corpus.Corpus {
	raw := syntheticDocs(nDocs, 80, 4000)
	docs := make([]string, nDocs)
	for i, d := range raw {
		docs[i] = strings.Join(d, " ")
	}
	queries := make([]string, nQueries)
	j := evaluation.Judgments{}
	for q := range queries {
		queries[q] = strings.Join(raw[(q*7)%nDocs][:10], " ")
		j.Add(q+1, (q*7)%nDocs+1)
		j.Add(q+1, (q*13)%nDocs+1)
	}
	return &corpus.Corpus{
		Name:      "synthetic",
		Documents: docs,
		Queries:   queries,
		Judgments: j,
		Stopwords: analysis.Stopwords{},
	}
}

// BenchmarkSweepCorpus measures a full 512-configuration sweep at several
// worker counts.
func BenchmarkSweepCorpus(b *testing.B) {
	c := benchCorpus(300, 20)
	for _, workers := range []int{1, 4, 8} {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				d := sweep.New(sweep.Options{Workers: workers})
				records, err := d.RunCorpus(context.Background(), c)
				if err != nil {
					b.Fatal(err)
				}
				_ = records
			}
		})
	}
}
