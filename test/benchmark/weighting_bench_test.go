package benchmark

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/ranker"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/weighting"
)

// syntheticDocs builds n token lists over a vocabulary of vocab words with a
// skewed frequency distribution. The seed is fixed so runs are comparable.
func syntheticDocs(n, length, vocab int) [][]string {
	rng := rand.New(rand.NewSource(42))
	zipf := rand.NewZipf(rng, 1.2, 1, uint64(vocab-1))
	docs := make([][]string, n)
	for i := range docs {
		doc := make([]string, length)
		for j := range doc {
			doc[j] = fmt.Sprintf("t%d", zipf.Uint64())
		}
		docs[i] = doc
	}
	return docs
}

// BenchmarkNewCollection measures vocabulary and document-frequency builds
// for collections of increasing size.
func BenchmarkNewCollection(b *testing.B) {
	for _, n := range []int{100, 1000, 3000} {
		docs := syntheticDocs(n, 120, 8000)
		b.Run(fmt.Sprintf("docs_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				c := weighting.NewCollection(docs)
				_ = c
			}
		})
	}
}

// BenchmarkWeighAll measures weighting one collection with a few
// representative schemes.
func BenchmarkWeighAll(b *testing.B) {
	c := weighting.NewCollection(syntheticDocs(1000, 120, 8000))
	for _, code := range []string{"nnn", "ltc", "atc", "bnn"} {
		s := weighting.MustParseScheme(code)
		b.Run(code, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				vs := weighting.WeighAll(c.Documents(), c, s, weighting.Options{})
				_ = vs
			}
		})
	}
}

// BenchmarkSimilarities measures the dense query × document similarity
// matrix.
func BenchmarkSimilarities(b *testing.B) {
	docs := syntheticDocs(1000, 120, 8000)
	c := weighting.NewCollection(docs)
	queries := make([][]string, 50)
	for i := range queries {
		queries[i] = strings.Fields(fmt.Sprintf("t%d t%d t%d t%d", i, i*3, i*7, i*11))
	}
	s := weighting.MustParseScheme("ltc")
	dv := weighting.WeighAll(c.Documents(), c, s, weighting.Options{})
	qv := weighting.WeighAll(c.CountAll(queries), c, s, weighting.Options{})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := ranker.Similarities(qv, dv)
		_ = m
	}
}
