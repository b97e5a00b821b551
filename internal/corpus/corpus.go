// Package corpus supplies benchmark test collections to the sweep: parsed
// documents, queries, relevance judgments and stop-words. Each on-disk
// markup is handled by a Format; everything downstream only sees Corpus.
package corpus

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/analysis"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/evaluation"
	apperrors "github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/errors"
)

// Corpus is one parsed test collection. Document and query positions are
// 1-based in Judgments and 0-based in the slices.
type Corpus struct {
	Name      string
	Documents []string
	Queries   []string
	Judgments evaluation.Judgments
	Stopwords analysis.Stopwords
}

// Adapter produces a Corpus from some source.
type Adapter interface {
	Name() string
	Load() (*Corpus, error)
}

// Validate rejects corpora that cannot be evaluated at all. A query with no
// relevant documents is fine; a corpus where no query in range has any is
// treated as a failed load.
func (c *Corpus) Validate() error {
	if len(c.Documents) == 0 {
		return apperrors.Newf(apperrors.ErrCorpusLoad, "corpus %s has no documents", c.Name)
	}
	if len(c.Queries) == 0 {
		return apperrors.Newf(apperrors.ErrCorpusLoad, "corpus %s has no queries", c.Name)
	}
	for _, q := range c.Judgments.Queries() {
		if q >= 1 && q <= len(c.Queries) {
			return nil
		}
	}
	return apperrors.Newf(apperrors.ErrCorpusLoad,
		"corpus %s has no relevance judgments for any of its %d queries", c.Name, len(c.Queries))
}

// OutOfRange counts judgments that reference a query or document position
// the corpus does not have.
func (c *Corpus) OutOfRange() int {
	var n int
	for q, docs := range c.Judgments {
		if q < 1 || q > len(c.Queries) {
			n += len(docs)
			continue
		}
		for d := range docs {
			if d < 1 || d > len(c.Documents) {
				n++
			}
		}
	}
	return n
}

// Fingerprint is a content hash over everything that influences scores.
// Two corpora with the same fingerprint evaluate identically.
func (c *Corpus) Fingerprint() string {
	h := sha256.New()
	writeString := func(s string) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}
	writeInt := func(v int) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(v))
		h.Write(n[:])
	}
	writeInt(len(c.Documents))
	for _, d := range c.Documents {
		writeString(d)
	}
	writeInt(len(c.Queries))
	for _, q := range c.Queries {
		writeString(q)
	}
	queries := make([]int, 0, len(c.Judgments))
	for q := range c.Judgments {
		queries = append(queries, q)
	}
	sort.Ints(queries)
	for _, q := range queries {
		docs := make([]int, 0, len(c.Judgments[q]))
		for d := range c.Judgments[q] {
			docs = append(docs, d)
		}
		sort.Ints(docs)
		writeInt(q)
		writeInt(len(docs))
		for _, d := range docs {
			writeInt(d)
		}
	}
	words := make([]string, 0, len(c.Stopwords))
	for w := range c.Stopwords {
		words = append(words, w)
	}
	sort.Strings(words)
	writeInt(len(words))
	for _, w := range words {
		writeString(w)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Static wraps an in-memory corpus as an Adapter.
type Static struct {
	Corpus *Corpus
}

func (s Static) Name() string { return s.Corpus.Name }

func (s Static) Load() (*Corpus, error) {
	if s.Corpus.Judgments == nil {
		s.Corpus.Judgments = evaluation.Judgments{}
	}
	if err := s.Corpus.Validate(); err != nil {
		return nil, err
	}
	return s.Corpus, nil
}
