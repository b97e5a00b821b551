package weighting

import (
	"math"
	"sort"
)

// TermCount is the raw frequency of one vocabulary coordinate.
type TermCount struct {
	ID    int
	Count int
}

// Counts is a bag of words over vocabulary coordinates, sorted by ID.
type Counts []TermCount

// Collection holds the statistics derived once from a tokenized document
// collection: the vocabulary, document frequencies, the collection size and
// the raw counts of every document. It is never modified after
// NewCollection returns and is safe for concurrent use.
type Collection struct {
	terms  []string
	ids    map[string]int
	df     []int
	idf    []float64
	docs   []Counts
	tokens int64
}

// NewCollection builds the vocabulary from documents. Coordinates are
// assigned in order of first appearance, so the same input always yields
// the same layout.
func NewCollection(documents [][]string) *Collection {
	c := &Collection{
		ids:  make(map[string]int),
		docs: make([]Counts, len(documents)),
	}
	for i, tokens := range documents {
		for _, tok := range tokens {
			if _, ok := c.ids[tok]; !ok {
				c.ids[tok] = len(c.terms)
				c.terms = append(c.terms, tok)
			}
		}
		c.docs[i] = c.Count(tokens)
		c.tokens += int64(len(tokens))
	}
	c.df = make([]int, len(c.terms))
	for _, counts := range c.docs {
		for _, tc := range counts {
			c.df[tc.ID]++
		}
	}
	n := float64(len(documents))
	c.idf = make([]float64, len(c.terms))
	for id, df := range c.df {
		c.idf[id] = math.Log(n / float64(df))
	}
	return c
}

// Count maps tokens to vocabulary coordinates and tallies them. Tokens
// outside the vocabulary are dropped.
func (c *Collection) Count(tokens []string) Counts {
	if len(tokens) == 0 {
		return nil
	}
	tally := make(map[int]int, len(tokens))
	for _, tok := range tokens {
		if id, ok := c.ids[tok]; ok {
			tally[id]++
		}
	}
	counts := make(Counts, 0, len(tally))
	for id, n := range tally {
		counts = append(counts, TermCount{ID: id, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].ID < counts[j].ID
	})
	return counts
}

// CountAll applies Count to each token list, keeping positions aligned.
func (c *Collection) CountAll(lists [][]string) []Counts {
	out := make([]Counts, len(lists))
	for i, tokens := range lists {
		out[i] = c.Count(tokens)
	}
	return out
}

// N is the number of documents in the collection.
func (c *Collection) N() int { return len(c.docs) }

// Size is the number of vocabulary terms.
func (c *Collection) Size() int { return len(c.terms) }

// TotalTokens is the number of in-vocabulary tokens across all documents.
func (c *Collection) TotalTokens() int64 { return c.tokens }

// Term returns the token at coordinate id.
func (c *Collection) Term(id int) string { return c.terms[id] }

// ID returns the coordinate of term, if it is in the vocabulary.
func (c *Collection) ID(term string) (int, bool) {
	id, ok := c.ids[term]
	return id, ok
}

// DocFreq returns the number of documents containing coordinate id.
func (c *Collection) DocFreq(id int) int { return c.df[id] }

// IDF returns ln(N/df) for coordinate id.
func (c *Collection) IDF(id int) float64 { return c.idf[id] }

// Documents returns the raw counts of every document, by position. The
// slice is shared and must not be modified.
func (c *Collection) Documents() []Counts { return c.docs }
