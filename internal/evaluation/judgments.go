package evaluation

import "sort"

// Judgments maps a 1-based query position to the set of 1-based document
// positions judged relevant. It is built once per corpus and only read
// afterwards.
type Judgments map[int]map[int]struct{}

// Add records document doc as relevant to query q.
func (j Judgments) Add(q, doc int) {
	docs, ok := j[q]
	if !ok {
		docs = make(map[int]struct{})
		j[q] = docs
	}
	docs[doc] = struct{}{}
}

// Relevant returns the relevant set for query q, possibly empty.
func (j Judgments) Relevant(q int) map[int]struct{} {
	return j[q]
}

// IsRelevant reports whether doc is judged relevant to q.
func (j Judgments) IsRelevant(q, doc int) bool {
	_, ok := j[q][doc]
	return ok
}

// Queries returns the positions of queries with at least one relevant
// document, ascending.
func (j Judgments) Queries() []int {
	qs := make([]int, 0, len(j))
	for q, docs := range j {
		if len(docs) > 0 {
			qs = append(qs, q)
		}
	}
	sort.Ints(qs)
	return qs
}

// Pairs counts (query, relevant document) pairs.
func (j Judgments) Pairs() int {
	var n int
	for _, docs := range j {
		n += len(docs)
	}
	return n
}
