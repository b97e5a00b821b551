// Package analysis turns raw document and query text into normalized token
// streams. It lower-cases input, strips everything that is not a letter,
// digit or whitespace, removes stop-words and optionally stems tokens.
package analysis

import (
	"strings"
	"unicode"
)

// Stemmer maps a token to its stem. Implementations must be deterministic
// and keep no state between calls.
type Stemmer interface {
	Stem(token string) string
}

// StemmerFunc adapts a plain function to the Stemmer interface.
type StemmerFunc func(token string) string

func (f StemmerFunc) Stem(token string) string { return f(token) }

// Stopwords is an exact-match set of lower-cased tokens. A nil or empty set
// removes nothing.
type Stopwords map[string]struct{}

// NewStopwords builds a set from words, lower-casing each entry.
func NewStopwords(words ...string) Stopwords {
	s := make(Stopwords, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		s[w] = struct{}{}
	}
	return s
}

func (s Stopwords) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Analyzer bundles the stop-word set and the optional stemmer applied to
// every document and query of one corpus.
type Analyzer struct {
	stopwords Stopwords
	stemmer   Stemmer
}

// New returns an Analyzer. A nil stemmer disables stemming.
func New(stopwords Stopwords, stemmer Stemmer) *Analyzer {
	return &Analyzer{stopwords: stopwords, stemmer: stemmer}
}

// Stemming reports whether tokens are passed through a stemmer.
func (a *Analyzer) Stemming() bool {
	return a.stemmer != nil
}

// Tokenize returns the surviving tokens of text in their original order.
// Duplicates are kept and no length filter is applied.
func (a *Analyzer) Tokenize(text string) []string {
	text = strings.ToLower(text)
	text = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)
	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if a.stopwords.Contains(word) {
			continue
		}
		if a.stemmer != nil {
			word = a.stemmer.Stem(word)
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// Normalize returns the token stream of text joined by single spaces.
func (a *Analyzer) Normalize(text string) string {
	return strings.Join(a.Tokenize(text), " ")
}

// TokenizeAll tokenizes each text, keeping positions aligned with the input.
func (a *Analyzer) TokenizeAll(texts []string) [][]string {
	out := make([][]string, len(texts))
	for i, text := range texts {
		out[i] = a.Tokenize(text)
	}
	return out
}
