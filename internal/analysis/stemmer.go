package analysis

import "github.com/kljensen/snowball/english"

// SnowballStemmer stems English tokens with the Snowball (Porter2)
// algorithm.
type SnowballStemmer struct{}

func (SnowballStemmer) Stem(token string) string {
	return english.Stem(token, true)
}
