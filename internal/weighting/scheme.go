// Package weighting implements SMART-style term weighting: a closed set of
// term-frequency, inverse-document-frequency and normalization methods
// applied to raw term counts over a document-derived vocabulary.
package weighting

import (
	apperrors "github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/errors"
)

// TFMethod selects the term-frequency transform.
type TFMethod byte

const (
	TFNatural   TFMethod = 'n'
	TFLog       TFMethod = 'l'
	TFAugmented TFMethod = 'a'
	TFBinary    TFMethod = 'b'
)

// IDFMethod selects the inverse-document-frequency multiplier.
type IDFMethod byte

const (
	IDFNone IDFMethod = 'n'
	IDFLog  IDFMethod = 't'
)

// NormMethod selects vector normalization.
type NormMethod byte

const (
	NormNone   NormMethod = 'n'
	NormCosine NormMethod = 'c'
)

var (
	TFMethods   = []TFMethod{TFNatural, TFLog, TFAugmented, TFBinary}
	IDFMethods  = []IDFMethod{IDFNone, IDFLog}
	NormMethods = []NormMethod{NormNone, NormCosine}
)

// Scheme is one side's (tf, idf, norm) triple, written in SMART notation
// such as "ltc".
type Scheme struct {
	TF   TFMethod
	IDF  IDFMethod
	Norm NormMethod
}

// NewScheme validates each method and returns the triple.
func NewScheme(tf TFMethod, idf IDFMethod, norm NormMethod) (Scheme, error) {
	switch tf {
	case TFNatural, TFLog, TFAugmented, TFBinary:
	default:
		return Scheme{}, apperrors.Newf(apperrors.ErrInvalidScheme, "unknown tf method %q", rune(tf))
	}
	switch idf {
	case IDFNone, IDFLog:
	default:
		return Scheme{}, apperrors.Newf(apperrors.ErrInvalidScheme, "unknown idf method %q", rune(idf))
	}
	switch norm {
	case NormNone, NormCosine:
	default:
		return Scheme{}, apperrors.Newf(apperrors.ErrInvalidScheme, "unknown normalization %q", rune(norm))
	}
	return Scheme{TF: tf, IDF: idf, Norm: norm}, nil
}

// ParseScheme parses a three-letter SMART code such as "ntc".
func ParseScheme(code string) (Scheme, error) {
	if len(code) != 3 {
		return Scheme{}, apperrors.Newf(apperrors.ErrInvalidScheme, "scheme %q must have exactly three letters", code)
	}
	return NewScheme(TFMethod(code[0]), IDFMethod(code[1]), NormMethod(code[2]))
}

// MustParseScheme is ParseScheme for compile-time constants.
func MustParseScheme(code string) Scheme {
	s, err := ParseScheme(code)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Scheme) String() string {
	return string([]byte{byte(s.TF), byte(s.IDF), byte(s.Norm)})
}

func (s Scheme) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Scheme) UnmarshalText(text []byte) error {
	parsed, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AllSchemes enumerates every per-side scheme, tf-major, then idf, then
// normalization.
func AllSchemes() []Scheme {
	schemes := make([]Scheme, 0, len(TFMethods)*len(IDFMethods)*len(NormMethods))
	for _, tf := range TFMethods {
		for _, idf := range IDFMethods {
			for _, norm := range NormMethods {
				schemes = append(schemes, Scheme{TF: tf, IDF: idf, Norm: norm})
			}
		}
	}
	return schemes
}

// Pair couples the document-side and query-side schemes of one evaluation.
type Pair struct {
	Document Scheme `json:"document"`
	Query    Scheme `json:"query"`
}

// String renders the pair as "ddd.qqq".
func (p Pair) String() string {
	return p.Document.String() + "." + p.Query.String()
}

// AllPairs enumerates the document × query scheme product with the document
// scheme varying slowest.
func AllPairs() []Pair {
	schemes := AllSchemes()
	pairs := make([]Pair, 0, len(schemes)*len(schemes))
	for _, d := range schemes {
		for _, q := range schemes {
			pairs = append(pairs, Pair{Document: d, Query: q})
		}
	}
	return pairs
}
