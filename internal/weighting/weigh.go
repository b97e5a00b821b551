package weighting

import "math"

// Options adjusts method semantics that differ between historical results
// and textbook SMART notation.
type Options struct {
	// TrueAugmentedTF makes tf method "a" compute 0.5 + 0.5*count/max_count.
	// When false "a" leaves counts unchanged, matching previously reported
	// scores.
	TrueAugmentedTF bool
}

// Weigh applies scheme s to one bag of counts. The idf multiplier always
// comes from the document collection c, for queries as well as documents.
// The result is a fresh vector; counts and c are not modified.
func Weigh(counts Counts, c *Collection, s Scheme, opts Options) Vector {
	if len(counts) == 0 {
		return nil
	}
	var maxCount int
	if s.TF == TFAugmented && opts.TrueAugmentedTF {
		for _, tc := range counts {
			maxCount = max(maxCount, tc.Count)
		}
	}
	v := make(Vector, 0, len(counts))
	for _, tc := range counts {
		w := termFrequency(s.TF, tc.Count, maxCount, opts)
		if s.IDF == IDFLog {
			w *= c.IDF(tc.ID)
		}
		if w == 0 {
			continue
		}
		v = append(v, Entry{ID: tc.ID, Weight: w})
	}
	if s.Norm == NormCosine {
		normalize(v)
	}
	return v
}

// WeighAll weighs every bag in lists with the same scheme.
func WeighAll(lists []Counts, c *Collection, s Scheme, opts Options) []Vector {
	out := make([]Vector, len(lists))
	for i, counts := range lists {
		out[i] = Weigh(counts, c, s, opts)
	}
	return out
}

func termFrequency(m TFMethod, count, maxCount int, opts Options) float64 {
	if count <= 0 {
		return 0
	}
	switch m {
	case TFLog:
		return 1 + math.Log(float64(count))
	case TFBinary:
		return 1
	case TFAugmented:
		if opts.TrueAugmentedTF && maxCount > 0 {
			return 0.5 + 0.5*float64(count)/float64(maxCount)
		}
		return float64(count)
	default:
		return float64(count)
	}
}

// normalize scales v in place to unit length. A zero vector is left as is.
func normalize(v Vector) {
	norm := v.Norm()
	if norm == 0 {
		return
	}
	for i := range v {
		v[i].Weight /= norm
	}
}
