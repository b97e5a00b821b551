// Package sweep evaluates every document/query weighting-scheme pair under
// every stemming setting for a corpus and ranks the configurations by MAP.
//
// Vocabulary and document-frequency statistics are built once per
// (corpus, stemming) setting and shared read-only by all scheme evaluations
// of that setting. Evaluations run on a bounded worker pool; each worker
// holds at most one set of document and query vectors at a time.
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/analysis"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/evaluation"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/ranker"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/weighting"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/tracing"
)

// Options configures a Driver. Zero values select the defaults: one worker
// per CPU, stemming off then on, Snowball stemming, no cache, no metrics.
type Options struct {
	Workers   int
	Stemming  []bool
	Weighting weighting.Options
	Stemmer   analysis.Stemmer
	Cache     ScoreCache
	Metrics   *metrics.Metrics
}

// Prepared is the read-only input shared by every scheme evaluation of one
// (corpus, stemming) setting.
type Prepared struct {
	Collection *weighting.Collection
	Queries    []weighting.Counts
}

// Prepare tokenizes c with a, builds the document vocabulary and counts the
// queries against it.
func Prepare(c *corpus.Corpus, a *analysis.Analyzer) *Prepared {
	coll := weighting.NewCollection(a.TokenizeAll(c.Documents))
	return &Prepared{
		Collection: coll,
		Queries:    coll.CountAll(a.TokenizeAll(c.Queries)),
	}
}

// Score weighs documents and queries with pair, ranks and returns the MAP.
func Score(p *Prepared, pair weighting.Pair, j evaluation.Judgments, opts weighting.Options) (float64, error) {
	docs := weighting.WeighAll(p.Collection.Documents(), p.Collection, pair.Document, opts)
	queries := weighting.WeighAll(p.Queries, p.Collection, pair.Query, opts)
	return evaluation.MeanAveragePrecision(ranker.Similarities(queries, docs), j)
}

// Driver runs sweeps. It is safe for concurrent use.
type Driver struct {
	opts  Options
	group singleflight.Group
	mu    sync.Mutex
	built map[string]*Prepared
}

func New(opts Options) *Driver {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	opts.Stemming = uniqueSettings(opts.Stemming)
	if opts.Stemmer == nil {
		opts.Stemmer = analysis.SnowballStemmer{}
	}
	return &Driver{
		opts:  opts,
		built: make(map[string]*Prepared),
	}
}

// Configurations is the number of records one corpus produces.
func (d *Driver) Configurations() int {
	return len(d.opts.Stemming) * len(weighting.AllPairs())
}

// Run sweeps each corpus in turn. The result holds one entry per corpus in
// input order, each sorted by descending score.
func (d *Driver) Run(ctx context.Context, corpora []*corpus.Corpus) ([][]Record, error) {
	out := make([][]Record, 0, len(corpora))
	for _, c := range corpora {
		records, err := d.RunCorpus(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, records)
	}
	return out, nil
}

// RunCorpus evaluates every scheme pair under every stemming setting for c
// and returns the records sorted by descending score. Records with equal
// scores keep generation order: stemming settings in configured order, then
// weighting.AllPairs order.
func (d *Driver) RunCorpus(ctx context.Context, c *corpus.Corpus) ([]Record, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ctx, span := tracing.StartSpan(ctx, "corpus", logger.RunID(ctx))
	span.SetAttr("corpus", c.Name)
	defer span.End()

	log := logger.FromContext(ctx).With("component", "sweep", "corpus", c.Name)
	start := time.Now()
	fingerprint := c.Fingerprint()
	defer d.release(fingerprint)

	pairs := weighting.AllPairs()
	records := make([]Record, len(d.opts.Stemming)*len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)
	for si, stemming := range d.opts.Stemming {
		for pi, pair := range pairs {
			stemming, pair := stemming, pair
			idx := si*len(pairs) + pi
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				score, err := d.score(gctx, c, fingerprint, pair, stemming)
				if err != nil {
					return err
				}
				records[idx] = Record{
					Corpus:   c.Name,
					Pair:     pair,
					Stemming: stemming,
					Score:    score,
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sweeping corpus %s: %w", c.Name, err)
	}

	Sort(records)
	best := records[0]
	if d.opts.Metrics != nil {
		d.opts.Metrics.BestMAP.WithLabelValues(c.Name).Set(best.Score)
	}
	span.SetAttr("configurations", len(records))
	log.Info("corpus swept",
		"configurations", len(records),
		"best_pair", best.Pair.String(),
		"best_stemming", best.Stemming,
		"best_map", best.Score,
		"duration", time.Since(start),
	)
	return records, nil
}

// prepare returns the shared statistics for (c, stemming), building them at
// most once even when many workers ask at the same time.
func (d *Driver) prepare(ctx context.Context, c *corpus.Corpus, fingerprint string, stemming bool) (*Prepared, error) {
	key := fingerprint + ":" + strconv.FormatBool(stemming)
	d.mu.Lock()
	p, ok := d.built[key]
	d.mu.Unlock()
	if ok {
		return p, nil
	}

	val, err, _ := d.group.Do(key, func() (any, error) {
		d.mu.Lock()
		p, ok := d.built[key]
		d.mu.Unlock()
		if ok {
			return p, nil
		}

		_, span := tracing.StartSpan(ctx, "collection", "")
		defer span.End()
		var stemmer analysis.Stemmer
		if stemming {
			stemmer = d.opts.Stemmer
		}
		p = Prepare(c, analysis.New(c.Stopwords, stemmer))
		span.SetAttr("stemming", stemming)
		span.SetAttr("vocabulary", p.Collection.Size())

		d.mu.Lock()
		d.built[key] = p
		d.mu.Unlock()
		if d.opts.Metrics != nil {
			d.opts.Metrics.ObserveCollection(c.Name, stemming, p.Collection.Size())
		}
		logger.FromContext(ctx).Debug("collection built",
			"component", "sweep",
			"corpus", c.Name,
			"stemming", stemming,
			"vocabulary", p.Collection.Size(),
			"tokens", p.Collection.TotalTokens(),
		)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*Prepared), nil
}

func (d *Driver) release(fingerprint string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, stemming := range d.opts.Stemming {
		delete(d.built, fingerprint+":"+strconv.FormatBool(stemming))
	}
}

// score answers from the cache when it can and only then builds the shared
// statistics and evaluates.
func (d *Driver) score(ctx context.Context, c *corpus.Corpus, fingerprint string, pair weighting.Pair, stemming bool) (float64, error) {
	m := d.opts.Metrics
	key := CacheKey(fingerprint, pair, stemming, d.opts.Weighting)
	if d.opts.Cache != nil {
		if score, ok := d.opts.Cache.Get(ctx, key); ok {
			if m != nil {
				m.ScoreCacheHitsTotal.Inc()
			}
			return score, nil
		}
		if m != nil {
			m.ScoreCacheMissesTotal.Inc()
		}
	}

	p, err := d.prepare(ctx, c, fingerprint, stemming)
	if err != nil {
		return 0, err
	}
	if m != nil {
		m.EvaluationsInFlight.Inc()
		defer m.EvaluationsInFlight.Dec()
	}
	start := time.Now()
	score, err := Score(p, pair, c.Judgments, d.opts.Weighting)
	if err != nil {
		return 0, fmt.Errorf("%s stemming=%t: %w", pair, stemming, err)
	}
	if m != nil {
		m.ObserveEvaluation(c.Name, stemming, time.Since(start), score)
	}
	if d.opts.Cache != nil {
		d.opts.Cache.Set(ctx, key, score)
	}
	return score, nil
}

func uniqueSettings(settings []bool) []bool {
	if len(settings) == 0 {
		return []bool{false, true}
	}
	var seen [2]bool
	out := make([]bool, 0, 2)
	for _, s := range settings {
		i := 0
		if s {
			i = 1
		}
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, s)
	}
	return out
}
