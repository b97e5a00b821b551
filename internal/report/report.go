// Package report delivers ranked sweep results: a text or JSON listing for
// humans and scripts, a SQL table for later comparison across runs, and a
// Kafka topic for downstream consumers.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/sweep"
	apperrors "github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/resilience"
)

// Run is the sorted result of sweeping one corpus.
type Run struct {
	ID        string
	StartedAt time.Time
	Corpus    string
	Records   []sweep.Record
}

// Row is the flat, serialisable form of one ranked record.
type Row struct {
	RunID          string  `json:"run_id"`
	Corpus         string  `json:"corpus"`
	Rank           int     `json:"rank"`
	DocumentScheme string  `json:"document_scheme"`
	QueryScheme    string  `json:"query_scheme"`
	Stemming       bool    `json:"stemming"`
	MAP            float64 `json:"map"`
}

// Rows flattens run into ranked rows, rank 1 first.
func Rows(run Run) []Row {
	rows := make([]Row, len(run.Records))
	for i, r := range run.Records {
		rows[i] = Row{
			RunID:          run.ID,
			Corpus:         r.Corpus,
			Rank:           i + 1,
			DocumentScheme: r.Pair.Document.String(),
			QueryScheme:    r.Pair.Query.String(),
			Stemming:       r.Stemming,
			MAP:            r.Score,
		}
	}
	return rows
}

// Line formats one record as "CACM - ltc.nnn (stemming): MAP Score = 0.1234".
func Line(r sweep.Record) string {
	stemming := "no stemming"
	if r.Stemming {
		stemming = "stemming"
	}
	return fmt.Sprintf("%s - %s (%s): MAP Score = %.4f",
		strings.ToUpper(r.Corpus), r.Pair, stemming, r.Score)
}

// Sink receives every finished corpus run.
type Sink interface {
	Name() string
	Emit(ctx context.Context, run Run) error
}

// Writer lists a run as text lines or as one JSON document per corpus.
// Top > 0 limits the listing to the best Top records.
type Writer struct {
	w      io.Writer
	format string
	top    int
}

func NewWriter(w io.Writer, format string, top int) *Writer {
	return &Writer{w: w, format: format, top: top}
}

func (w *Writer) Name() string { return "writer" }

func (w *Writer) Emit(_ context.Context, run Run) error {
	records := run.Records
	if w.top > 0 && len(records) > w.top {
		records = records[:w.top]
	}
	var err error
	switch w.format {
	case "json":
		err = w.emitJSON(run, records)
	default:
		err = w.emitText(records)
	}
	if err != nil {
		// Local output does not recover by waiting.
		return resilience.Permanent(fmt.Errorf("writing %s report: %w", run.Corpus, err))
	}
	return nil
}

func (w *Writer) emitText(records []sweep.Record) error {
	if _, err := io.WriteString(w.w, "\nRanking of weighting schemes by MAP score:\n"); err != nil {
		return err
	}
	for _, r := range records {
		if _, err := io.WriteString(w.w, Line(r)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

type jsonReport struct {
	RunID          string    `json:"run_id"`
	Corpus         string    `json:"corpus"`
	StartedAt      time.Time `json:"started_at"`
	Configurations int       `json:"configurations"`
	Results        []Row     `json:"results"`
}

func (w *Writer) emitJSON(run Run, records []sweep.Record) error {
	limited := run
	limited.Records = records
	enc := json.NewEncoder(w.w)
	return enc.Encode(jsonReport{
		RunID:          run.ID,
		Corpus:         run.Corpus,
		StartedAt:      run.StartedAt,
		Configurations: len(run.Records),
		Results:        Rows(limited),
	})
}

// Deliverer fans a run out to every sink with retries.
type Deliverer struct {
	sinks   []Sink
	retry   resilience.RetryConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewDeliverer(sinks []Sink, retry resilience.RetryConfig, m *metrics.Metrics) *Deliverer {
	return &Deliverer{
		sinks:   sinks,
		retry:   retry,
		metrics: m,
		logger:  slog.Default().With("component", "report"),
	}
}

// Deliver emits run to every sink. A failing sink does not stop the others;
// all failures are returned together wrapped in ErrSinkUnavailable.
func (d *Deliverer) Deliver(ctx context.Context, run Run) error {
	var errs []error
	for _, sink := range d.sinks {
		err := resilience.Retry(ctx, "report."+sink.Name(), d.retry, func() error {
			return sink.Emit(ctx, run)
		})
		if err != nil {
			if d.metrics != nil {
				d.metrics.SinkErrorsTotal.WithLabelValues(sink.Name()).Inc()
			}
			d.logger.Error("report delivery failed", "sink", sink.Name(), "corpus", run.Corpus, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			continue
		}
		d.logger.Debug("report delivered", "sink", sink.Name(), "corpus", run.Corpus, "records", len(run.Records))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", apperrors.ErrSinkUnavailable, errors.Join(errs...))
	}
	return nil
}

// Close closes every sink that holds resources.
func (d *Deliverer) Close() error {
	var errs []error
	for _, sink := range d.sinks {
		if c, ok := sink.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing %s: %w", sink.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
