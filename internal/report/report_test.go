package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/sweep"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/weighting"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/database"
	apperrors "github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/resilience"
)

func pair(doc, query string) weighting.Pair {
	return weighting.Pair{
		Document: weighting.MustParseScheme(doc),
		Query:    weighting.MustParseScheme(query),
	}
}

func sampleRun() Run {
	return Run{
		ID:        "run-1",
		StartedAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
		Corpus:    "cacm",
		Records: []sweep.Record{
			{Corpus: "cacm", Pair: pair("ltc", "nnc"), Stemming: true, Score: 0.34567},
			{Corpus: "cacm", Pair: pair("nnc", "btn"), Stemming: false, Score: 0.3},
			{Corpus: "cacm", Pair: pair("nnn", "nnn"), Stemming: false, Score: 0.01},
		},
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		record sweep.Record
		want   string
	}{
		{
			sweep.Record{Corpus: "cacm", Pair: pair("ltc", "nnc"), Stemming: true, Score: 0.34567},
			"CACM - ltc.nnc (stemming): MAP Score = 0.3457",
		},
		{
			sweep.Record{Corpus: "time", Pair: pair("ann", "bnc"), Stemming: false, Score: 0},
			"TIME - ann.bnc (no stemming): MAP Score = 0.0000",
		},
	}
	for _, tt := range tests {
		if got := Line(tt.record); got != tt.want {
			t.Errorf("Line = %q, want %q", got, tt.want)
		}
	}
}

func TestWriterTextTop(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf, "text", 2).Emit(context.Background(), sampleRun()); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	want := "\nRanking of weighting schemes by MAP score:\n" +
		"CACM - ltc.nnc (stemming): MAP Score = 0.3457\n" +
		"CACM - nnc.btn (no stemming): MAP Score = 0.3000\n"
	if buf.String() != want {
		t.Errorf("text report =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf, "json", 0).Emit(context.Background(), sampleRun()); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	var got jsonReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if got.Configurations != 3 || len(got.Results) != 3 {
		t.Fatalf("configurations=%d results=%d, want 3/3", got.Configurations, len(got.Results))
	}
	first := got.Results[0]
	if first.Rank != 1 || first.DocumentScheme != "ltc" || first.QueryScheme != "nnc" || !first.Stemming {
		t.Errorf("first row = %+v", first)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

type flakySink struct {
	failures int
	calls    int
}

func (f *flakySink) Name() string { return "flaky" }

func (f *flakySink) Emit(context.Context, Run) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("temporarily down")
	}
	return nil
}

var fastRetry = resilience.RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}

func TestDeliverRetriesAndContinues(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	recovering := &flakySink{failures: 2}
	down := &flakySink{failures: 10}
	var buf bytes.Buffer
	broken := NewWriter(failingWriter{}, "text", 0)

	d := NewDeliverer([]Sink{recovering, broken, down, NewWriter(&buf, "text", 0)}, fastRetry, m)
	err := d.Deliver(context.Background(), sampleRun())
	if !errors.Is(err, apperrors.ErrSinkUnavailable) {
		t.Fatalf("err = %v, want ErrSinkUnavailable", err)
	}
	if recovering.calls != 3 {
		t.Errorf("recovering sink calls = %d, want 3", recovering.calls)
	}
	if down.calls != 3 {
		t.Errorf("down sink calls = %d, want 3", down.calls)
	}
	if !strings.Contains(buf.String(), "CACM - ltc.nnc") {
		t.Error("healthy writer after failing sinks received nothing")
	}
	if got := testutil.ToFloat64(m.SinkErrorsTotal.WithLabelValues("writer")); got != 1 {
		t.Errorf("writer sink errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SinkErrorsTotal.WithLabelValues("flaky")); got != 1 {
		t.Errorf("flaky sink errors = %v, want 1", got)
	}
}

type recordingPublisher struct {
	events []kafka.Event
}

func (p *recordingPublisher) PublishBatch(_ context.Context, events []kafka.Event) error {
	p.events = append(p.events, events...)
	return nil
}

func TestKafkaSink(t *testing.T) {
	pub := &recordingPublisher{}
	if err := NewKafkaSink(pub).Emit(context.Background(), sampleRun()); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(pub.events) != 3 {
		t.Fatalf("events = %d, want 3", len(pub.events))
	}
	if pub.events[0].Key != "cacm/ltc.nnc/true" {
		t.Errorf("key = %q", pub.events[0].Key)
	}
	row, ok := pub.events[1].Value.(Row)
	if !ok || row.Rank != 2 || row.RunID != "run-1" {
		t.Errorf("value = %#v", pub.events[1].Value)
	}
}

func TestSQLStore(t *testing.T) {
	ctx := context.Background()
	client, err := database.Open(ctx, config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "results.db"),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store, err := NewSQLStore(ctx, client)
	if err != nil {
		t.Fatalf("NewSQLStore: %v", err)
	}
	defer store.Close()

	if err := store.Emit(ctx, sampleRun()); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	best, err := store.Best(ctx, "run-1", "cacm", 2)
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("rows = %d, want 2", len(best))
	}
	if best[0].DocumentScheme != "ltc" || best[0].MAP != 0.34567 || !best[0].Stemming {
		t.Errorf("best row = %+v", best[0])
	}
	if best[1].Rank != 2 || best[1].Stemming {
		t.Errorf("second row = %+v", best[1])
	}

	// Same run id twice violates the primary key and rolls back as a whole.
	if err := store.Emit(ctx, sampleRun()); err == nil {
		t.Fatal("expected duplicate insert to fail")
	}
	all, err := store.Best(ctx, "run-1", "cacm", 100)
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("rows after failed rerun = %d, want 3", len(all))
	}
}
