// Package tracing records a tree of timed phases for one sweep run (corpus
// load, vocabulary build, scheme evaluation) and logs it through slog when
// the run finishes.
package tracing

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

type contextKey struct{}

// Span is one timed phase. Children are appended concurrently by workers.
type Span struct {
	Name     string
	RunID    string
	Start    time.Time
	Duration time.Duration
	Attrs    map[string]any

	mu       sync.Mutex
	children []*Span
}

// StartSpan starts a span under the span already in ctx, or a root span for
// runID when there is none.
func StartSpan(ctx context.Context, name string, runID string) (context.Context, *Span) {
	span := &Span{
		Name:  name,
		RunID: runID,
		Start: time.Now(),
		Attrs: make(map[string]any),
	}
	if parent := FromContext(ctx); parent != nil {
		span.RunID = parent.RunID
		parent.mu.Lock()
		parent.children = append(parent.children, span)
		parent.mu.Unlock()
	}
	return context.WithValue(ctx, contextKey{}, span), span
}

// FromContext returns the current span, or nil.
func FromContext(ctx context.Context) *Span {
	span, _ := ctx.Value(contextKey{}).(*Span)
	return span
}

// End fixes the span's duration. Calling End on a nil span is a no-op.
func (s *Span) End() {
	if s == nil {
		return
	}
	s.Duration = time.Since(s.Start)
}

func (s *Span) SetAttr(key string, value any) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.Attrs[key] = value
	s.mu.Unlock()
}

// Children returns a snapshot of the child spans ordered by start time.
func (s *Span) Children() []*Span {
	s.mu.Lock()
	out := make([]*Span, len(s.children))
	copy(out, s.children)
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// Log writes the span tree to logger down to maxDepth levels below s.
// Scheme-level spans are numerous; callers usually stop above them.
func (s *Span) Log(logger *slog.Logger, maxDepth int) {
	s.log(logger, 0, maxDepth)
}

func (s *Span) log(logger *slog.Logger, depth, maxDepth int) {
	attrs := []any{
		"run_id", s.RunID,
		"span", s.Name,
		"duration_ms", s.Duration.Milliseconds(),
		"depth", depth,
	}
	s.mu.Lock()
	keys := make([]string, 0, len(s.Attrs))
	for k := range s.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, k, s.Attrs[k])
	}
	s.mu.Unlock()
	logger.Info("span", attrs...)

	if depth >= maxDepth {
		return
	}
	for _, child := range s.Children() {
		child.log(logger, depth+1, maxDepth)
	}
}
