package corpus

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/analysis"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/errors"
)

// FileAdapter loads a corpus from the files named in its configuration,
// parsing them with one Format.
type FileAdapter struct {
	cfg    config.CorpusConfig
	format Format
	logger *slog.Logger
}

// NewFileAdapter resolves the configured format.
func NewFileAdapter(cfg config.CorpusConfig) (*FileAdapter, error) {
	format, ok := Formats[cfg.Format]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrInvalidConfig, "corpus %s: unknown format %q", cfg.Name, cfg.Format)
	}
	return &FileAdapter{
		cfg:    cfg,
		format: format,
		logger: slog.Default().With("component", "corpus", "corpus", cfg.Name),
	}, nil
}

// NewAdapters builds one FileAdapter per configured corpus.
func NewAdapters(cfgs []config.CorpusConfig) ([]Adapter, error) {
	adapters := make([]Adapter, 0, len(cfgs))
	for _, c := range cfgs {
		a, err := NewFileAdapter(c)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

func (a *FileAdapter) Name() string { return a.cfg.Name }

// Load reads and parses every file. Any read or parse failure is returned
// wrapped in ErrCorpusLoad.
func (a *FileAdapter) Load() (*Corpus, error) {
	docs, err := a.read(a.cfg.Documents)
	if err != nil {
		return nil, err
	}
	queries, err := a.read(a.cfg.Queries)
	if err != nil {
		return nil, err
	}
	rels, err := a.read(a.cfg.Judgments)
	if err != nil {
		return nil, err
	}
	judgments, err := a.format.Judgments(rels)
	if err != nil {
		return nil, fmt.Errorf("%w: corpus %s judgments: %w", apperrors.ErrCorpusLoad, a.cfg.Name, err)
	}
	stopwords := analysis.Stopwords{}
	if a.cfg.Stopwords != "" {
		content, err := a.read(a.cfg.Stopwords)
		if err != nil {
			return nil, err
		}
		stopwords = a.format.Stopwords(content)
	}
	c := &Corpus{
		Name:      a.cfg.Name,
		Documents: a.format.Documents(docs),
		Queries:   a.format.Queries(queries),
		Judgments: judgments,
		Stopwords: stopwords,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if n := c.OutOfRange(); n > 0 {
		a.logger.Warn("judgments reference positions outside the corpus", "count", n)
	}
	a.logger.Info("corpus loaded",
		"documents", len(c.Documents),
		"queries", len(c.Queries),
		"judged_queries", len(c.Judgments.Queries()),
		"judgments", c.Judgments.Pairs(),
		"stopwords", len(c.Stopwords),
	)
	return c, nil
}

func (a *FileAdapter) read(name string) (string, error) {
	path := a.cfg.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: corpus %s: reading %s: %w", apperrors.ErrCorpusLoad, a.cfg.Name, path, err)
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}
