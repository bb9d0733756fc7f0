package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/climate-trends/internal/analysis"
	"github.com/couchcryptid/climate-trends/internal/config"
	"github.com/couchcryptid/climate-trends/internal/dataset"
	"github.com/couchcryptid/climate-trends/internal/observability"
)

// Extractor reads the raw table for one source file.
type Extractor interface {
	Extract(ctx context.Context, schema dataset.Schema) (*dataset.Table, error)
}

// FileExtractor loads source files from disk.
type FileExtractor struct {
	paths config.Paths
}

// NewFileExtractor creates an Extractor reading the given paths.
func NewFileExtractor(paths config.Paths) *FileExtractor {
	return &FileExtractor{paths: paths}
}

func (e *FileExtractor) Extract(_ context.Context, schema dataset.Schema) (*dataset.Table, error) {
	return dataset.Load(e.paths.ForName(schema.Name))
}

// Pipeline loads and cleans every source dataset.
type Pipeline struct {
	extractor Extractor
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline.
func New(e Extractor, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor: e,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once every dataset has been loaded and cleaned.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("datasets have not been prepared yet")
	}
	return nil
}

// Prepare loads all datasets first, then cleans each one. Any failure aborts
// the run; there is no partial result.
func (p *Pipeline) Prepare(ctx context.Context) (*analysis.Datasets, error) {
	raw := make(map[string]*dataset.Table, len(dataset.Schemas))
	for _, s := range dataset.Schemas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := p.extractor.Extract(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("load %s dataset: %w", s.Name, err)
		}
		p.metrics.RowsLoaded.WithLabelValues(s.Name).Add(float64(t.Len()))
		p.logger.Debug("dataset loaded", "dataset", s.Name, "rows", t.Len(), "columns", len(t.Columns()))
		raw[s.Name] = t
	}

	cleaned := make(map[string]*dataset.Table, len(raw))
	for _, s := range dataset.Schemas {
		t, err := Clean(raw[s.Name], s)
		if err != nil {
			return nil, fmt.Errorf("clean %s dataset: %w", s.Name, err)
		}
		dropped := raw[s.Name].Len() - t.Len()
		p.metrics.RowsDropped.WithLabelValues(s.Name).Add(float64(dropped))
		p.logger.Info("dataset ready",
			"dataset", s.Name,
			"rows_loaded", raw[s.Name].Len(),
			"rows_kept", t.Len(),
		)
		cleaned[s.Name] = t
	}

	p.ready.Store(true)
	return &analysis.Datasets{
		City:      cleaned["city"],
		Country:   cleaned["country"],
		MajorCity: cleaned["major_city"],
		State:     cleaned["state"],
		Global:    cleaned["global"],
	}, nil
}

// Clean applies the schema's cleaning parameters. NaN and infinite cells in
// numeric columns are dropped with the rest of the missing values.
func Clean(t *dataset.Table, s dataset.Schema) (*dataset.Table, error) {
	return dataset.Clean(t.MarkNonFinite(s.Numeric...), dataset.ColumnDate, s.Drop...)
}
