package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/climate-trends/internal/dataset"
	"github.com/couchcryptid/climate-trends/internal/domain"
	"github.com/couchcryptid/climate-trends/internal/observability"
)

// GlobalOutputFile is the fixed file name of the global chart.
const GlobalOutputFile = "Global_Temperature_Trend.png"

// Datasets holds the five cleaned tables.
type Datasets struct {
	City      *dataset.Table
	Country   *dataset.Table
	MajorCity *dataset.Table
	State     *dataset.Table
	Global    *dataset.Table
}

// Renderer draws and saves one chart per call.
type Renderer interface {
	RenderSingle(data *dataset.Table, valueColumn, label, title, outputPath string) error
	RenderComparison(data1, data2 *dataset.Table, label1, label2, title, outputPath string) error
	RenderGlobal(data *dataset.Table, outputPath string) error
}

// Publisher forwards a rendered trend downstream.
type Publisher interface {
	Publish(ctx context.Context, event domain.TrendEvent) error
}

// Outcome is how a run ended.
type Outcome int

const (
	OutcomeRendered Outcome = iota
	OutcomeEmpty
	OutcomeInvalid
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRendered:
		return "rendered"
	case OutcomeEmpty:
		return "empty"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "error"
	}
}

// Selector branches on a Request: it filters the right dataset, reports an
// empty result or an invalid choice on out, and otherwise makes exactly one
// render call.
type Selector struct {
	data      *Datasets
	renderer  Renderer
	publisher Publisher
	out       io.Writer
	outputDir string
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewSelector creates a Selector writing charts under outputDir. Pass a nil
// publisher to disable trend publishing.
func NewSelector(data *Datasets, renderer Renderer, publisher Publisher, out io.Writer, outputDir string, logger *slog.Logger, metrics *observability.Metrics) *Selector {
	return &Selector{
		data:      data,
		renderer:  renderer,
		publisher: publisher,
		out:       out,
		outputDir: outputDir,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes the analysis chosen in req. The error is non-nil only when a
// chart could not be produced from a non-empty selection, or when ctx is
// already done, in which case nothing is printed or rendered.
func (s *Selector) Run(ctx context.Context, req Request) (Outcome, error) {
	analysis := analysisFor(req.Choice)
	outcome, err := s.run(ctx, req)
	s.metrics.AnalysisOutcomes.WithLabelValues(string(analysis), outcome.String()).Inc()
	s.logger.Info("analysis finished",
		"analysis", analysis,
		"entities", req.Entities,
		"outcome", outcome.String(),
	)
	return outcome, err
}

func (s *Selector) run(ctx context.Context, req Request) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return OutcomeError, err
	}
	switch req.Choice {
	case ChoiceCity:
		return s.single(ctx, domain.AnalysisCity, s.data.City, dataset.ColumnCity, "city", entity(req, 0))
	case ChoiceCountry:
		return s.single(ctx, domain.AnalysisCountry, s.data.Country, dataset.ColumnCountry, "country", entity(req, 0))
	case ChoiceCompare:
		return s.compare(ctx, entity(req, 0), entity(req, 1))
	case ChoiceGlobal:
		return s.global(ctx)
	default:
		fmt.Fprintln(s.out, "Invalid choice!")
		return OutcomeInvalid, nil
	}
}

func (s *Selector) single(ctx context.Context, analysis domain.Analysis, data *dataset.Table, column, noun, name string) (Outcome, error) {
	rows, err := data.Where(column, name)
	if err != nil {
		return OutcomeError, err
	}
	if rows.Empty() {
		fmt.Fprintf(s.out, "Error: No data found for the %s '%s'.\n", noun, name)
		return OutcomeEmpty, nil
	}

	label := name + " Average Temperature"
	title := "Temperature Trend in " + name
	path := s.outputPath(name + "_trend.png")

	err = s.timed(func() error {
		return s.renderer.RenderSingle(rows, dataset.ColumnAverageTemperature, label, title, path)
	})
	if err != nil {
		return OutcomeError, err
	}

	s.publish(ctx, analysis, []string{name}, path, title,
		line{rows, dataset.ColumnAverageTemperature, label})
	return OutcomeRendered, nil
}

// compare checks the first city before looking at the second.
func (s *Selector) compare(ctx context.Context, first, second string) (Outcome, error) {
	rows1, err := s.cityRows(first)
	if err != nil {
		return OutcomeError, err
	}
	if rows1 == nil {
		return OutcomeEmpty, nil
	}
	rows2, err := s.cityRows(second)
	if err != nil {
		return OutcomeError, err
	}
	if rows2 == nil {
		return OutcomeEmpty, nil
	}

	label1 := first + " Average Temperature"
	label2 := second + " Average Temperature"
	title := fmt.Sprintf("Comparison of Temperature Trends: %s vs %s", first, second)
	path := s.outputPath(fmt.Sprintf("Comparison_%s_vs_%s.png", first, second))

	err = s.timed(func() error {
		return s.renderer.RenderComparison(rows1, rows2, label1, label2, title, path)
	})
	if err != nil {
		return OutcomeError, err
	}

	s.publish(ctx, domain.AnalysisComparison, []string{first, second}, path, title,
		line{rows1, dataset.ColumnAverageTemperature, label1},
		line{rows2, dataset.ColumnAverageTemperature, label2},
	)
	return OutcomeRendered, nil
}

// cityRows filters the city dataset. It returns a nil table, after
// reporting on out, when nothing matches.
func (s *Selector) cityRows(name string) (*dataset.Table, error) {
	rows, err := s.data.City.Where(dataset.ColumnCity, name)
	if err != nil {
		return nil, err
	}
	if rows.Empty() {
		fmt.Fprintf(s.out, "Error: No data found for '%s'.\n", name)
		return nil, nil
	}
	return rows, nil
}

func (s *Selector) global(ctx context.Context) (Outcome, error) {
	if s.data.Global.Empty() {
		fmt.Fprintln(s.out, "Error: No data found for the global dataset.")
		return OutcomeEmpty, nil
	}
	path := s.outputPath(GlobalOutputFile)

	err := s.timed(func() error {
		return s.renderer.RenderGlobal(s.data.Global, path)
	})
	if err != nil {
		return OutcomeError, err
	}

	s.publish(ctx, domain.AnalysisGlobal, nil, path, "Global Temperature Trends",
		line{s.data.Global, dataset.ColumnLandAverageTemperature, "Land Average Temperature"},
		line{s.data.Global, dataset.ColumnLandAndOceanAverageTemperature, "Land and Ocean Average Temperature"},
	)
	return OutcomeRendered, nil
}

func (s *Selector) timed(render func() error) error {
	start := time.Now()
	if err := render(); err != nil {
		return err
	}
	s.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	s.metrics.ChartsRendered.Inc()
	return nil
}

// line names a plotted column for publishing.
type line struct {
	data   *dataset.Table
	column string
	label  string
}

// publish sends the rendered trend downstream. Failures are logged only;
// the chart is already on disk.
func (s *Selector) publish(ctx context.Context, analysis domain.Analysis, entities []string, path, title string, lines ...line) {
	if s.publisher == nil {
		return
	}

	series := make([]domain.Series, 0, len(lines))
	for _, l := range lines {
		sr, err := seriesOf(l)
		if err != nil {
			s.logger.Warn("build trend series failed", "column", l.column, "error", err)
			s.metrics.TrendsPublished.WithLabelValues("error").Inc()
			return
		}
		series = append(series, sr)
	}

	event := domain.NewTrendEvent(analysis, entities, filepath.Base(path), title, series...)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish trend failed", "id", event.ID, "error", err)
		s.metrics.TrendsPublished.WithLabelValues("error").Inc()
		return
	}
	s.metrics.TrendsPublished.WithLabelValues("success").Inc()
	s.logger.Debug("trend published", "id", event.ID, "key", event.Key())
}

func seriesOf(l line) (domain.Series, error) {
	dates, err := l.data.Times(dataset.ColumnDate)
	if err != nil {
		return domain.Series{}, err
	}
	values, err := l.data.Floats(l.column)
	if err != nil {
		return domain.Series{}, err
	}
	points := make([]domain.Point, len(dates))
	for i := range dates {
		points[i] = domain.Point{Date: dates[i], Value: values[i]}
	}
	return domain.Series{Label: l.label, Column: l.column, Points: points}, nil
}

var fileNameReplacer = strings.NewReplacer("/", "_", `\`, "_")

// outputPath joins name to the output directory. Separators inside entity
// names are replaced so the chart cannot land elsewhere.
func (s *Selector) outputPath(name string) string {
	return filepath.Join(s.outputDir, fileNameReplacer.Replace(name))
}

func entity(req Request, i int) string {
	if i < len(req.Entities) {
		return req.Entities[i]
	}
	return ""
}

func analysisFor(c Choice) domain.Analysis {
	switch c {
	case ChoiceCity:
		return domain.AnalysisCity
	case ChoiceCountry:
		return domain.AnalysisCountry
	case ChoiceCompare:
		return domain.AnalysisComparison
	case ChoiceGlobal:
		return domain.AnalysisGlobal
	default:
		return "none"
	}
}
