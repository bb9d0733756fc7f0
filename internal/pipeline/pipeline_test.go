package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-trends/internal/config"
	"github.com/couchcryptid/climate-trends/internal/dataset"
	"github.com/couchcryptid/climate-trends/internal/observability"
	"github.com/couchcryptid/climate-trends/internal/pipeline"
)

// --- mocks ---

type mapExtractor struct {
	csv   map[string]string
	err   map[string]error
	calls []string
}

func (m *mapExtractor) Extract(_ context.Context, s dataset.Schema) (*dataset.Table, error) {
	m.calls = append(m.calls, s.Name)
	if err := m.err[s.Name]; err != nil {
		return nil, err
	}
	return dataset.Read(strings.NewReader(m.csv[s.Name]))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fixtures = map[string]string{
	"city": `dt,AverageTemperature,AverageTemperatureUncertainty,City,Country
1850-01-01,2.5,0.4,Tokyo,Japan
1850-02-01,,0.4,Tokyo,Japan
bad-date,3.0,0.4,Tokyo,Japan
1850-03-01,4.0,,Tokyo,Japan
`,
	"country": `dt,AverageTemperature,AverageTemperatureUncertainty,Country
1850-01-01,1.1,,Japan
1850-02-01,1.9,0.3,Japan
`,
	"major_city": `dt,AverageTemperature,AverageTemperatureUncertainty,City,Country
1850-01-01,2.5,0.4,Tokyo,Japan
`,
	"state": `dt,AverageTemperature,AverageTemperatureUncertainty,State,Country
1850-01-01,-5.0,1.2,Alaska,United States
`,
	"global": `dt,LandAverageTemperature,LandAndOceanAverageTemperature
1750-01-01,3.034,
1850-01-01,0.749,12.833
`,
}

// --- tests ---

func TestPrepare(t *testing.T) {
	ext := &mapExtractor{csv: fixtures}
	metrics := observability.NewMetrics()
	p := pipeline.New(ext, discardLogger(), metrics)

	require.Error(t, p.CheckReadiness(context.Background()))

	data, err := p.Prepare(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.CheckReadiness(context.Background()))

	assert.Equal(t, []string{"city", "country", "major_city", "state", "global"}, ext.calls)

	// The uncertainty column is dropped for the city dataset only, so a blank
	// uncertainty keeps the city row but removes the country row.
	assert.Equal(t, 2, data.City.Len())
	assert.False(t, data.City.HasColumn(dataset.ColumnAverageTemperatureUncertainty))
	assert.Equal(t, 1, data.Country.Len())
	assert.True(t, data.Country.HasColumn(dataset.ColumnAverageTemperatureUncertainty))
	assert.Equal(t, 1, data.MajorCity.Len())
	assert.Equal(t, 1, data.State.Len())
	assert.Equal(t, 1, data.Global.Len())

	assert.InDelta(t, 4, testutil.ToFloat64(metrics.RowsLoaded.WithLabelValues("city")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.RowsDropped.WithLabelValues("city")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RowsDropped.WithLabelValues("global")), 0)
}

func TestPrepare_NonFiniteTemperaturesDropped(t *testing.T) {
	csv := make(map[string]string, len(fixtures))
	for k, v := range fixtures {
		csv[k] = v
	}
	csv["city"] = "dt,AverageTemperature,AverageTemperatureUncertainty,City,Country\n" +
		"2000-01-01,NAN,0.2,Z,Q\n2000-02-01,1.0,inf,Z,Q\n2000-03-01,-Infinity,0.2,Z,Q\n"
	csv["global"] = "dt,LandAverageTemperature,LandAndOceanAverageTemperature\n" +
		"2000-01-01,nan,1.0\n2000-02-01,8.1,15.2\n"
	p := pipeline.New(&mapExtractor{csv: csv}, discardLogger(), observability.NewMetrics())

	data, err := p.Prepare(context.Background())
	require.NoError(t, err)

	temps, err := data.City.Floats(dataset.ColumnAverageTemperature)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0}, temps, "a non-finite uncertainty is dropped with its column")
	assert.Equal(t, 1, data.Global.Len())
}

func TestPrepare_LoadFailureAborts(t *testing.T) {
	ext := &mapExtractor{
		csv: fixtures,
		err: map[string]error{"major_city": dataset.ErrFileNotAccessible},
	}
	p := pipeline.New(ext, discardLogger(), observability.NewMetrics())

	data, err := p.Prepare(context.Background())
	require.Error(t, err)
	assert.Nil(t, data)
	assert.ErrorIs(t, err, dataset.ErrFileNotAccessible)
	assert.Contains(t, err.Error(), "major_city")
	assert.Equal(t, []string{"city", "country", "major_city"}, ext.calls, "later datasets are not attempted")
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPrepare_MissingDateColumn(t *testing.T) {
	csv := make(map[string]string, len(fixtures))
	for k, v := range fixtures {
		csv[k] = v
	}
	csv["state"] = "State,AverageTemperature\nAlaska,1.0\n"
	p := pipeline.New(&mapExtractor{csv: csv}, discardLogger(), observability.NewMetrics())

	_, err := p.Prepare(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
	assert.Contains(t, err.Error(), "clean state dataset")
}

func TestPrepare_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ext := &mapExtractor{csv: fixtures}
	p := pipeline.New(ext, discardLogger(), observability.NewMetrics())

	_, err := p.Prepare(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, ext.calls)
}

func TestFileExtractor(t *testing.T) {
	dir := t.TempDir()
	for _, s := range dataset.Schemas {
		require.NoError(t, os.WriteFile(filepath.Join(dir, s.File), []byte(fixtures[s.Name]), 0o600))
	}
	p := pipeline.New(pipeline.NewFileExtractor(config.DefaultPaths(dir)), discardLogger(), observability.NewMetrics())

	data, err := p.Prepare(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, data.City.Len())
}

func TestFileExtractor_MissingFile(t *testing.T) {
	dir := t.TempDir()
	for _, s := range dataset.Schemas {
		if s.Name == "global" {
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, s.File), []byte(fixtures[s.Name]), 0o600))
	}
	p := pipeline.New(pipeline.NewFileExtractor(config.DefaultPaths(dir)), discardLogger(), observability.NewMetrics())

	_, err := p.Prepare(context.Background())
	require.ErrorIs(t, err, dataset.ErrFileNotAccessible)
	assert.Contains(t, err.Error(), "GlobalTemperatures.csv")
}
