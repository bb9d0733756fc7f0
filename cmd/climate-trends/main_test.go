package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-trends/internal/dataset"
)

var sourceFiles = map[string]string{
	"city": "dt,AverageTemperature,AverageTemperatureUncertainty,City,Country\n" +
		"1850-01-01,2.5,0.4,Paris,France\n1850-02-01,3.5,0.4,Paris,France\n1850-01-01,1.0,0.3,Tokyo,Japan\n",
	"country":    "dt,AverageTemperature,AverageTemperatureUncertainty,Country\n1850-01-01,1.1,0.2,France\n",
	"major_city": "dt,AverageTemperature,AverageTemperatureUncertainty,City,Country\n1850-01-01,2.5,0.4,Paris,France\n",
	"state":      "dt,AverageTemperature,AverageTemperatureUncertainty,State,Country\n1850-01-01,-5.0,1.2,Alaska,United States\n",
	"global":     "dt,LandAverageTemperature,LandAndOceanAverageTemperature\n1850-01-01,0.749,12.833\n",
}

// setupEnv writes the source files and points the configuration at them.
// It returns the output directory.
func setupEnv(t *testing.T, skip string) string {
	t.Helper()
	dataDir, outDir := t.TempDir(), t.TempDir()
	for _, s := range dataset.Schemas {
		if s.Name == skip {
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, s.File), []byte(sourceFiles[s.Name]), 0o600))
	}

	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("OUTPUT_DIR", outDir)
	t.Setenv("LOG_LEVEL", "error")
	for _, k := range []string{
		"CITY_DATA_PATH", "COUNTRY_DATA_PATH", "MAJOR_CITY_DATA_PATH", "STATE_DATA_PATH", "GLOBAL_DATA_PATH",
		"KAFKA_BROKERS", "KAFKA_ENABLED", "METRICS_ADDR", "METRICS_TEXTFILE",
		"LOG_FORMAT", "PUBLISH_TIMEOUT", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
	return outDir
}

func pngs(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.png"))
	require.NoError(t, err)
	return matches
}

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		skip      string
		setup     func(t *testing.T, outDir string)
		wantCode  int
		wantOut   string
		wantFiles int
	}{
		{
			name:      "city rendered",
			input:     "1\nParis\n",
			wantCode:  0,
			wantOut:   "Plot saved as ",
			wantFiles: 1,
		},
		{
			name:     "invalid choice",
			input:    "7\n",
			wantCode: 0,
			wantOut:  "Invalid choice!",
		},
		{
			name:     "entity not found",
			input:    "1\nAtlantis\n",
			wantCode: 0,
			wantOut:  "Error: No data found for the city 'Atlantis'.",
		},
		{
			name:     "dataset missing",
			input:    "4\n",
			skip:     "global",
			wantCode: 1,
		},
		{
			name:  "render failure",
			input: "1\nParis\n",
			setup: func(t *testing.T, outDir string) {
				// A directory where the chart should go cannot be overwritten.
				require.NoError(t, os.Mkdir(filepath.Join(outDir, "Paris_trend.png"), 0o755))
			},
			wantCode: 1,
		},
		{
			name:     "input closed",
			input:    "",
			wantCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outDir := setupEnv(t, tt.skip)
			if tt.setup != nil {
				tt.setup(t, outDir)
			}
			var out strings.Builder

			code := run(context.Background(), strings.NewReader(tt.input), &out)

			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, out.String(), tt.wantOut)
			assert.Len(t, pngs(t, outDir), tt.wantFiles)
		})
	}
}

func TestRun_DatasetMissingSkipsMenu(t *testing.T) {
	setupEnv(t, "state")
	var out strings.Builder

	code := run(context.Background(), strings.NewReader("4\n"), &out)

	assert.Equal(t, 1, code)
	assert.Empty(t, out.String())
}

func TestRun_InterruptedWhileWaitingForInput(t *testing.T) {
	outDir := setupEnv(t, "")
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() { done <- run(ctx, pr, io.Discard) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case code := <-done:
		assert.Equal(t, 1, code)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after interrupt")
	}
	assert.Empty(t, pngs(t, outDir))
}

func TestRun_WritesMetricsTextfile(t *testing.T) {
	setupEnv(t, "")
	path := filepath.Join(t.TempDir(), "climate.prom")
	t.Setenv("METRICS_TEXTFILE", path)

	code := run(context.Background(), strings.NewReader("4\n"), io.Discard)

	require.Equal(t, 0, code)
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), `climate_trends_analysis_outcomes_total{analysis="global",outcome="rendered"} 1`)
}
