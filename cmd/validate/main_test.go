package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-trends/internal/dataset"
)

var validFiles = map[string]string{
	"city": "dt,AverageTemperature,AverageTemperatureUncertainty,City,Country\n" +
		"1850-01-01,2.5,0.4,Paris,France\n1850-02-01,,0.4,Paris,France\n",
	"country":    "dt,AverageTemperature,AverageTemperatureUncertainty,Country\n1850-01-01,1.1,0.2,France\n",
	"major_city": "dt,AverageTemperature,AverageTemperatureUncertainty,City,Country\n1850-01-01,2.5,0.4,Paris,France\n",
	"state":      "dt,AverageTemperature,AverageTemperatureUncertainty,State,Country\n1850-01-01,-5.0,1.2,Alaska,United States\n",
	"global":     "dt,LandAverageTemperature,LandAndOceanAverageTemperature\n1850-01-01,0.749,12.833\n",
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for _, s := range dataset.Schemas {
		content, ok := files[s.Name]
		if !ok {
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, s.File), []byte(content), 0o600))
	}
	return dir
}

func TestRun_AllPass(t *testing.T) {
	dir := writeFiles(t, validFiles)
	var out strings.Builder

	code := run(context.Background(), dir, &out)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "All validations passed.")
	assert.Regexp(t, `city \(GlobalLandTemperaturesByCity\.csv\)\s+loaded=2\s+kept=1\s+dropped=1`, out.String())
}

func TestRun_MissingFile(t *testing.T) {
	files := map[string]string{}
	for k, v := range validFiles {
		if k != "state" {
			files[k] = v
		}
	}
	var out strings.Builder

	code := run(context.Background(), writeFiles(t, files), &out)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "--- state (GlobalLandTemperaturesByState.csv) ---")
	assert.Contains(t, out.String(), "Validation FAILED.")
}

func TestRun_MissingColumn(t *testing.T) {
	files := map[string]string{}
	for k, v := range validFiles {
		files[k] = v
	}
	files["global"] = "dt,LandAverageTemperature\n1850-01-01,0.749\n"
	var out strings.Builder

	code := run(context.Background(), writeFiles(t, files), &out)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), `required column "LandAndOceanAverageTemperature" is missing`)
}

func TestRun_NonNumericTemperature(t *testing.T) {
	files := map[string]string{}
	for k, v := range validFiles {
		files[k] = v
	}
	files["country"] = "dt,AverageTemperature,AverageTemperatureUncertainty,Country\n1850-01-01,warm,0.2,France\n"
	var out strings.Builder

	code := run(context.Background(), writeFiles(t, files), &out)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "AverageTemperature:")
}

func TestRun_NothingKept(t *testing.T) {
	files := map[string]string{}
	for k, v := range validFiles {
		files[k] = v
	}
	files["major_city"] = "dt,AverageTemperature,AverageTemperatureUncertainty,City,Country\nnot-a-date,2.5,0.4,Paris,France\n"
	var out strings.Builder

	code := run(context.Background(), writeFiles(t, files), &out)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "no rows left after cleaning")
}
