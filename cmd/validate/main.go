// Command validate checks the five source datasets before an analysis run.
// Each file is loaded and cleaned exactly as the main program does it, then
// checked for its required columns and for usable values in every plotted
// column.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/climate-trends/internal/config"
	"github.com/couchcryptid/climate-trends/internal/dataset"
	"github.com/couchcryptid/climate-trends/internal/pipeline"
)

// phase tracks pass/fail for one dataset.
type phase struct {
	name   string
	errors []string

	loaded, kept int
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "data", "directory containing the temperature CSV files")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(context.Background(), *dataDir, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, dataDir string, out io.Writer) int {
	fmt.Fprintln(out, "=== Climate Dataset Validation ===")
	fmt.Fprintln(out)

	extractor := pipeline.NewFileExtractor(config.DefaultPaths(dataDir))

	phases := make([]*phase, 0, len(dataset.Schemas))
	for _, s := range dataset.Schemas {
		phases = append(phases, validateDataset(ctx, extractor, s))
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-50s loaded=%-8d kept=%-8d dropped=%-8d %s\n",
			p.name, p.loaded, p.kept, p.loaded-p.kept, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

func validateDataset(ctx context.Context, e pipeline.Extractor, s dataset.Schema) *phase {
	p := &phase{name: fmt.Sprintf("%s (%s)", s.Name, s.File)}

	raw, err := e.Extract(ctx, s)
	if err != nil {
		p.errorf("load: %v", err)
		return p
	}
	p.loaded = raw.Len()

	if missing := s.MissingColumns(raw); len(missing) > 0 {
		for _, c := range missing {
			p.errorf("required column %q is missing", c)
		}
		return p
	}

	cleaned, err := pipeline.Clean(raw, s)
	if err != nil {
		p.errorf("clean: %v", err)
		return p
	}
	p.kept = cleaned.Len()

	if cleaned.Empty() {
		p.errorf("no rows left after cleaning")
		return p
	}
	for _, c := range s.Drop {
		if cleaned.HasColumn(c) {
			p.errorf("column %q should have been dropped", c)
		}
	}
	checkValues(p, cleaned)
	return p
}

// checkValues verifies every temperature column parses as a number.
func checkValues(p *phase, t *dataset.Table) {
	if _, err := t.Times(dataset.ColumnDate); err != nil {
		p.errorf("%s: %v", dataset.ColumnDate, err)
	}
	for _, c := range []string{
		dataset.ColumnAverageTemperature,
		dataset.ColumnLandAverageTemperature,
		dataset.ColumnLandAndOceanAverageTemperature,
	} {
		if !t.HasColumn(c) {
			continue
		}
		if _, err := t.Floats(c); err != nil {
			p.errorf("%s: %v", c, err)
		}
	}
}
