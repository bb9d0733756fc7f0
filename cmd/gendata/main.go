// Command gendata writes a small synthetic copy of the five temperature
// datasets. The series are deterministic: a seasonal cycle on top of a slow
// warming trend, with seeded noise. Every file carries blank temperature
// cells and one malformed date so cleaning has something to drop.
//
// Usage:
//
//	go run ./cmd/gendata -out data -start 1900 -years 50
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/climate-trends/internal/dataset"
)

const (
	blankEvery    = 37 // every Nth month has a blank temperature
	malformedRow  = 5
	malformedDate = "1900-13-45"
)

type site struct {
	name, country string
	lat, lon      string
	base, swing   float64 // mean and seasonal amplitude in °C
}

var (
	cities = []site{
		{name: "Paris", country: "France", lat: "49.03N", lon: "2.45E", base: 11, swing: 8},
		{name: "Tokyo", country: "Japan", lat: "36.17N", lon: "139.23E", base: 15, swing: 10},
		{name: "New York", country: "United States", lat: "40.99N", lon: "74.56W", base: 12, swing: 12},
		{name: "Sydney", country: "Australia", lat: "34.56S", lon: "151.78E", base: 18, swing: -5},
	}
	majorCities = cities[:2]
	countries   = []site{
		{name: "France", base: 10.5, swing: 7.5},
		{name: "Japan", base: 11.5, swing: 10},
		{name: "United States", base: 9, swing: 11},
		{name: "Australia", base: 21.5, swing: -6},
	}
	states = []site{
		{name: "Alaska", country: "United States", base: -4, swing: 14},
		{name: "Texas", country: "United States", base: 18.5, swing: 9},
		{name: "New South Wales", country: "Australia", base: 17, swing: -6},
	}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data", "output directory for the CSV files")
	start := flag.Int("start", 1900, "first year of the series")
	years := flag.Int("years", 50, "number of years to generate")
	flag.Parse()

	if *out == "" || *years < 1 {
		flag.Usage()
		return fmt.Errorf("-out must be set and -years must be positive")
	}

	counts, err := generate(*out, *start, *years)
	if err != nil {
		return err
	}
	for _, s := range dataset.Schemas {
		log.Printf("%s: %d rows", filepath.Join(*out, s.File), counts[s.Name])
	}
	return nil
}

// generate writes all five files under dir and returns the data row count
// per dataset.
func generate(dir string, start, years int) (map[string]int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	gen := &generator{start: start, months: years * 12, rng: rand.New(rand.NewPCG(uint64(start), uint64(years)))}

	files := map[string]func() [][]string{
		"city":       func() [][]string { return gen.cityRows(cities) },
		"country":    gen.countryRows,
		"major_city": func() [][]string { return gen.cityRows(majorCities) },
		"state":      gen.stateRows,
		"global":     gen.globalRows,
	}

	counts := make(map[string]int, len(files))
	for _, s := range dataset.Schemas {
		rows := files[s.Name]()
		if err := writeCSV(filepath.Join(dir, s.File), rows); err != nil {
			return nil, fmt.Errorf("writing %s: %w", s.File, err)
		}
		counts[s.Name] = len(rows) - 1
	}
	return counts, nil
}

type generator struct {
	start  int
	months int
	rng    *rand.Rand
}

func (g *generator) date(i int) string {
	if i == malformedRow {
		return malformedDate
	}
	return time.Date(g.start, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0).Format(time.DateOnly)
}

// temperature is the monthly mean for month i: the site mean, a seasonal
// cycle peaking in July (January for negative swings), 1°C warming per
// century and seeded noise.
func (g *generator) temperature(s site, i int) float64 {
	season := -math.Cos(2 * math.Pi * float64(i%12) / 12)
	trend := float64(i) / 1200
	noise := g.rng.NormFloat64() * 0.6
	return s.base + s.swing*season + trend + noise
}

func (g *generator) uncertainty() string {
	return format(0.2 + g.rng.Float64()*0.8)
}

func (g *generator) cityRows(sites []site) [][]string {
	rows := [][]string{{
		dataset.ColumnDate, dataset.ColumnAverageTemperature, dataset.ColumnAverageTemperatureUncertainty,
		dataset.ColumnCity, dataset.ColumnCountry, "Latitude", "Longitude",
	}}
	for _, s := range sites {
		for i := range g.months {
			temp, unc := format(g.temperature(s, i)), g.uncertainty()
			if i%blankEvery == blankEvery-1 {
				temp, unc = "", ""
			}
			rows = append(rows, []string{g.date(i), temp, unc, s.name, s.country, s.lat, s.lon})
		}
	}
	return rows
}

func (g *generator) countryRows() [][]string {
	rows := [][]string{{
		dataset.ColumnDate, dataset.ColumnAverageTemperature, dataset.ColumnAverageTemperatureUncertainty,
		dataset.ColumnCountry,
	}}
	for _, s := range countries {
		for i := range g.months {
			temp := format(g.temperature(s, i))
			if i%blankEvery == blankEvery-1 {
				temp = ""
			}
			rows = append(rows, []string{g.date(i), temp, g.uncertainty(), s.name})
		}
	}
	return rows
}

func (g *generator) stateRows() [][]string {
	rows := [][]string{{
		dataset.ColumnDate, dataset.ColumnAverageTemperature, dataset.ColumnAverageTemperatureUncertainty,
		dataset.ColumnState, dataset.ColumnCountry,
	}}
	for _, s := range states {
		for i := range g.months {
			temp := format(g.temperature(s, i))
			if i%blankEvery == blankEvery-1 {
				temp = ""
			}
			rows = append(rows, []string{g.date(i), temp, g.uncertainty(), s.name, s.country})
		}
	}
	return rows
}

// globalRows leaves the land-and-ocean series blank for the first year,
// like the early records of the real export.
func (g *generator) globalRows() [][]string {
	rows := [][]string{{
		dataset.ColumnDate,
		dataset.ColumnLandAverageTemperature, "LandAverageTemperatureUncertainty",
		dataset.ColumnLandAndOceanAverageTemperature, "LandAndOceanAverageTemperatureUncertainty",
	}}
	land := site{base: 8.5, swing: 5.5}
	ocean := site{base: 15.2, swing: 1.9}
	for i := range g.months {
		landTemp := format(g.temperature(land, i))
		oceanTemp, oceanUnc := format(g.temperature(ocean, i)), g.uncertainty()
		if i < 12 {
			oceanTemp, oceanUnc = "", ""
		}
		if i%blankEvery == blankEvery-1 {
			landTemp = ""
		}
		rows = append(rows, []string{g.date(i), landTemp, g.uncertainty(), oceanTemp, oceanUnc})
	}
	return rows
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
