package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Analysis names one of the menu analyses.
type Analysis string

const (
	AnalysisCity       Analysis = "city"
	AnalysisCountry    Analysis = "country"
	AnalysisComparison Analysis = "comparison"
	AnalysisGlobal     Analysis = "global"
)

// Point is one plotted observation.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is one plotted line.
type Series struct {
	Label  string  `json:"label"`
	Column string  `json:"column"`
	Points []Point `json:"points"`
}

// TrendEvent describes a rendered chart for downstream consumers.
type TrendEvent struct {
	ID          string    `json:"id"`
	Analysis    Analysis  `json:"analysis"`
	Entities    []string  `json:"entities,omitempty"`
	OutputFile  string    `json:"output_file"`
	Title       string    `json:"title"`
	Series      []Series  `json:"series"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewTrendEvent builds an event stamped with the package clock.
func NewTrendEvent(analysis Analysis, entities []string, outputFile, title string, series ...Series) TrendEvent {
	return TrendEvent{
		ID:          generateID(analysis, entities, series),
		Analysis:    analysis,
		Entities:    entities,
		OutputFile:  outputFile,
		Title:       title,
		Series:      series,
		GeneratedAt: clock.Now().UTC(),
	}
}

// Key is the message key: the joined entity names, or the analysis name
// when there are none.
func (e TrendEvent) Key() string {
	if len(e.Entities) == 0 {
		return string(e.Analysis)
	}
	return strings.Join(e.Entities, "|")
}

// generateID hashes the analysis, entities and series extents so the same
// chart rendered from the same data gets the same ID.
func generateID(analysis Analysis, entities []string, series []Series) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s", analysis, strings.Join(entities, ","))
	for _, s := range series {
		fmt.Fprintf(&b, "|%s:%d", s.Column, len(s.Points))
		if n := len(s.Points); n > 0 {
			fmt.Fprintf(&b, ":%s:%s", s.Points[0].Date.Format(time.DateOnly), s.Points[n-1].Date.Format(time.DateOnly))
		}
	}
	hash := sha256.Sum256([]byte(b.String()))
	return string(analysis) + "-" + hex.EncodeToString(hash[:8])
}
