package chart

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/climate-trends/internal/dataset"
)

const (
	xLabel = "Year"
	yLabel = "Average Temperature (°C)"

	// globalTitle is the fixed title of the global chart.
	globalTitle = "Global Temperature Trends"
)

var (
	blue   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	red    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	green  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	orange = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// line is one series to draw: a value column of a table over its date column.
type line struct {
	Data   *dataset.Table
	Column string
	Label  string
	Color  color.Color
}

// Renderer draws trend charts as PNG files and reports each saved file on out.
type Renderer struct {
	out    io.Writer
	logger *slog.Logger
	width  vg.Length
	height vg.Length
}

// NewRenderer creates a Renderer producing 12x6 inch charts.
func NewRenderer(out io.Writer, logger *slog.Logger) *Renderer {
	return &Renderer{
		out:    out,
		logger: logger,
		width:  12 * vg.Inch,
		height: 6 * vg.Inch,
	}
}

// RenderSingle plots one value column of data in blue.
func (r *Renderer) RenderSingle(data *dataset.Table, valueColumn, label, title, outputPath string) error {
	err := r.render(title, outputPath, line{Data: data, Column: valueColumn, Label: label, Color: blue})
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Plot saved as %s\n", outputPath)
	return nil
}

// RenderComparison plots the average temperature of two tables, blue then red.
func (r *Renderer) RenderComparison(data1, data2 *dataset.Table, label1, label2, title, outputPath string) error {
	err := r.render(title, outputPath,
		line{Data: data1, Column: dataset.ColumnAverageTemperature, Label: label1, Color: blue},
		line{Data: data2, Column: dataset.ColumnAverageTemperature, Label: label2, Color: red},
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Comparison plot saved as %s\n", outputPath)
	return nil
}

// RenderGlobal plots land (green) and land-and-ocean (orange) averages.
func (r *Renderer) RenderGlobal(data *dataset.Table, outputPath string) error {
	err := r.render(globalTitle, outputPath,
		line{Data: data, Column: dataset.ColumnLandAverageTemperature, Label: "Land Average Temperature", Color: green},
		line{Data: data, Column: dataset.ColumnLandAndOceanAverageTemperature, Label: "Land and Ocean Average Temperature", Color: orange},
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Global temperature trend plot saved as %s\n", outputPath)
	return nil
}

func (r *Renderer) render(title, outputPath string, lines ...line) error {
	start := time.Now()

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006"}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for _, l := range lines {
		pts, err := seriesXYs(l.Data, l.Column)
		if err != nil {
			return fmt.Errorf("plot %q: %w", l.Label, err)
		}
		ln, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plot %q: %w", l.Label, err)
		}
		ln.Color = l.Color
		ln.Width = vg.Points(1)
		p.Add(ln)
		p.Legend.Add(l.Label, ln)

		// A lone observation has no segment to draw.
		if len(pts) == 1 {
			dot, err := plotter.NewScatter(pts)
			if err != nil {
				return fmt.Errorf("plot %q: %w", l.Label, err)
			}
			dot.GlyphStyle.Color = l.Color
			dot.GlyphStyle.Shape = draw.CircleGlyph{}
			dot.GlyphStyle.Radius = vg.Points(3)
			p.Add(dot)
		}
	}

	if err := p.Save(r.width, r.height, outputPath); err != nil {
		return fmt.Errorf("save %s: %w", outputPath, err)
	}

	r.logger.Debug("chart written",
		"file", outputPath,
		"lines", len(lines),
		"duration", time.Since(start),
	)
	return nil
}

// seriesXYs pairs the date column with a value column. X is Unix seconds,
// which is what plot.TimeTicks expects.
func seriesXYs(data *dataset.Table, column string) (plotter.XYs, error) {
	dates, err := data.Times(dataset.ColumnDate)
	if err != nil {
		return nil, err
	}
	values, err := data.Floats(column)
	if err != nil {
		return nil, err
	}
	xys := make(plotter.XYs, len(dates))
	for i := range dates {
		xys[i].X = float64(dates[i].Unix())
		xys[i].Y = values[i]
	}
	return xys, nil
}
