// Package chart renders the per-category pixel count bar chart.
package chart

import (
	"fmt"

	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sells-group/landcover-cli/internal/apperr"
	"github.com/sells-group/landcover-cli/internal/model"
)

// Renderer writes bar charts to a fixed path.
type Renderer struct {
	Path   string
	Width  vg.Length
	Height vg.Length
}

// NewRenderer returns a Renderer writing a 6.4x4.8 inch image to path.
func NewRenderer(path string) *Renderer {
	return &Renderer{Path: path, Width: 6.4 * vg.Inch, Height: 4.8 * vg.Inch}
}

// Render draws one bar per count in its category colour and saves the chart,
// overwriting any previous file. The image format follows the path extension.
func (r *Renderer) Render(year model.Year, counts []model.CategoryCount) (string, error) {
	if len(counts) == 0 {
		return "", apperr.Render(nil, "chart: no categories to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Area Analysis (%s)", year)
	p.X.Label.Text = "Features"
	p.Y.Label.Text = "Area"
	p.Y.Min = 0

	labels := make([]string, 0, len(counts))
	for i, cc := range counts {
		bars, err := plotter.NewBarChart(plotter.Values{float64(cc.Pixels)}, vg.Points(48))
		if err != nil {
			return "", apperr.Render(err, "chart: build bar")
		}
		bars.Color = cc.Category.RGBA()
		bars.LineStyle.Width = vg.Length(0)
		bars.XMin = float64(i)
		p.Add(bars)
		labels = append(labels, cc.Category.Name())
	}
	p.NominalX(labels...)

	if err := p.Save(r.Width, r.Height, r.Path); err != nil {
		return "", apperr.Render(eris.Wrap(err, r.Path), "chart: save")
	}
	return r.Path, nil
}
