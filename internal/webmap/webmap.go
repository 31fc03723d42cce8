// Package webmap composes the interactive Leaflet map document.
package webmap

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"html/template"
	"image"
	"image/png"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/landcover-cli/internal/apperr"
	"github.com/sells-group/landcover-cli/internal/industry"
	"github.com/sells-group/landcover-cli/internal/model"
)

// Options are the fixed settings of every composed map.
type Options struct {
	Title          string
	CenterLat      float64
	CenterLon      float64
	Zoom           int
	OverlayOpacity float64
	TileURL        string
	Attribution    string
}

// Document is everything one map needs.
type Document struct {
	Bounds      model.Bounds
	Overlay     image.Image
	Boundary    []byte // GeoJSON
	Industries  []industry.Site
	ChartPath   string
	Legend      []model.LegendEntry
	ShowMarkers bool
}

// Composer writes map documents to a fixed path.
type Composer struct {
	Path string
	Opts Options
}

// NewComposer returns a Composer writing to path.
func NewComposer(path string, opts Options) *Composer {
	return &Composer{Path: path, Opts: opts}
}

type marker struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}

type legendLine struct {
	Label  string
	Color  string
	Border bool
}

type pageData struct {
	Title       string
	Center      [2]float64
	Zoom        int
	TileURL     string
	Attribution string
	Opacity     float64
	OverlayURL  string
	Bounds      [2][2]float64
	Boundary    json.RawMessage
	Markers     []marker
	Legend      []legendLine
	ChartURL    template.URL
}

// Compose renders doc and writes it to the composer's path, overwriting any
// previous file. Any encoding or write failure is a render error.
func (c *Composer) Compose(doc Document) (string, error) {
	overlay, err := pngDataURI(doc.Overlay)
	if err != nil {
		return "", apperr.Render(err, "webmap: encode overlay")
	}

	chartData, err := os.ReadFile(doc.ChartPath)
	if err != nil {
		return "", apperr.Render(err, "webmap: read chart image")
	}

	boundary := json.RawMessage(doc.Boundary)
	if len(boundary) == 0 {
		boundary = json.RawMessage(`{"type":"FeatureCollection","features":[]}`)
	}

	data := pageData{
		Title:       c.Opts.Title,
		Center:      [2]float64{c.Opts.CenterLat, c.Opts.CenterLon},
		Zoom:        c.Opts.Zoom,
		TileURL:     c.Opts.TileURL,
		Attribution: c.Opts.Attribution,
		Opacity:     c.Opts.OverlayOpacity,
		OverlayURL:  overlay,
		Bounds:      doc.Bounds.Leaflet(),
		Boundary:    boundary,
		Markers:     []marker{},
		ChartURL:    template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(chartData)),
	}
	if doc.ShowMarkers {
		for _, s := range doc.Industries {
			data.Markers = append(data.Markers, marker{Lat: s.Lat, Lon: s.Lon, Name: s.Name})
		}
	}
	for _, e := range doc.Legend {
		data.Legend = append(data.Legend, legendLine{Label: e.Label, Color: e.Color, Border: e.Style == model.LegendOutline})
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return "", apperr.Render(err, "webmap: render template")
	}

	if err := os.WriteFile(c.Path, buf.Bytes(), 0o644); err != nil {
		return "", apperr.Render(err, "webmap: write map")
	}
	return c.Path, nil
}

func pngDataURI(img image.Image) (string, error) {
	if img == nil {
		return "", eris.New("no overlay image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
