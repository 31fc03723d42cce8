// Package analysis runs the land-cover pipeline behind the selection form.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/apperr"
	"github.com/sells-group/landcover-cli/internal/boundary"
	"github.com/sells-group/landcover-cli/internal/config"
	"github.com/sells-group/landcover-cli/internal/industry"
	"github.com/sells-group/landcover-cli/internal/model"
	"github.com/sells-group/landcover-cli/internal/raster"
	"github.com/sells-group/landcover-cli/internal/webmap"
)

// BoundarySource returns the administrative boundary.
type BoundarySource interface {
	Fetch(ctx context.Context) (*boundary.Boundary, error)
}

// ChartRenderer draws the pixel count chart and returns its path.
type ChartRenderer interface {
	Render(year model.Year, counts []model.CategoryCount) (string, error)
}

// MapComposer writes the map document and returns its path.
type MapComposer interface {
	Compose(doc webmap.Document) (string, error)
}

// SiteLoader reads industrial sites from a shapefile.
type SiteLoader func(path, nameField string) ([]industry.Site, error)

// Inputs locates the files a run reads.
type Inputs struct {
	Rasters        map[model.Year]string
	IndustriesPath string
	NameField      string
	Region         string
}

// InputsFromConfig builds Inputs from the loaded configuration.
func InputsFromConfig(cfg *config.Config) Inputs {
	in := Inputs{
		Rasters:        make(map[model.Year]string, len(cfg.Raster.Years)),
		IndustriesPath: cfg.Industries.Shapefile,
		NameField:      cfg.Industries.NameField,
		Region:         cfg.Map.Region,
	}
	for y, p := range cfg.Raster.Years {
		in.Rasters[model.Year(y)] = p
	}
	return in
}

// Pipeline wires the analysis components together. It is stateless; every
// Run is independent.
type Pipeline struct {
	in       Inputs
	boundary BoundarySource
	rasters  raster.Opener
	chart    ChartRenderer
	maps     MapComposer
	sites    SiteLoader
}

// NewPipeline creates a Pipeline.
func NewPipeline(in Inputs, b BoundarySource, r raster.Opener, c ChartRenderer, m MapComposer, s SiteLoader) *Pipeline {
	if s == nil {
		s = industry.Load
	}
	return &Pipeline{in: in, boundary: b, rasters: r, chart: c, maps: m, sites: s}
}

// StageTiming records how long one pipeline stage took.
type StageTiming struct {
	Name     string `json:"name"`
	Duration int64  `json:"duration_ms"`
}

// Result describes a successful run.
type Result struct {
	RunID       string                `json:"run_id"`
	Year        model.Year            `json:"year"`
	Counts      []model.CategoryCount `json:"counts"`
	TotalPixels int                   `json:"total_pixels"`
	Legend      []model.LegendEntry   `json:"legend"`
	Sites       int                   `json:"sites"`
	ChartPath   string                `json:"chart_path"`
	MapPath     string                `json:"map_path"`
	Stages      []StageTiming         `json:"stages"`
}

// Request is one validated form submission.
type Request struct {
	Year      model.Year
	Selection model.Selection
}

// Validate reports a validation error when no year or no category is set.
func (r Request) Validate() error {
	if r.Year == "" || r.Selection.Empty() {
		return apperr.Validation("Please select at least one year and one feature.")
	}
	if !r.Year.Valid() {
		return apperr.Validation("unknown year " + string(r.Year))
	}
	return nil
}

// Run executes one analysis. Validation, missing inputs and boundary
// failures abort before any file is written.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.NewString(), Year: req.Year}
	log := zap.L().With(zap.String("run_id", res.RunID), zap.String("year", string(req.Year)))
	log.Info("analysis: starting", zap.Stringers("categories", req.Selection.Categories()))

	rasterPath := p.in.Rasters[req.Year]
	if !config.FileExists(rasterPath) {
		return nil, apperr.NotFound("Raster file not found: %s", rasterPath)
	}
	if !config.FileExists(p.in.IndustriesPath) {
		return nil, apperr.NotFound("Industries shapefile not found: %s", p.in.IndustriesPath)
	}

	stage := func(name string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			log.Info("analysis: cancelled", zap.String("stage", name))
			return eris.Wrapf(err, "analysis: cancelled before %s", name)
		}
		start := time.Now()
		err := fn()
		d := time.Since(start).Milliseconds()
		res.Stages = append(res.Stages, StageTiming{Name: name, Duration: d})
		if err != nil && ctx.Err() != nil {
			log.Info("analysis: cancelled", zap.String("stage", name), zap.Int64("duration_ms", d), zap.Error(err))
			return eris.Wrapf(ctx.Err(), "analysis: cancelled during %s", name)
		}
		if err != nil {
			log.Error("analysis: stage failed", zap.String("stage", name), zap.Int64("duration_ms", d), zap.Error(err))
			return err
		}
		log.Debug("analysis: stage complete", zap.String("stage", name), zap.Int64("duration_ms", d))
		return nil
	}

	var bnd *boundary.Boundary
	var boundaryJSON []byte
	if err := stage("boundary", func() error {
		var err error
		bnd, err = p.boundary.Fetch(ctx)
		if err != nil {
			return err
		}
		if bnd == nil || len(bnd.Features) == 0 {
			return apperr.Upstream(nil, "Failed to fetch "+p.in.Region+" boundary from the database.")
		}
		boundaryJSON, err = bnd.GeoJSON()
		if err != nil {
			return apperr.Upstream(err, "analysis: encode boundary")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	var ds *raster.Dataset
	if err := stage("raster", func() error {
		var err error
		ds, err = p.rasters.Open(ctx, rasterPath)
		if err != nil {
			if !config.FileExists(rasterPath) {
				return apperr.NotFound("Raster file not found: %s", rasterPath)
			}
			return apperr.Render(err, "analysis: decode raster")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	var cls *raster.Result
	if err := stage("classify", func() error {
		var err error
		cls, err = raster.Classify(ds, req.Selection)
		if err != nil {
			return apperr.Render(err, "analysis: classify raster")
		}
		return nil
	}); err != nil {
		return nil, err
	}
	res.Counts = cls.Counts
	res.TotalPixels = ds.Width * ds.Height

	if err := stage("chart", func() error {
		var err error
		res.ChartPath, err = p.chart.Render(req.Year, cls.Counts)
		return err
	}); err != nil {
		return nil, err
	}

	showSites := req.Selection.Has(model.Infrastructure)
	var sites []industry.Site
	if showSites {
		if err := stage("industries", func() error {
			var err error
			sites, err = p.sites(p.in.IndustriesPath, p.in.NameField)
			if err != nil {
				return apperr.Render(err, "analysis: load industries")
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}
	res.Sites = len(sites)
	res.Legend = LegendEntries(p.in.Region, req.Selection)

	if err := stage("map", func() error {
		var err error
		res.MapPath, err = p.maps.Compose(webmap.Document{
			Bounds:      ds.Bounds,
			Overlay:     cls.Image,
			Boundary:    boundaryJSON,
			Industries:  sites,
			ChartPath:   res.ChartPath,
			Legend:      res.Legend,
			ShowMarkers: showSites,
		})
		return err
	}); err != nil {
		return nil, err
	}

	log.Info("analysis: complete",
		zap.String("map", res.MapPath),
		zap.Int("total_pixels", res.TotalPixels),
		zap.Int("sites", res.Sites),
	)
	return res, nil
}

// LegendEntries lists the legend lines for a selection: the boundary, the
// industries when infrastructure is enabled, then each enabled category in
// source-iteration order.
func LegendEntries(region string, sel model.Selection) []model.LegendEntry {
	label := "Boundary"
	if region != "" {
		label = region + " Boundary"
	}
	out := []model.LegendEntry{{Label: label, Color: "yellow", Style: model.LegendOutline}}
	if sel.Has(model.Infrastructure) {
		out = append(out, model.LegendEntry{Label: "Industries", Color: "orange", Style: model.LegendFill})
	}
	for _, c := range sel.Categories() {
		out = append(out, model.LegendEntry{Label: c.Name(), Color: c.Color(), Style: model.LegendFill})
	}
	return out
}
