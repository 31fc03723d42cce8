package main

import (
	"github.com/sells-group/landcover-cli/internal/analysis"
	"github.com/sells-group/landcover-cli/internal/boundary"
	"github.com/sells-group/landcover-cli/internal/chart"
	"github.com/sells-group/landcover-cli/internal/config"
	"github.com/sells-group/landcover-cli/internal/db"
	"github.com/sells-group/landcover-cli/internal/industry"
	"github.com/sells-group/landcover-cli/internal/raster/gdalraster"
	"github.com/sells-group/landcover-cli/internal/viewer"
	"github.com/sells-group/landcover-cli/internal/webmap"
)

// initForm validates the configuration for the given mode and wires the
// analysis pipeline behind a Form.
func initForm(mode string) (*analysis.Form, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}
	return newForm(cfg), nil
}

func newForm(c *config.Config) *analysis.Form {
	provider := boundary.NewProvider(db.Connect(c.Database.URL), c.Database.BoundaryTable, c.Database.GeomColumn)
	composer := webmap.NewComposer(c.Output.MapPath, mapOptions(c))
	p := analysis.NewPipeline(
		analysis.InputsFromConfig(c),
		provider,
		gdalraster.New(),
		chart.NewRenderer(c.Output.ChartPath),
		composer,
		industry.Load,
	)
	return analysis.NewForm(p, viewer.New())
}

func mapOptions(c *config.Config) webmap.Options {
	return webmap.Options{
		Title:          c.Map.Region + " Land Cover",
		CenterLat:      c.Map.CenterLat,
		CenterLon:      c.Map.CenterLon,
		Zoom:           c.Map.Zoom,
		OverlayOpacity: c.Map.OverlayOpacity,
		TileURL:        c.Map.TileURL,
		Attribution:    c.Map.Attribution,
	}
}
