// Package industry loads industrial site locations from a point shapefile.
package industry

import (
	"io"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/shape"
)

// DefaultName labels sites whose name attribute is missing or blank.
const DefaultName = "Industry"

// Site is a single industrial location.
type Site struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Load reads every record of the shapefile at path. Each shape is reduced
// to its centroid; null shapes are skipped.
func Load(path, nameField string) ([]Site, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "industry: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := shape.FieldIndex(reader, nameField)

	var sites []Site
	var skipped int
	for reader.Next() {
		_, s := reader.Shape()
		c, ok := centroid(shape.ToGeom(s))
		if !ok {
			skipped++
			continue
		}

		name := shape.Attribute(reader, nameIdx)
		if name == "" {
			name = DefaultName
		}
		sites = append(sites, Site{Name: name, Lat: c.Y(), Lon: c.X()})
	}
	if err := reader.Err(); err != nil && !eris.Is(err, io.EOF) {
		return nil, eris.Wrapf(err, "industry: read shapefile %s", path)
	}

	if skipped > 0 {
		zap.L().Debug("industry: skipped shapefile records", zap.String("path", path), zap.Int("skipped", skipped))
	}
	return sites, nil
}

func centroid(g geom.T) (geom.Coord, bool) {
	if g == nil {
		return nil, false
	}
	if pt, ok := g.(*geom.Point); ok {
		return pt.Coords(), true
	}
	c, err := xy.Centroid(g)
	if err != nil || len(c) < 2 {
		return nil, false
	}
	return c, true
}
