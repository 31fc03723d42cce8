// Package gdalraster decodes GeoTIFF land-cover rasters through GDAL.
package gdalraster

import (
	"context"

	"github.com/lukeroth/gdal"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/model"
	"github.com/sells-group/landcover-cli/internal/raster"
)

// Opener implements raster.Opener with GDAL.
type Opener struct{}

// New returns a GDAL-backed raster opener.
func New() *Opener { return &Opener{} }

// Open reads the first three bands of the raster at path as float64 and
// derives its bounds from the geotransform. Rotated rasters are rejected.
func (o *Opener) Open(ctx context.Context, path string) (*raster.Dataset, error) {
	log := zap.L().With(zap.String("component", "gdalraster"), zap.String("path", path))

	ds, err := gdal.Open(path, gdal.ReadOnly)
	if err != nil {
		return nil, eris.Wrapf(err, "gdalraster: open %s", path)
	}
	defer ds.Close()

	width, height, count := ds.RasterXSize(), ds.RasterYSize(), ds.RasterCount()
	if count < raster.BandCount {
		return nil, eris.Errorf("gdalraster: %s has %d bands, need %d", path, count, raster.BandCount)
	}

	gt := ds.GeoTransform()
	bounds, err := boundsFromGeoTransform(gt, width, height)
	if err != nil {
		return nil, eris.Wrapf(err, "gdalraster: %s", path)
	}

	log.Debug("reading raster", zap.Int("width", width), zap.Int("height", height), zap.Int("bands", count))

	out := &raster.Dataset{Width: width, Height: height, Bounds: bounds}
	for i := 1; i <= raster.BandCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "gdalraster: read cancelled")
		}
		buf := make([]float64, width*height)
		band := ds.RasterBand(i)
		if err := band.IO(gdal.Read, 0, 0, width, height, buf, width, height, 0, 0); err != nil {
			return nil, eris.Wrapf(err, "gdalraster: read band %d", i)
		}
		out.Bands = append(out.Bands, buf)
	}

	return out, nil
}

// boundsFromGeoTransform converts a north-up GDAL geotransform into bounds.
func boundsFromGeoTransform(gt [6]float64, width, height int) (model.Bounds, error) {
	if gt[2] != 0 || gt[4] != 0 {
		return model.Bounds{}, eris.New("rotated geotransform not supported")
	}
	if gt[1] == 0 || gt[5] == 0 {
		return model.Bounds{}, eris.New("raster has no geotransform")
	}

	x0, x1 := gt[0], gt[0]+float64(width)*gt[1]
	y0, y1 := gt[3], gt[3]+float64(height)*gt[5]
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return model.Bounds{South: y0, West: x0, North: y1, East: x1}, nil
}
