// Package raster classifies three-band land-cover rasters into an RGB overlay.
package raster

import (
	"context"
	"image"

	"github.com/rotisserie/eris"

	"github.com/sells-group/landcover-cli/internal/model"
)

// BandCount is the number of indicator bands a land-cover raster must carry.
const BandCount = 3

// Dataset is a decoded raster held in memory. Bands are row-major and
// ordered vegetation, water, infrastructure.
type Dataset struct {
	Width  int
	Height int
	Bands  [][]float64
	Bounds model.Bounds
}

// Validate checks that the dataset carries enough bands of the right size.
func (d *Dataset) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return eris.Errorf("raster: invalid dimensions %dx%d", d.Width, d.Height)
	}
	if len(d.Bands) < BandCount {
		return eris.Errorf("raster: need %d bands, got %d", BandCount, len(d.Bands))
	}
	want := d.Width * d.Height
	for i, b := range d.Bands[:BandCount] {
		if len(b) != want {
			return eris.Errorf("raster: band %d has %d values, want %d", i, len(b), want)
		}
	}
	return nil
}

// Opener decodes a raster file from disk.
type Opener interface {
	Open(ctx context.Context, path string) (*Dataset, error)
}

// Result is the classification overlay plus per-category pixel counts in
// source-iteration order.
type Result struct {
	Image  *image.RGBA
	Counts []model.CategoryCount
}

// Count returns the pixel count of c, and whether c was classified.
func (r *Result) Count(c model.Category) (int, bool) {
	for _, cc := range r.Counts {
		if cc.Category == c {
			return cc.Pixels, true
		}
	}
	return 0, false
}

// Classify marks every pixel whose source band is strictly positive with 255
// in the category's output channel. Disabled categories leave their channel
// at 0. Channels are independent, so a pixel may carry several categories.
func Classify(d *Dataset, sel model.Selection) (*Result, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}

	res := &Result{Image: img}
	for _, c := range sel.Categories() {
		band := d.Bands[c.Band()]
		ch := int(c.Channel())
		n := 0
		for y := 0; y < d.Height; y++ {
			row := y * d.Width
			off := y * img.Stride
			for x := 0; x < d.Width; x++ {
				if band[row+x] > 0 {
					img.Pix[off+x*4+ch] = 0xff
					n++
				}
			}
		}
		res.Counts = append(res.Counts, model.CategoryCount{Category: c, Pixels: n})
	}

	return res, nil
}
