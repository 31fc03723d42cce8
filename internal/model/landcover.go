package model

import (
	"image/color"
	"strings"

	"github.com/rotisserie/eris"
)

// Category is a land-cover class derived from one raster band.
type Category int

// Categories in source-iteration order.
const (
	Vegetation Category = iota
	Water
	Infrastructure
)

// AllCategories returns every category in source-iteration order.
func AllCategories() []Category {
	return []Category{Vegetation, Water, Infrastructure}
}

// Channel identifies an RGB channel of the classification image.
type Channel int

// RGB channel offsets within an image.RGBA pixel.
const (
	ChannelRed   Channel = 0
	ChannelGreen Channel = 1
	ChannelBlue  Channel = 2
)

type categoryInfo struct {
	key     string
	name    string
	color   string
	rgba    color.RGBA
	band    int
	channel Channel
}

var categoryTable = map[Category]categoryInfo{
	Vegetation: {
		key: "vegetation", name: "Vegetation", color: "green",
		rgba: color.RGBA{G: 128, A: 255}, band: 0, channel: ChannelGreen,
	},
	Water: {
		key: "water", name: "Water Bodies", color: "blue",
		rgba: color.RGBA{B: 255, A: 255}, band: 1, channel: ChannelBlue,
	},
	Infrastructure: {
		key: "infrastructure", name: "Infrastructure", color: "red",
		rgba: color.RGBA{R: 255, A: 255}, band: 2, channel: ChannelRed,
	},
}

// Key returns the lowercase identifier used in flags and form fields.
func (c Category) Key() string { return categoryTable[c].key }

// Name returns the display name used in the chart and legend.
func (c Category) Name() string { return categoryTable[c].name }

// Color returns the CSS colour name of the category.
func (c Category) Color() string { return categoryTable[c].color }

// RGBA returns the chart colour of the category.
func (c Category) RGBA() color.RGBA { return categoryTable[c].rgba }

// Band returns the zero-based source band index.
func (c Category) Band() int { return categoryTable[c].band }

// Channel returns the output channel of the classification image.
func (c Category) Channel() Channel { return categoryTable[c].channel }

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

func (c Category) String() string { return c.Name() }

// ParseCategory resolves a category key such as "water".
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range AllCategories() {
		if c.Key() == s {
			return c, nil
		}
	}
	return 0, eris.Errorf("model: unknown category %q", s)
}

// Selection is the set of enabled categories.
type Selection struct {
	Vegetation     bool `json:"vegetation"`
	Water          bool `json:"water"`
	Infrastructure bool `json:"infrastructure"`
}

// Has reports whether c is enabled.
func (s Selection) Has(c Category) bool {
	switch c {
	case Vegetation:
		return s.Vegetation
	case Water:
		return s.Water
	case Infrastructure:
		return s.Infrastructure
	}
	return false
}

// Set enables or disables c.
func (s *Selection) Set(c Category, on bool) {
	switch c {
	case Vegetation:
		s.Vegetation = on
	case Water:
		s.Water = on
	case Infrastructure:
		s.Infrastructure = on
	}
}

// Empty reports whether no category is enabled.
func (s Selection) Empty() bool {
	return !s.Vegetation && !s.Water && !s.Infrastructure
}

// Categories returns the enabled categories in source-iteration order.
func (s Selection) Categories() []Category {
	var out []Category
	for _, c := range AllCategories() {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Year is one of the supported analysis periods.
type Year string

// Supported analysis periods.
const (
	Year2018 Year = "2018-2019"
	Year2020 Year = "2020-2021"
	Year2022 Year = "2022-2023"
)

// AllYears returns the supported years in display order.
func AllYears() []Year {
	return []Year{Year2018, Year2020, Year2022}
}

// Valid reports whether y is a supported year.
func (y Year) Valid() bool {
	for _, v := range AllYears() {
		if v == y {
			return true
		}
	}
	return false
}

func (y Year) String() string { return string(y) }

// Bounds is a geographic bounding box in degrees.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Leaflet returns the bounds as [[south, west], [north, east]].
func (b Bounds) Leaflet() [2][2]float64 {
	return [2][2]float64{{b.South, b.West}, {b.North, b.East}}
}

// CategoryCount is the number of positive pixels found for a category.
type CategoryCount struct {
	Category Category `json:"category"`
	Pixels   int      `json:"pixels"`
}

// LegendStyle controls how a legend swatch is drawn.
type LegendStyle string

// Legend swatch styles.
const (
	LegendOutline LegendStyle = "outline"
	LegendFill    LegendStyle = "fill"
)

// LegendEntry is one swatch+label line of the map legend.
type LegendEntry struct {
	Label string      `json:"label"`
	Color string      `json:"color"`
	Style LegendStyle `json:"style"`
}
