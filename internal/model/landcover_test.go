package model

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryAttributes(t *testing.T) {
	tests := []struct {
		c       Category
		key     string
		name    string
		color   string
		rgba    color.RGBA
		band    int
		channel Channel
	}{
		{Vegetation, "vegetation", "Vegetation", "green", color.RGBA{G: 128, A: 255}, 0, ChannelGreen},
		{Water, "water", "Water Bodies", "blue", color.RGBA{B: 255, A: 255}, 1, ChannelBlue},
		{Infrastructure, "infrastructure", "Infrastructure", "red", color.RGBA{R: 255, A: 255}, 2, ChannelRed},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.True(t, tt.c.Valid())
			assert.Equal(t, tt.key, tt.c.Key())
			assert.Equal(t, tt.name, tt.c.Name())
			assert.Equal(t, tt.name, tt.c.String())
			assert.Equal(t, tt.color, tt.c.Color())
			assert.Equal(t, tt.rgba, tt.c.RGBA())
			assert.Equal(t, tt.band, tt.c.Band())
			assert.Equal(t, tt.channel, tt.c.Channel())
		})
	}
	assert.False(t, Category(7).Valid())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Water ")
	require.NoError(t, err)
	assert.Equal(t, Water, c)

	_, err = ParseCategory("roads")
	assert.Error(t, err)
}

func TestSelection(t *testing.T) {
	var s Selection
	assert.True(t, s.Empty())
	assert.Empty(t, s.Categories())

	s.Set(Infrastructure, true)
	s.Set(Vegetation, true)
	assert.False(t, s.Empty())
	assert.True(t, s.Has(Vegetation))
	assert.False(t, s.Has(Water))
	assert.Equal(t, []Category{Vegetation, Infrastructure}, s.Categories())

	s.Set(Vegetation, false)
	assert.Equal(t, []Category{Infrastructure}, s.Categories())
}

func TestYear(t *testing.T) {
	assert.Equal(t, []Year{"2018-2019", "2020-2021", "2022-2023"}, AllYears())
	assert.True(t, Year2020.Valid())
	assert.False(t, Year("2019-2020").Valid())
	assert.False(t, Year("").Valid())
}

func TestBoundsLeaflet(t *testing.T) {
	b := Bounds{South: 31.4, West: 74.2, North: 31.7, East: 74.5}
	assert.Equal(t, [2][2]float64{{31.4, 74.2}, {31.7, 74.5}}, b.Leaflet())
}
