// Package shapetest writes small shapefiles for tests.
package shapetest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/require"
)

// Record is one shape plus its attribute values in field order.
type Record struct {
	Shape shp.Shape
	Attrs []string
}

// Polygon builds a single-ring polygon with its box and counts filled in.
func Polygon(points ...shp.Point) *shp.Polygon {
	return &shp.Polygon{
		Box:       shp.BBoxFromPoints(points),
		NumParts:  1,
		NumPoints: int32(len(points)),
		Parts:     []int32{0},
		Points:    points,
	}
}

// Write creates name.shp in a temp dir and returns its path. go-shp v0.1.1
// names the attribute table "<base>dbf", so it is moved to "<base>.dbf"
// where the reader looks for it.
func Write(t testing.TB, name string, typ shp.ShapeType, fields []shp.Field, records ...Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".shp")
	w, err := shp.Create(path, typ)
	require.NoError(t, err)
	if len(fields) > 0 {
		require.NoError(t, w.SetFields(fields))
	}
	for _, r := range records {
		n := w.Write(r.Shape)
		for i, v := range r.Attrs {
			require.NoError(t, w.WriteAttribute(int(n), i, v))
		}
	}
	w.Close()

	base := strings.TrimSuffix(path, ".shp")
	if _, err := os.Stat(base + "dbf"); err == nil {
		require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	}
	return path
}

// Truncate cuts n bytes off the end of the .shp file at path.
func Truncate(t testing.TB, path string, n int64) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, info.Size()-n))
}
