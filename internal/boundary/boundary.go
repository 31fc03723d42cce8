// Package boundary reads the administrative boundary polygon from PostGIS.
package boundary

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/apperr"
	"github.com/sells-group/landcover-cli/internal/db"
)

// Feature is one row of the boundary table.
type Feature struct {
	Geometry   geom.T
	Properties map[string]any
}

// Boundary is the full contents of the boundary table.
type Boundary struct {
	Features []Feature
}

// GeoJSON encodes the boundary as a FeatureCollection.
func (b *Boundary) GeoJSON() ([]byte, error) {
	fc := &geojson.FeatureCollection{}
	for _, f := range b.Features {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   f.Geometry,
			Properties: f.Properties,
		})
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "boundary: encode geojson")
	}
	return data, nil
}

// Provider queries a single boundary table. Each call opens and closes its own connection.
type Provider struct {
	connect    db.Connector
	table      string
	geomColumn string
}

// NewProvider creates a Provider for table with geometry column geomColumn.
func NewProvider(connect db.Connector, table, geomColumn string) *Provider {
	return &Provider{connect: connect, table: table, geomColumn: geomColumn}
}

// Fetch returns every row of the boundary table. Any connection, query or
// decode failure, and an empty table, is reported as an upstream error; no
// partial result is returned.
func (p *Provider) Fetch(ctx context.Context) (*Boundary, error) {
	log := zap.L().With(zap.String("component", "boundary"), zap.String("table", p.table))

	pool, err := p.connect(ctx)
	if err != nil {
		return nil, apperr.Upstream(err, "boundary: connect")
	}
	defer pool.Close()

	sql := fmt.Sprintf(
		`SELECT ST_AsEWKB(t.%s), (to_jsonb(t) - $1::text)::text FROM %s t`,
		db.Quote(p.geomColumn), db.Quote(p.table),
	)
	rows, err := pool.Query(ctx, sql, p.geomColumn)
	if err != nil {
		return nil, apperr.Upstream(err, "boundary: query")
	}
	defer rows.Close()

	var b Boundary
	for rows.Next() {
		var (
			wkb   []byte
			props string
		)
		if err := rows.Scan(&wkb, &props); err != nil {
			return nil, apperr.Upstream(err, "boundary: scan row")
		}
		if len(wkb) == 0 {
			return nil, apperr.Upstream(nil, "boundary: row has null geometry")
		}

		g, err := ewkb.Unmarshal(wkb)
		if err != nil {
			return nil, apperr.Upstream(err, "boundary: decode geometry")
		}

		f := Feature{Geometry: g, Properties: map[string]any{}}
		if props != "" {
			if err := json.Unmarshal([]byte(props), &f.Properties); err != nil {
				return nil, apperr.Upstream(err, "boundary: decode properties")
			}
		}
		b.Features = append(b.Features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Upstream(err, "boundary: iterate rows")
	}

	if len(b.Features) == 0 {
		return nil, apperr.Upstream(nil, fmt.Sprintf("boundary: table %s returned no rows", p.table))
	}

	log.Debug("boundary fetched", zap.Int("features", len(b.Features)))
	return &b, nil
}

// TotalArea returns SUM(ST_Area(geom)) over the boundary table, in the
// units of the table's spatial reference.
func (p *Provider) TotalArea(ctx context.Context) (float64, error) {
	pool, err := p.connect(ctx)
	if err != nil {
		return 0, apperr.Upstream(err, "boundary: connect")
	}
	defer pool.Close()

	sql := fmt.Sprintf(`SELECT SUM(ST_Area(%s)) FROM %s`, db.Quote(p.geomColumn), db.Quote(p.table))

	var area pgtype.Float8
	if err := pool.QueryRow(ctx, sql).Scan(&area); err != nil {
		return 0, apperr.Upstream(err, "boundary: total area")
	}
	if !area.Valid {
		return 0, apperr.Upstream(nil, fmt.Sprintf("boundary: table %s has no geometries", p.table))
	}
	return area.Float64, nil
}
