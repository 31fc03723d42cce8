package boundary

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/db"
	"github.com/sells-group/landcover-cli/internal/shape"
)

// LoadOptions configures a boundary import.
type LoadOptions struct {
	Table      string
	GeomColumn string
	NameField  string // shapefile attribute copied into the name column; optional
}

// Load replaces the contents of the boundary table with the polygons of a
// shapefile. The table is created with a GiST index when missing.
func Load(ctx context.Context, pool db.Pool, shpPath string, opts LoadOptions) (int64, error) {
	log := zap.L().With(zap.String("component", "boundary.loader"), zap.String("table", opts.Table))

	reader, err := shp.Open(shpPath)
	if err != nil {
		return 0, eris.Wrapf(err, "boundary: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := shape.FieldIndex(reader, opts.NameField)

	var rows [][]any
	var skipped int
	for reader.Next() {
		_, s := reader.Shape()
		if _, ok := s.(*shp.Polygon); !ok {
			skipped++
			continue
		}
		wkb, err := shape.EncodeWKB(s)
		if err != nil || wkb == nil {
			skipped++
			continue
		}
		rows = append(rows, []any{shape.Attribute(reader, nameIdx), wkb})
	}
	if err := reader.Err(); err != nil && !eris.Is(err, io.EOF) {
		return 0, eris.Wrapf(err, "boundary: read shapefile %s", shpPath)
	}
	if len(rows) == 0 {
		return 0, eris.Errorf("boundary: shapefile %s has no polygons", shpPath)
	}

	table := db.Quote(opts.Table)
	geomCol := db.Quote(opts.GeomColumn)
	index := pgx.Identifier{"idx_" + strings.ReplaceAll(opts.Table, ".", "_") + "_" + opts.GeomColumn}.Sanitize()

	// Ensure table exists.
	_, err = pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id SERIAL PRIMARY KEY,
			name TEXT,
			%s geometry(MultiPolygon, 4326)
		)`, table, geomCol))
	if err != nil {
		return 0, eris.Wrap(err, "boundary: create table")
	}

	_, err = pool.Exec(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s USING gist (%s)`, index, table, geomCol))
	if err != nil {
		return 0, eris.Wrap(err, "boundary: create spatial index")
	}

	// Truncate existing data.
	if _, err = pool.Exec(ctx, fmt.Sprintf(`TRUNCATE %s`, table)); err != nil {
		return 0, eris.Wrap(err, "boundary: truncate")
	}

	n, err := db.CopyFrom(ctx, pool, opts.Table, []string{"name", opts.GeomColumn}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "boundary: load rows")
	}

	log.Info("boundary shapefile loaded", zap.Int64("records", n), zap.Int("skipped", skipped))
	return n, nil
}
