package boundary

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/sells-group/landcover-cli/internal/apperr"
	"github.com/sells-group/landcover-cli/internal/db"
)

// trackedPool keeps the mock open across Close so expectations can be checked afterwards.
type trackedPool struct {
	pgxmock.PgxPoolIface
	closed int
}

func (p *trackedPool) Close() { p.closed++ }

func newMockProvider(t *testing.T) (*Provider, pgxmock.PgxPoolIface, *trackedPool) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	tp := &trackedPool{PgxPoolIface: mock}
	connect := func(context.Context) (db.Pool, error) { return tp, nil }
	return NewProvider(connect, "lahore_boundary", "geom"), mock, tp
}

func lahoreWKB(t *testing.T) []byte {
	t.Helper()
	poly := geom.NewPolygonFlat(geom.XY, []float64{
		74.2, 31.4, 74.2, 31.7, 74.5, 31.7, 74.5, 31.4, 74.2, 31.4,
	}, []int{10}).SetSRID(4326)
	data, err := ewkb.Marshal(poly, ewkb.NDR)
	require.NoError(t, err)
	return data
}

func TestFetch_Success(t *testing.T) {
	p, mock, tp := newMockProvider(t)

	mock.ExpectQuery(`SELECT ST_AsEWKB\(t."geom"\).+FROM "lahore_boundary" t`).
		WithArgs("geom").
		WillReturnRows(pgxmock.NewRows([]string{"st_asewkb", "text"}).
			AddRow(lahoreWKB(t), `{"id": 1, "name": "Lahore"}`))

	b, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, b.Features, 1)
	assert.Equal(t, "Lahore", b.Features[0].Properties["name"])
	assert.IsType(t, &geom.Polygon{}, b.Features[0].Geometry)
	assert.Equal(t, 1, tp.closed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetch_GeoJSON(t *testing.T) {
	p, mock, _ := newMockProvider(t)

	mock.ExpectQuery(`SELECT ST_AsEWKB`).
		WithArgs("geom").
		WillReturnRows(pgxmock.NewRows([]string{"st_asewkb", "text"}).
			AddRow(lahoreWKB(t), `{"name": "Lahore"}`).
			AddRow(lahoreWKB(t), `{"name": "Cantonment"}`))

	b, err := p.Fetch(context.Background())
	require.NoError(t, err)

	data, err := b.GeoJSON()
	require.NoError(t, err)

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "Polygon", fc.Features[0].Geometry.Type)
	assert.Equal(t, "Cantonment", fc.Features[1].Properties["name"])
}

func TestFetch_EmptyTable(t *testing.T) {
	p, mock, tp := newMockProvider(t)

	mock.ExpectQuery(`SELECT ST_AsEWKB`).
		WithArgs("geom").
		WillReturnRows(pgxmock.NewRows([]string{"st_asewkb", "text"}))

	b, err := p.Fetch(context.Background())
	require.Error(t, err)
	assert.Nil(t, b)
	assert.True(t, eris.Is(err, apperr.ErrUpstream))
	assert.Contains(t, err.Error(), "returned no rows")
	assert.Equal(t, 1, tp.closed)
}

func TestFetch_QueryError(t *testing.T) {
	p, mock, _ := newMockProvider(t)

	mock.ExpectQuery(`SELECT ST_AsEWKB`).
		WithArgs("geom").
		WillReturnError(fmt.Errorf(`relation "lahore_boundary" does not exist`))

	_, err := p.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, eris.Is(err, apperr.ErrUpstream))
	assert.Contains(t, err.Error(), "does not exist")
}

func TestFetch_BadGeometry(t *testing.T) {
	p, mock, _ := newMockProvider(t)

	mock.ExpectQuery(`SELECT ST_AsEWKB`).
		WithArgs("geom").
		WillReturnRows(pgxmock.NewRows([]string{"st_asewkb", "text"}).
			AddRow([]byte{0x01, 0x02}, `{}`))

	_, err := p.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, eris.Is(err, apperr.ErrUpstream))
	assert.Contains(t, err.Error(), "decode geometry")
}

func TestFetch_ConnectError(t *testing.T) {
	connect := func(context.Context) (db.Pool, error) {
		return nil, fmt.Errorf("dial tcp 127.0.0.1:5432: connection refused")
	}
	p := NewProvider(connect, "lahore_boundary", "geom")

	_, err := p.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, "upstream", apperr.Kind(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestTotalArea_Success(t *testing.T) {
	p, mock, tp := newMockProvider(t)

	mock.ExpectQuery(`SELECT SUM\(ST_Area\("geom"\)\) FROM "lahore_boundary"`).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).
			AddRow(pgtype.Float8{Float64: 0.1532, Valid: true}))

	area, err := p.TotalArea(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.1532, area, 1e-9)
	assert.Equal(t, 1, tp.closed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalArea_NullSum(t *testing.T) {
	p, mock, _ := newMockProvider(t)

	mock.ExpectQuery(`SELECT SUM\(ST_Area`).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(pgtype.Float8{}))

	_, err := p.TotalArea(context.Background())
	require.Error(t, err)
	assert.True(t, eris.Is(err, apperr.ErrUpstream))
	assert.Contains(t, err.Error(), "has no geometries")
}

func TestTotalArea_QueryError(t *testing.T) {
	p, mock, _ := newMockProvider(t)

	mock.ExpectQuery(`SELECT SUM\(ST_Area`).
		WillReturnError(fmt.Errorf("function st_area(geometry) does not exist"))

	_, err := p.TotalArea(context.Background())
	require.Error(t, err)
	assert.True(t, eris.Is(err, apperr.ErrUpstream))
	assert.Contains(t, err.Error(), "total area")
}
