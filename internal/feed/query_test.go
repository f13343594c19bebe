package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textPtr(s string) *string { return &s }
func intPtr(n int64) *int64    { return &n }

func roadInfoRows(rows ...[]any) *pgxmock.Rows {
	r := pgxmock.NewRows([]string{"routeId", "roadRank", "routeTp", "routeNo", "routeNm"})
	for _, row := range rows {
		r.AddRow(row...)
	}
	return r
}

func TestQuery_ReturnsPage(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "road_data"\."road_info_list"`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(12)))
	mock.ExpectQuery(`SELECT "routeId", "roadRank", "routeTp", "routeNo", "routeNm" FROM "road_data"\."road_info_list" ORDER BY "routeId", id OFFSET \$1 LIMIT \$2`).
		WithArgs(0, 10).
		WillReturnRows(roadInfoRows(
			[]any{textPtr("R-1"), textPtr("national"), (*string)(nil), textPtr("30"), textPtr("Route One")},
			[]any{textPtr("R-2"), textPtr("local"), textPtr("IC"), textPtr("31"), textPtr("Route Two")},
		))

	result, err := store.Query(context.Background(), "getRoadInfoList", 1, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(12), result.Total)
	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Items, 2)

	// NULL columns stay absent rather than becoming empty strings.
	assert.False(t, result.Items[0].Has("routeTp"))
	assert.Equal(t, "Route One", result.Items[0]["routeNm"])
	assert.Equal(t, "IC", result.Items[1]["routeTp"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_OffsetFromPage(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(40)))
	mock.ExpectQuery(`OFFSET \$1 LIMIT \$2`).
		WithArgs(30, 15).
		WillReturnRows(roadInfoRows())

	result, err := store.Query(context.Background(), "getRoadInfoList", 3, 15, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(40), result.Total)
	assert.Empty(t, result.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_FiltersApplyToFetchedPage(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(`OFFSET \$1 LIMIT \$2`).
		WithArgs(0, 10).
		WillReturnRows(roadInfoRows(
			[]any{textPtr("R-1"), textPtr("national"), (*string)(nil), (*string)(nil), textPtr("East Bypass")},
			[]any{textPtr("R-2"), textPtr("local"), (*string)(nil), (*string)(nil), textPtr("West Bypass")},
			[]any{textPtr("R-3"), textPtr("national"), (*string)(nil), (*string)(nil), textPtr("Ring Road")},
		))

	result, err := store.Query(context.Background(), "getRoadInfoList", 1, 0, []Predicate{
		{Field: "roadRank", Op: OpEq, Value: "national"},
		{Field: "routeNm", Op: OpContains, Value: "Bypass"},
	})
	require.NoError(t, err)

	// Filtering happens after the page window is cut, so Total still counts
	// every stored row while Count reflects only the survivors.
	assert.Equal(t, int64(3), result.Total)
	assert.Equal(t, 1, result.Count)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "East Bypass", result.Items[0]["routeNm"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_RangePredicate(t *testing.T) {
	store, mock := newTestStore(t)

	cols := []string{"laeId", "laeNm", "pkplcId", "pkplcNm", "pklotCnt", "avblPklotCnt", "ocrnDt"}
	rows := pgxmock.NewRows(cols).
		AddRow(textPtr("1"), textPtr("north"), textPtr("P1"), textPtr("station lot"), intPtr(100), intPtr(5), textPtr("20260115")).
		AddRow(textPtr("1"), textPtr("north"), textPtr("P2"), textPtr("market lot"), intPtr(60), intPtr(41), textPtr("20260115")).
		AddRow(textPtr("1"), textPtr("north"), textPtr("P3"), textPtr("stadium lot"), intPtr(200), intPtr(160), textPtr("20260115"))

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(`FROM "road_data"\."parking_place_availability_info_list" ORDER BY "laeId", "pkplcId", id`).
		WithArgs(0, 10).
		WillReturnRows(rows)

	result, err := store.Query(context.Background(), "getParkingPlaceAvailabilityInfoList", 1, 0, []Predicate{
		{Field: "avblPklotCnt", Op: OpRange, Min: intPtr(10), Max: intPtr(100)},
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "market lot", result.Items[0]["pkplcNm"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_EqMatchesNumericFieldAsString(t *testing.T) {
	store, mock := newTestStore(t)

	cols := []string{"laeId", "laeNm", "pkplcId", "pkplcNm", "pklotCnt", "avblPklotCnt", "ocrnDt"}
	rows := pgxmock.NewRows(cols).
		AddRow(textPtr("1"), textPtr("north"), textPtr("P1"), textPtr("station lot"), intPtr(100), intPtr(5), textPtr("20260115"))

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(`OFFSET \$1 LIMIT \$2`).
		WithArgs(0, 10).
		WillReturnRows(rows)

	result, err := store.Query(context.Background(), "getParkingPlaceAvailabilityInfoList", 1, 0, []Predicate{
		{Field: "pklotCnt", Op: OpEq, Value: "100"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_ValidationErrors(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		page     int
		pageSize int
		preds    []Predicate
	}{
		{"page zero", 0, 10, nil},
		{"negative page", -2, 10, nil},
		{"page size over max", 1, 101, nil},
		{"negative page size", 1, -1, nil},
		{"unknown field", 1, 10, []Predicate{{Field: "nope", Op: OpEq, Value: "x"}}},
		{"contains on numeric field", 1, 10, []Predicate{{Field: "pklotCnt", Op: OpContains, Value: "1"}}},
		{"range on text field", 1, 10, []Predicate{{Field: "pkplcNm", Op: OpRange, Min: intPtr(1)}}},
		{"range without bounds", 1, 10, []Predicate{{Field: "pklotCnt", Op: OpRange}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Query(ctx, "getParkingPlaceAvailabilityInfoList", tt.page, tt.pageSize, tt.preds)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
		})
	}
}

func TestQuery_UnknownFeed(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Query(context.Background(), "getNoSuchFeed", 1, 10, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFeed))
}
