package sheetssql

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSheetsClient keeps tables as rows of cells, keyed by tab name
type mockSheetsClient struct {
	tables    map[string][][]interface{}
	created   []string
	titlesErr error
}

func newMockSheetsClient() *mockSheetsClient {
	return &mockSheetsClient{tables: map[string][][]interface{}{}}
}

func (m *mockSheetsClient) GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error) {
	name, _, _ := strings.Cut(sheetRange, "!")
	rows, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("unable to parse range: %s", sheetRange)
	}
	return rows, nil
}

func (m *mockSheetsClient) AppendRows(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error {
	m.tables[sheetRange] = append(m.tables[sheetRange], values...)
	return nil
}

func (m *mockSheetsClient) CreateSheet(ctx context.Context, spreadsheetID, sheetTitle string) (int64, error) {
	m.created = append(m.created, sheetTitle)
	m.tables[sheetTitle] = [][]interface{}{}
	return int64(len(m.created)), nil
}

func (m *mockSheetsClient) SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	if m.titlesErr != nil {
		return nil, m.titlesErr
	}
	titles := make([]string, 0, len(m.tables))
	for name := range m.tables {
		titles = append(titles, name)
	}
	return titles, nil
}

func newTestDB(t *testing.T, models ...interface{}) (*DB, *mockSheetsClient) {
	t.Helper()
	mock := newMockSheetsClient()
	schema, err := SchemaFromModels(models...)
	require.NoError(t, err)
	db, err := NewDB(context.Background(), mock, "db-sheet", schema)
	require.NoError(t, err)
	return db, mock
}

func TestSelect_ValidData(t *testing.T) {
	db, mock := newTestDB(t, TestAward{})
	mock.tables["test_award"] = append(mock.tables["test_award"],
		[]interface{}{"a1", "d1", "Alice", "Mug", "1"},
		[]interface{}{"a2", "d1", "Bob", "Hat", "2"},
	)

	results, err := Select[TestAward](context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, []TestAward{
		{ID: "a1", DrawID: "d1", EntryName: "Alice", Prize: "Mug", Rank: 1},
		{ID: "a2", DrawID: "d1", EntryName: "Bob", Prize: "Hat", Rank: 2},
	}, results)
}

func TestSelect_EmptyTable(t *testing.T) {
	db, _ := newTestDB(t, TestAward{})

	results, err := Select[TestAward](context.Background(), db)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSelect_ShortRowsAndReorderedColumns(t *testing.T) {
	mock := newMockSheetsClient()
	mock.tables["test_award"] = [][]interface{}{
		{"prize", "id", "rank", "entry_name", "draw_id"},
		{"text", "uuid", "int", "text", "uuid"},
		{"Mug", "a1", "3"},
	}
	db := &DB{client: mock, spreadsheetID: "db-sheet"}

	results, err := Select[TestAward](context.Background(), db)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, TestAward{ID: "a1", Prize: "Mug", Rank: 3}, results[0])
}

func TestSelect_InvalidInt(t *testing.T) {
	db, mock := newTestDB(t, TestAward{})
	mock.tables["test_award"] = append(mock.tables["test_award"],
		[]interface{}{"a1", "d1", "Alice", "Mug", "first"},
	)

	_, err := Select[TestAward](context.Background(), db)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "row 3, column rank")
}

func TestSelectWhere(t *testing.T) {
	db, mock := newTestDB(t, TestAward{})
	mock.tables["test_award"] = append(mock.tables["test_award"],
		[]interface{}{"a1", "d1", "Alice", "Mug", "1"},
		[]interface{}{"a2", "d2", "Bob", "Hat", "1"},
		[]interface{}{"a3", "d1", "Carol", "Pen", "2"},
	)

	results, err := SelectWhere(context.Background(), db, func(a TestAward) bool { return a.DrawID == "d1" })
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Alice", results[0].EntryName)
	assert.Equal(t, "Carol", results[1].EntryName)
}

func TestInsert_ThenSelect(t *testing.T) {
	ctx := context.Background()
	db, mock := newTestDB(t, TestDraw{})

	drawnAt := time.Date(2025, 12, 1, 18, 30, 0, 0, time.UTC)
	err := Insert(ctx, db,
		TestDraw{ID: "d1", Round: "2025-12-01", DrawnAt: drawnAt},
		TestDraw{ID: "d2", Round: ""},
	)
	require.NoError(t, err)

	rows := mock.tables["test_draw"]
	require.Len(t, rows, 4)
	assert.Equal(t, []interface{}{"d1", "2025-12-01", "2025-12-01T18:30:00Z"}, rows[2])
	assert.Equal(t, []interface{}{"d2", "", ""}, rows[3])

	draws, err := Select[TestDraw](ctx, db)
	require.NoError(t, err)
	require.Len(t, draws, 2)
	assert.True(t, drawnAt.Equal(draws[0].DrawnAt))
	assert.True(t, draws[1].DrawnAt.IsZero())
}

func TestInsert_NoModels(t *testing.T) {
	db, mock := newTestDB(t, TestDraw{})

	require.NoError(t, Insert[TestDraw](context.Background(), db))
	assert.Len(t, mock.tables["test_draw"], 2)
}

func TestSetFieldValue(t *testing.T) {
	type record struct {
		Name   string
		Count  int
		Active bool
		At     time.Time
		Ratio  float64
	}

	var r record
	v := reflect.ValueOf(&r).Elem()

	require.NoError(t, setFieldValue(v.Field(0), "Mug"))
	require.NoError(t, setFieldValue(v.Field(1), "42"))
	require.NoError(t, setFieldValue(v.Field(2), "TRUE"))
	require.NoError(t, setFieldValue(v.Field(3), "2025-06-01T10:00:00Z"))

	assert.Equal(t, "Mug", r.Name)
	assert.Equal(t, 42, r.Count)
	assert.True(t, r.Active)
	assert.Equal(t, 2025, r.At.Year())

	require.NoError(t, setFieldValue(v.Field(1), ""))
	assert.Zero(t, r.Count)

	err := setFieldValue(v.Field(1), "not a number")
	assert.ErrorContains(t, err, "failed to parse int")

	err = setFieldValue(v.Field(3), "yesterday")
	assert.ErrorContains(t, err, "failed to parse time")

	err = setFieldValue(v.Field(4), "0.5")
	assert.ErrorContains(t, err, "unsupported field type")
}
