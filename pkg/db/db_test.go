package db

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSheets is an in-memory spreadsheet keyed by tab name
type fakeSheets struct {
	tabs map[string][][]interface{}
}

func (f *fakeSheets) GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error) {
	name, _, _ := strings.Cut(sheetRange, "!")
	rows, ok := f.tabs[name]
	if !ok {
		return nil, fmt.Errorf("no tab %s", name)
	}
	// Sheets returns formatted strings
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		out[i] = make([]interface{}, len(row))
		for j, cell := range row {
			out[i][j] = fmt.Sprint(cell)
		}
	}
	return out, nil
}

func (f *fakeSheets) AppendRows(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error {
	f.tabs[sheetRange] = append(f.tabs[sheetRange], values...)
	return nil
}

func (f *fakeSheets) CreateSheet(ctx context.Context, spreadsheetID, sheetTitle string) (int64, error) {
	f.tabs[sheetTitle] = nil
	return 0, nil
}

func (f *fakeSheets) SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	titles := []string{}
	for name := range f.tabs {
		titles = append(titles, name)
	}
	return titles, nil
}

func openTestDB(t *testing.T) (*DB, *fakeSheets) {
	t.Helper()
	sheets := &fakeSheets{tabs: map[string][][]interface{}{}}
	database, err := Open(context.Background(), sheets, "history")
	require.NoError(t, err)
	return database, sheets
}

func TestOpen_CreatesTables(t *testing.T) {
	_, sheets := openTestDB(t)

	require.Contains(t, sheets.tabs, "draw")
	require.Contains(t, sheets.tabs, "award")
	require.Contains(t, sheets.tabs, "leftover")

	assert.Equal(t, []interface{}{"id", "round", "source", "seed", "drawn_at", "entry_count", "award_count"}, sheets.tabs["draw"][0])
	assert.Equal(t, []interface{}{"uuid", "text", "text", "text", "timestamp", "int", "int"}, sheets.tabs["draw"][1])
}

func TestOpen_Reopen(t *testing.T) {
	database, sheets := openTestDB(t)
	require.NoError(t, database.InsertDraw(context.Background(), &Draw{ID: "d1"}))

	// A second connection finds and verifies the existing tables
	reopened, err := Open(context.Background(), sheets, "history")
	require.NoError(t, err)

	draws, err := reopened.GetDraws(context.Background())
	require.NoError(t, err)
	assert.Len(t, draws, 1)
}

func TestDraws(t *testing.T) {
	ctx := context.Background()
	database, _ := openTestDB(t)

	drawnAt := time.Date(2025, 11, 28, 17, 0, 0, 0, time.UTC)
	draw := &Draw{
		ID:         "d1",
		Round:      "2025-11-28",
		Source:     "raffle.xlsx",
		Seed:       "seed-1",
		DrawnAt:    drawnAt,
		EntryCount: 12,
		AwardCount: 9,
	}
	require.NoError(t, database.InsertDraw(ctx, draw))

	draws, err := database.GetDraws(ctx)
	require.NoError(t, err)
	require.Len(t, draws, 1)
	assert.Equal(t, "seed-1", draws[0].Seed)
	assert.Equal(t, 12, draws[0].EntryCount)
	assert.True(t, drawnAt.Equal(draws[0].DrawnAt))
}

func TestAwardsAndLeftovers_FilteredByDraw(t *testing.T) {
	ctx := context.Background()
	database, _ := openTestDB(t)

	require.NoError(t, database.InsertAwards(ctx, []Award{
		{ID: "a1", DrawID: "d1", EntryName: "Alice", EntryRow: 2, Prize: "Mug", Rank: 1},
		{ID: "a2", DrawID: "d2", EntryName: "Bob", EntryRow: 3, Prize: "Hat", Rank: 2},
		{ID: "a3", DrawID: "d1", EntryName: "Carol", EntryRow: 4, Prize: "Pen", Rank: 3},
	}))
	require.NoError(t, database.InsertLeftovers(ctx, []Leftover{
		{ID: "l1", DrawID: "d1", Prize: "Mug", InitialCount: 1, RemainingCount: 0},
		{ID: "l2", DrawID: "d2", Prize: "Mug", InitialCount: 5, RemainingCount: 4},
	}))

	awards, err := database.GetAwards(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, awards, 2)
	assert.Equal(t, Award{ID: "a1", DrawID: "d1", EntryName: "Alice", EntryRow: 2, Prize: "Mug", Rank: 1}, awards[0])
	assert.Equal(t, "Carol", awards[1].EntryName)

	leftovers, err := database.GetLeftovers(ctx, "d2")
	require.NoError(t, err)
	require.Len(t, leftovers, 1)
	assert.Equal(t, 4, leftovers[0].RemainingCount)

	none, err := database.GetAwards(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInsertAwards_Empty(t *testing.T) {
	database, sheets := openTestDB(t)

	require.NoError(t, database.InsertAwards(context.Background(), nil))
	assert.Len(t, sheets.tabs["award"], 2)
}

var _ Database = (*DB)(nil)
