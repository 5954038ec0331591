package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/prize-raffle/internal/config"
	"github.com/jakechorley/prize-raffle/pkg/core/model"
	"github.com/jakechorley/prize-raffle/pkg/db"
	"github.com/jakechorley/prize-raffle/pkg/workbook"
)

func TestDrawRaffle_WritesAndRecords(t *testing.T) {
	ctx := context.Background()
	wb := raffleWorkbook(
		[][]string{
			{"Alice", "Mug", "Hat"},
			{"Bob", "Hat"},
			{"Carol", "Pen", "Mug"},
		},
		[][]string{{"Mug", "1"}, {"Hat", "2"}, {"Pen", "0"}},
	)
	store := &mockDB{}
	now := time.Date(2025, 12, 5, 18, 0, 0, 0, time.UTC)

	result, err := DrawRaffle(ctx, wb, store, config.Default(), zap.NewNop(), DrawOptions{
		Source: "raffle.xlsx",
		Now:    now,
	})
	require.NoError(t, err)

	// Alice and Bob get their first choices; Carol's Pen is out of stock and
	// her second choice Mug went to Alice
	assert.Equal(t, []model.Result{
		{Row: 2, Prize: "Mug", Rank: 1},
		{Row: 3, Prize: "Hat", Rank: 1},
	}, result.Results)
	assert.Equal(t, []model.Leftover{
		{Row: 2, Prize: "Mug", Count: 0},
		{Row: 3, Prize: "Hat", Count: 1},
		{Row: 4, Prize: "Pen", Count: 0},
	}, result.Leftovers)
	require.Len(t, result.Outcome.Unallocated, 1)
	assert.Equal(t, "Carol", result.Outcome.Unallocated[0].Name)

	assert.True(t, result.Written)
	assert.True(t, result.Recorded)
	assert.Equal(t, 1, wb.Saves)

	got, ok := wb.Cell(responsesTab, "K2")
	require.True(t, ok)
	assert.Equal(t, "Mug", got)
	_, ok = wb.Cell(responsesTab, "K4")
	assert.False(t, ok, "Carol's row is untouched")
	got, ok = wb.Cell(inventoryTab, "E3")
	require.True(t, ok)
	assert.Equal(t, 1, got)

	require.Len(t, store.draws, 1)
	draw := store.draws[0]
	assert.Equal(t, result.Draw, draw)
	assert.NotEmpty(t, draw.ID)
	assert.NotEmpty(t, draw.Seed, "a seed is generated so the draw can be replayed")
	assert.Equal(t, "raffle.xlsx", draw.Source)
	assert.Empty(t, draw.Round)
	assert.Equal(t, now, draw.DrawnAt)
	assert.Equal(t, 3, draw.EntryCount)
	assert.Equal(t, 2, draw.AwardCount)

	require.Len(t, store.awards, 2)
	assert.Equal(t, db.Award{ID: store.awards[0].ID, DrawID: draw.ID, EntryName: "Alice", EntryRow: 2, Prize: "Mug", Rank: 1}, store.awards[0])

	require.Len(t, store.leftovers, 3)
	assert.Equal(t, "Hat", store.leftovers[1].Prize)
	assert.Equal(t, 2, store.leftovers[1].InitialCount)
	assert.Equal(t, 1, store.leftovers[1].RemainingCount)
}

func TestDrawRaffle_DryRunWritesNothing(t *testing.T) {
	wb := raffleWorkbook([][]string{{"Alice", "Mug"}}, [][]string{{"Mug", "1"}})
	store := &mockDB{}

	result, err := DrawRaffle(context.Background(), wb, store, config.Default(), zap.NewNop(), DrawOptions{DryRun: true})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.False(t, result.Written)
	assert.False(t, result.Recorded)
	assert.Len(t, result.Results, 1)

	assert.Zero(t, wb.Saves)
	assert.Zero(t, wb.WriteCount(responsesTab))
	assert.Zero(t, wb.WriteCount(inventoryTab))
	assert.Empty(t, store.draws)
}

func TestDrawRaffle_NoStore(t *testing.T) {
	wb := raffleWorkbook([][]string{{"Alice", "Mug"}}, [][]string{{"Mug", "1"}})

	result, err := DrawRaffle(context.Background(), wb, nil, config.Default(), zap.NewNop(), DrawOptions{})
	require.NoError(t, err)

	assert.True(t, result.Written)
	assert.False(t, result.Recorded)
	assert.Equal(t, 1, wb.Saves)
}

func TestDrawRaffle_SameSeedSameResults(t *testing.T) {
	responses := [][]string{}
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		responses = append(responses, []string{name, "Mug", "Hat", "Pen"})
	}
	prizes := [][]string{{"Mug", "2"}, {"Hat", "2"}, {"Pen", "2"}}

	run := func() []model.Result {
		result, err := DrawRaffle(context.Background(), raffleWorkbook(responses, prizes), nil,
			config.Default(), zap.NewNop(), DrawOptions{Seed: "spring-2026", DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, "spring-2026", result.Draw.Seed)
		return result.Results
	}

	first := run()
	assert.Len(t, first, 6)
	assert.Equal(t, first, run())
}

func TestDrawRaffle_MissingSheet(t *testing.T) {
	wb := raffleWorkbook(nil, nil)
	delete(wb.Rows, inventoryTab)

	_, err := DrawRaffle(context.Background(), wb, &mockDB{}, config.Default(), zap.NewNop(), DrawOptions{})
	assert.ErrorIs(t, err, workbook.ErrMissingSheet)
	assert.Zero(t, wb.Saves)
}

func TestDrawRaffle_MalformedCount(t *testing.T) {
	wb := raffleWorkbook([][]string{{"Alice", "Mug"}}, [][]string{{"Mug", "lots"}})
	store := &mockDB{}

	_, err := DrawRaffle(context.Background(), wb, store, config.Default(), zap.NewNop(), DrawOptions{})
	assert.ErrorIs(t, err, workbook.ErrMalformedCount)
	assert.Zero(t, wb.Saves)
	assert.Empty(t, store.draws)
}

func TestDrawRaffle_EmptyInput(t *testing.T) {
	wb := raffleWorkbook(nil, [][]string{{"Mug", "3"}})

	result, err := DrawRaffle(context.Background(), wb, nil, config.Default(), zap.NewNop(), DrawOptions{})
	require.NoError(t, err)

	assert.Empty(t, result.Results)
	assert.Equal(t, []model.Leftover{{Row: 2, Prize: "Mug", Count: 3}}, result.Leftovers)
	got, ok := wb.Cell(inventoryTab, "E2")
	require.True(t, ok)
	assert.Equal(t, 3, got)
}

func TestDrawRaffle_DuplicatePrizeRows(t *testing.T) {
	wb := raffleWorkbook(
		[][]string{{"Alice", "Mug"}, {"Bob", "Mug"}, {"Carol", "Hat"}},
		[][]string{{"Mug", "1"}, {"Hat", "1"}, {"Mug", "2"}},
	)

	result, err := DrawRaffle(context.Background(), wb, nil, config.Default(), zap.NewNop(), DrawOptions{DryRun: true})
	require.NoError(t, err)

	// The later count (2) replaces the earlier one
	assert.Equal(t, 2, result.Outcome.AwardedCount("Mug"))
	assert.Equal(t, []string{"Mug", "Hat"}, result.Outcome.Residual.Prizes())
	assert.Equal(t, 0, result.Leftovers[0].Count)
	assert.Equal(t, 0, result.Leftovers[2].Count)
}

func TestDrawRaffle_RoundGuard(t *testing.T) {
	cfg := config.Default()
	cfg.RaffleSchedule = "FREQ=WEEKLY;BYDAY=FR"
	now := time.Date(2025, 12, 7, 12, 0, 0, 0, time.UTC) // Sunday after Friday Dec 5

	newWorkbook := func() workbook.Workbook {
		return raffleWorkbook([][]string{{"Alice", "Mug"}}, [][]string{{"Mug", "1"}})
	}

	t.Run("first draw of the round is recorded with the round", func(t *testing.T) {
		store := &mockDB{}
		result, err := DrawRaffle(context.Background(), newWorkbook(), store, cfg, zap.NewNop(), DrawOptions{Source: "sheet-1", Now: now})
		require.NoError(t, err)
		assert.Equal(t, "2025-12-05", result.Draw.Round)
		require.Len(t, store.draws, 1)
		assert.Equal(t, "2025-12-05", store.draws[0].Round)
	})

	t.Run("second draw of the round is refused", func(t *testing.T) {
		store := &mockDB{draws: []db.Draw{{ID: "d1", Round: "2025-12-05", Source: "sheet-1", DrawnAt: now.Add(-time.Hour)}}}
		wb := raffleWorkbook([][]string{{"Alice", "Mug"}}, [][]string{{"Mug", "1"}})

		_, err := DrawRaffle(context.Background(), wb, store, cfg, zap.NewNop(), DrawOptions{Source: "sheet-1", Now: now})
		assert.ErrorIs(t, err, ErrRoundAlreadyDrawn)
		assert.Contains(t, err.Error(), "--force")
		assert.Zero(t, wb.Saves)
		assert.Len(t, store.draws, 1)
	})

	t.Run("force draws again", func(t *testing.T) {
		store := &mockDB{draws: []db.Draw{{ID: "d1", Round: "2025-12-05", Source: "sheet-1"}}}
		_, err := DrawRaffle(context.Background(), newWorkbook(), store, cfg, zap.NewNop(), DrawOptions{Source: "sheet-1", Now: now, Force: true})
		require.NoError(t, err)
		assert.Len(t, store.draws, 2)
	})

	t.Run("dry run is allowed", func(t *testing.T) {
		store := &mockDB{draws: []db.Draw{{ID: "d1", Round: "2025-12-05", Source: "sheet-1"}}}
		_, err := DrawRaffle(context.Background(), newWorkbook(), store, cfg, zap.NewNop(), DrawOptions{Source: "sheet-1", Now: now, DryRun: true})
		assert.NoError(t, err)
	})

	t.Run("other sources and rounds are independent", func(t *testing.T) {
		store := &mockDB{draws: []db.Draw{
			{ID: "d1", Round: "2025-12-05", Source: "sheet-2"},
			{ID: "d2", Round: "2025-11-28", Source: "sheet-1"},
		}}
		_, err := DrawRaffle(context.Background(), newWorkbook(), store, cfg, zap.NewNop(), DrawOptions{Source: "sheet-1", Now: now})
		assert.NoError(t, err)
	})

	t.Run("store error", func(t *testing.T) {
		store := &mockDB{getDrawsErr: errors.New("connection refused")}
		_, err := DrawRaffle(context.Background(), newWorkbook(), store, cfg, zap.NewNop(), DrawOptions{Source: "sheet-1", Now: now})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestDrawRaffle_SaveError(t *testing.T) {
	wb := raffleWorkbook([][]string{{"Alice", "Mug"}}, [][]string{{"Mug", "1"}})
	wb.SaveErr = errors.New("disk full")
	store := &mockDB{}

	_, err := DrawRaffle(context.Background(), wb, store, config.Default(), zap.NewNop(), DrawOptions{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save workbook")
	assert.Empty(t, store.draws, "nothing is recorded when the results were not saved")
}

func TestDrawRaffle_RecordError(t *testing.T) {
	wb := raffleWorkbook([][]string{{"Alice", "Mug"}}, [][]string{{"Mug", "1"}})
	store := &mockDB{insertAwardsErr: errors.New("timeout")}

	result, err := DrawRaffle(context.Background(), wb, store, config.Default(), zap.NewNop(), DrawOptions{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "results were written")
	require.NotNil(t, result)
	assert.True(t, result.Written)
	assert.False(t, result.Recorded)
}
