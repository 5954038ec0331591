package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/prize-raffle/pkg/core/allocator"
	"github.com/jakechorley/prize-raffle/pkg/core/model"
	"github.com/jakechorley/prize-raffle/pkg/db"
)

// roundAnchor is the DTSTART used for schedules that do not set one
var roundAnchor = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// currentRound returns the latest occurrence of the schedule at or before now, as YYYY-MM-DD
func currentRound(schedule string, now time.Time) (string, error) {
	rule, err := rrule.StrToRRule(schedule)
	if err != nil {
		return "", fmt.Errorf("failed to parse raffle schedule: %w", err)
	}

	if !strings.Contains(strings.ToUpper(schedule), "DTSTART") {
		rule.DTStart(roundAnchor)
	}

	occurrence := rule.Before(now, true)
	if occurrence.IsZero() {
		return "", fmt.Errorf("no raffle round has started by %s", now.Format(time.RFC3339))
	}

	return occurrence.Format("2006-01-02"), nil
}

// buildInventory converts inventory rows to the engine's ordered inventory.
// A repeated prize name replaces the earlier count and keeps the earlier position.
func buildInventory(prizes []model.Prize, logger *zap.Logger) (*allocator.Inventory, error) {
	inventory := allocator.NewInventory()
	for _, prize := range prizes {
		if inventory.Has(prize.Name) {
			logger.Warn("Prize listed more than once, using the later count",
				zap.String("prize", prize.Name),
				zap.Int("row", prize.Row),
				zap.Int("previous_count", inventory.Count(prize.Name)),
				zap.Int("count", prize.Count))
		}
		if err := inventory.Add(prize.Name, prize.Count); err != nil {
			return nil, fmt.Errorf("inventory row %d: %w", prize.Row, err)
		}
	}
	return inventory, nil
}

// buildEntries converts response rows to engine entries identified by sheet row
func buildEntries(entries []model.Entry) []allocator.Entry {
	result := make([]allocator.Entry, 0, len(entries))
	for _, e := range entries {
		entry := allocator.Entry{
			ID:   strconv.Itoa(e.Row),
			Name: e.Name,
		}
		copy(entry.Choices[:], e.Choices)
		result = append(result, entry)
	}
	return result
}

// entryRow recovers the sheet row from an engine entry ID
func entryRow(entry allocator.Entry) (int, error) {
	row, err := strconv.Atoi(entry.ID)
	if err != nil {
		return 0, fmt.Errorf("entry %q has non-row id %q", entry.Name, entry.ID)
	}
	return row, nil
}

// sheetResults converts the outcome to the lines written back to the workbook
func sheetResults(outcome *allocator.Outcome, prizes []model.Prize) ([]model.Result, []model.Leftover, error) {
	results := make([]model.Result, 0, len(outcome.Winners))
	for _, award := range outcome.Winners {
		row, err := entryRow(award.Entry)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, model.Result{
			Row:   row,
			Prize: award.Prize,
			Rank:  award.Rank,
		})
	}

	leftovers := make([]model.Leftover, 0, len(prizes))
	for _, prize := range prizes {
		leftovers = append(leftovers, model.Leftover{
			Row:   prize.Row,
			Prize: prize.Name,
			Count: outcome.Residual.Count(prize.Name),
		})
	}

	return results, leftovers, nil
}

// logUnknownChoices reports choices that name no prize in the inventory
func logUnknownChoices(entries []model.Entry, inventory *allocator.Inventory, logger *zap.Logger) {
	for _, e := range entries {
		for rank, choice := range e.Choices {
			if choice != "" && !inventory.Has(choice) {
				logger.Info("Choice names no prize in the inventory",
					zap.String("name", e.Name),
					zap.Int("row", e.Row),
					zap.Int("choice", rank+1),
					zap.String("prize", choice))
			}
		}
	}
}

// logCells reports every (rank, prize) step of the allocation
func logCells(cells []allocator.Cell, logger *zap.Logger) {
	for _, cell := range cells {
		fields := []zap.Field{
			zap.Int("choice", cell.Rank),
			zap.String("prize", cell.Prize),
			zap.Int("candidates", cell.Candidates),
			zap.Int("available", cell.Available),
			zap.Int("awarded", cell.Awarded),
		}

		switch {
		case cell.Candidates == 0:
			logger.Info("No entries chose prize", fields...)
		case cell.Available <= 0:
			logger.Info("No more stock of prize", fields...)
		default:
			logger.Debug("Drew winners", fields...)
		}
	}
}

// latestDraws returns up to count draws, most recent first
func latestDraws(draws []db.Draw, count int) []db.Draw {
	sorted := make([]db.Draw, len(draws))
	copy(sorted, draws)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DrawnAt.After(sorted[j].DrawnAt)
	})

	if count < len(sorted) {
		sorted = sorted[:count]
	}
	return sorted
}

// findDraw returns the draw with the given ID, or nil
func findDraw(draws []db.Draw, drawID string) *db.Draw {
	for i := range draws {
		if draws[i].ID == drawID {
			return &draws[i]
		}
	}
	return nil
}
