package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/prize-raffle/pkg/db"
)

// HistoryStore defines the database operations needed to read draw history
type HistoryStore interface {
	GetDraws(ctx context.Context) ([]db.Draw, error)
	GetAwards(ctx context.Context, drawID string) ([]db.Award, error)
	GetLeftovers(ctx context.Context, drawID string) ([]db.Leftover, error)
}

// DrawSummary is a recorded draw with what it awarded
type DrawSummary struct {
	Draw      db.Draw
	Awards    []db.Award
	Leftovers []db.Leftover
}

// HistoryResult holds the latest draws, most recent first
type HistoryResult struct {
	Draws []DrawSummary
}

// ViewHistory returns the latest count draws with their awards and leftovers
func ViewHistory(ctx context.Context, store HistoryStore, logger *zap.Logger, count int) (*HistoryResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	logger.Debug("Starting viewHistory", zap.Int("count", count))

	draws, err := store.GetDraws(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch draws: %w", err)
	}

	selected := latestDraws(draws, count)
	logger.Debug("Selected draws", zap.Int("total", len(draws)), zap.Int("selected", len(selected)))

	result := &HistoryResult{Draws: make([]DrawSummary, 0, len(selected))}
	for _, draw := range selected {
		awards, err := store.GetAwards(ctx, draw.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch awards for draw %s: %w", draw.ID, err)
		}

		leftovers, err := store.GetLeftovers(ctx, draw.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch leftovers for draw %s: %w", draw.ID, err)
		}

		result.Draws = append(result.Draws, DrawSummary{
			Draw:      draw,
			Awards:    awards,
			Leftovers: leftovers,
		})
	}

	return result, nil
}
