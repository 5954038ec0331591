package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/prize-raffle/internal/config"
	"github.com/jakechorley/prize-raffle/pkg/workbook"
)

// ErrDrawNotFound is returned when no recorded draw has the requested ID
var ErrDrawNotFound = errors.New("draw not found")

// ReplayResult compares a recorded draw with a fresh dry run using its seed
type ReplayResult struct {
	Recorded DrawSummary
	Replay   *DrawResult

	// Matches is true when the replay awards the same prizes at the same
	// ranks to the same rows, in the same order
	Matches     bool
	Differences []string
}

// ReplayDraw re-runs a recorded draw against the workbook with the recorded seed.
// Nothing is written. An unchanged workbook reproduces the recorded awards exactly.
func ReplayDraw(
	ctx context.Context,
	wb workbook.Workbook,
	store HistoryStore,
	cfg *config.Config,
	logger *zap.Logger,
	drawID string,
) (*ReplayResult, error) {
	logger.Debug("Starting replayDraw", zap.String("draw_id", drawID))

	draws, err := store.GetDraws(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch draws: %w", err)
	}

	draw := findDraw(draws, drawID)
	if draw == nil {
		return nil, fmt.Errorf("%w: %s", ErrDrawNotFound, drawID)
	}

	awards, err := store.GetAwards(ctx, draw.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch awards: %w", err)
	}
	leftovers, err := store.GetLeftovers(ctx, draw.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leftovers: %w", err)
	}

	replay, err := DrawRaffle(ctx, wb, nil, cfg, logger, DrawOptions{
		Seed:   draw.Seed,
		DryRun: true,
		Source: draw.Source,
		Now:    draw.DrawnAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replay draw: %w", err)
	}

	result := &ReplayResult{
		Recorded: DrawSummary{Draw: *draw, Awards: awards, Leftovers: leftovers},
		Replay:   replay,
	}

	if replay.Draw.EntryCount != draw.EntryCount {
		result.Differences = append(result.Differences,
			fmt.Sprintf("entry count: recorded %d, now %d", draw.EntryCount, replay.Draw.EntryCount))
	}

	n := max(len(awards), len(replay.Results))
	for i := 0; i < n; i++ {
		switch {
		case i >= len(awards):
			r := replay.Results[i]
			result.Differences = append(result.Differences,
				fmt.Sprintf("award %d: not recorded, replay gives row %d %s (choice %d)", i+1, r.Row, r.Prize, r.Rank))
		case i >= len(replay.Results):
			a := awards[i]
			result.Differences = append(result.Differences,
				fmt.Sprintf("award %d: recorded row %d %s (choice %d), replay gives nothing", i+1, a.EntryRow, a.Prize, a.Rank))
		default:
			a, r := awards[i], replay.Results[i]
			if a.EntryRow != r.Row || a.Prize != r.Prize || a.Rank != r.Rank {
				result.Differences = append(result.Differences,
					fmt.Sprintf("award %d: recorded row %d %s (choice %d), replay gives row %d %s (choice %d)",
						i+1, a.EntryRow, a.Prize, a.Rank, r.Row, r.Prize, r.Rank))
			}
		}
	}

	result.Matches = len(result.Differences) == 0
	logger.Info("Replay complete",
		zap.String("draw_id", draw.ID),
		zap.Bool("matches", result.Matches),
		zap.Int("differences", len(result.Differences)))

	return result, nil
}
