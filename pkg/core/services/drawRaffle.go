package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/prize-raffle/internal/config"
	"github.com/jakechorley/prize-raffle/pkg/core/allocator"
	"github.com/jakechorley/prize-raffle/pkg/core/model"
	"github.com/jakechorley/prize-raffle/pkg/db"
	"github.com/jakechorley/prize-raffle/pkg/workbook"
)

// ErrRoundAlreadyDrawn is returned when the current raffle round already has a committed draw
var ErrRoundAlreadyDrawn = errors.New("raffle round already drawn")

// DrawStore defines the database operations needed to record a draw
type DrawStore interface {
	GetDraws(ctx context.Context) ([]db.Draw, error)
	InsertDraw(ctx context.Context, draw *db.Draw) error
	InsertAwards(ctx context.Context, awards []db.Award) error
	InsertLeftovers(ctx context.Context, leftovers []db.Leftover) error
}

// DrawOptions controls a raffle draw
type DrawOptions struct {
	// Seed for random decisions. Empty draws a fresh seed, recorded so the draw can be replayed.
	Seed string

	// DryRun allocates and reports without writing the workbook or recording history
	DryRun bool

	// Force draws even if the current round already has a committed draw
	Force bool

	// Source identifies the workbook in history (spreadsheet ID or file path)
	Source string

	// Now is the draw time; zero means time.Now()
	Now time.Time
}

// DrawResult is the outcome of a raffle draw
type DrawResult struct {
	// Draw is the history record. It is stored only when Recorded is true.
	Draw      db.Draw
	Entries   []model.Entry
	Prizes    []model.Prize
	Outcome   *allocator.Outcome
	Results   []model.Result
	Leftovers []model.Leftover

	DryRun   bool
	Written  bool
	Recorded bool
}

// DrawRaffle reads the entries and inventory from the workbook, allocates the prizes,
// writes the winners and leftovers back and records the draw in the store.
// store may be nil, in which case nothing is recorded and no round guard applies.
func DrawRaffle(
	ctx context.Context,
	wb workbook.Workbook,
	store DrawStore,
	cfg *config.Config,
	logger *zap.Logger,
	opts DrawOptions,
) (*DrawResult, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	logger.Info("Starting raffle draw",
		zap.String("source", opts.Source),
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("force", opts.Force))

	// Step 1: Read input
	if err := workbook.RequireSheets(ctx, wb, cfg.Layout); err != nil {
		return nil, err
	}

	prizes, err := workbook.ReadInventory(ctx, wb, cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	for _, prize := range prizes {
		logger.Info("Found prize", zap.String("prize", prize.Name), zap.Int("count", prize.Count), zap.Int("row", prize.Row))
		if prize.Count == 0 {
			logger.Info("Prize has no stock", zap.String("prize", prize.Name))
		}
	}

	entries, err := workbook.ReadEntries(ctx, wb, cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	for _, entry := range entries {
		logger.Debug("Found entry", zap.String("name", entry.Name), zap.Int("row", entry.Row), zap.Strings("choices", entry.Choices))
	}
	logger.Info("Read raffle input", zap.Int("prizes", len(prizes)), zap.Int("entries", len(entries)))

	inventory, err := buildInventory(prizes, logger)
	if err != nil {
		return nil, err
	}
	logUnknownChoices(entries, inventory, logger)

	// Step 2: Round guard
	round := ""
	if cfg.RaffleSchedule != "" {
		round, err = currentRound(cfg.RaffleSchedule, now)
		if err != nil {
			return nil, err
		}
		logger.Info("Current raffle round", zap.String("round", round))

		if store != nil && !opts.Force && !opts.DryRun {
			if err := checkRoundNotDrawn(ctx, store, round, opts.Source); err != nil {
				return nil, err
			}
		}
	}

	// Step 3: Allocate
	seed := opts.Seed
	if seed == "" {
		seed = uuid.New().String()
		logger.Debug("Generated seed", zap.String("seed", seed))
	}

	outcome := allocator.Allocate(buildEntries(entries), inventory, allocator.NewRand(seed))
	logCells(outcome.Cells, logger)
	for _, award := range outcome.Winners {
		logger.Info("Winner",
			zap.String("name", award.Entry.Name),
			zap.String("prize", award.Prize),
			zap.Int("choice", award.Rank),
			zap.Int("remaining", outcome.Residual.Count(award.Prize)))
	}
	logger.Info("Allocation complete",
		zap.Int("winners", len(outcome.Winners)),
		zap.Int("unallocated", len(outcome.Unallocated)),
		zap.Int("leftover_stock", outcome.Residual.Total()))

	results, leftovers, err := sheetResults(outcome, prizes)
	if err != nil {
		return nil, err
	}

	result := &DrawResult{
		Draw: db.Draw{
			ID:         uuid.New().String(),
			Round:      round,
			Source:     opts.Source,
			Seed:       seed,
			DrawnAt:    now.UTC().Truncate(time.Second),
			EntryCount: len(entries),
			AwardCount: len(outcome.Winners),
		},
		Entries:   entries,
		Prizes:    prizes,
		Outcome:   outcome,
		Results:   results,
		Leftovers: leftovers,
		DryRun:    opts.DryRun,
	}

	if opts.DryRun {
		logger.Info("Dry run, nothing written", zap.String("seed", seed))
		return result, nil
	}

	// Step 4: Write results
	if err := workbook.WriteResults(ctx, wb, cfg.Layout, results, leftovers); err != nil {
		return nil, fmt.Errorf("failed to write results: %w", err)
	}
	if err := wb.Save(ctx); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}
	result.Written = true
	logger.Info("Results written", zap.Int("winners", len(results)))

	// Step 5: Record history
	if store == nil {
		logger.Debug("No history store configured, draw not recorded")
		return result, nil
	}

	if err := recordDraw(ctx, store, &result.Draw, outcome, inventory); err != nil {
		return result, fmt.Errorf("results were written but the draw was not recorded: %w", err)
	}
	result.Recorded = true
	logger.Info("Draw recorded", zap.String("draw_id", result.Draw.ID), zap.String("seed", seed))

	return result, nil
}

// checkRoundNotDrawn fails if a draw for the same round and source exists
func checkRoundNotDrawn(ctx context.Context, store DrawStore, round, source string) error {
	draws, err := store.GetDraws(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch draws: %w", err)
	}

	for _, d := range draws {
		if d.Round == round && d.Source == source {
			return fmt.Errorf("%w: round %s was drawn at %s (draw %s); use --force to draw again",
				ErrRoundAlreadyDrawn, round, d.DrawnAt.Format(time.RFC3339), d.ID)
		}
	}

	return nil
}

// recordDraw stores the draw, its awards and the stock of every prize
func recordDraw(ctx context.Context, store DrawStore, draw *db.Draw, outcome *allocator.Outcome, initial *allocator.Inventory) error {
	if err := store.InsertDraw(ctx, draw); err != nil {
		return fmt.Errorf("failed to insert draw: %w", err)
	}

	awards := make([]db.Award, 0, len(outcome.Winners))
	for _, award := range outcome.Winners {
		row, err := entryRow(award.Entry)
		if err != nil {
			return err
		}
		awards = append(awards, db.Award{
			ID:        uuid.New().String(),
			DrawID:    draw.ID,
			EntryName: award.Entry.Name,
			EntryRow:  row,
			Prize:     award.Prize,
			Rank:      award.Rank,
		})
	}
	if err := store.InsertAwards(ctx, awards); err != nil {
		return fmt.Errorf("failed to insert awards: %w", err)
	}

	leftovers := make([]db.Leftover, 0, initial.Len())
	for _, prize := range initial.Prizes() {
		leftovers = append(leftovers, db.Leftover{
			ID:             uuid.New().String(),
			DrawID:         draw.ID,
			Prize:          prize,
			InitialCount:   initial.Count(prize),
			RemainingCount: outcome.Residual.Count(prize),
		})
	}
	if err := store.InsertLeftovers(ctx, leftovers); err != nil {
		return fmt.Errorf("failed to insert leftovers: %w", err)
	}

	return nil
}
