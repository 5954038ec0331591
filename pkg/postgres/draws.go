package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/prize-raffle/pkg/db"
)

// GetDraws retrieves all draw records, oldest first
func (d *DB) GetDraws(ctx context.Context) ([]db.Draw, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, round, source, seed, drawn_at, entry_count, award_count
		FROM draw
		ORDER BY drawn_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query draws: %w", err)
	}

	draws, err := pgx.CollectRows(rows, pgx.RowToStructByPos[db.Draw])
	if err != nil {
		return nil, fmt.Errorf("failed to scan draws: %w", err)
	}

	return draws, nil
}

// InsertDraw inserts a new draw record
func (d *DB) InsertDraw(ctx context.Context, draw *db.Draw) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO draw (id, round, source, seed, drawn_at, entry_count, award_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, draw.ID, draw.Round, draw.Source, draw.Seed, draw.DrawnAt, draw.EntryCount, draw.AwardCount)
	if err != nil {
		return fmt.Errorf("failed to insert draw: %w", err)
	}
	return nil
}

// GetAwards retrieves the awards of a draw in the order they were won
func (d *DB) GetAwards(ctx context.Context, drawID string) ([]db.Award, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, draw_id::text, entry_name, entry_row, prize, rank
		FROM award
		WHERE draw_id = $1
		ORDER BY seq
	`, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to query awards: %w", err)
	}

	awards, err := pgx.CollectRows(rows, pgx.RowToStructByPos[db.Award])
	if err != nil {
		return nil, fmt.Errorf("failed to scan awards: %w", err)
	}

	return awards, nil
}

// InsertAwards inserts award records in one transaction
func (d *DB) InsertAwards(ctx context.Context, awards []db.Award) error {
	batch := &pgx.Batch{}
	for _, a := range awards {
		batch.Queue(`
			INSERT INTO award (id, draw_id, entry_name, entry_row, prize, rank)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, a.ID, a.DrawID, a.EntryName, a.EntryRow, a.Prize, a.Rank)
	}

	if err := d.sendBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to insert awards: %w", err)
	}
	return nil
}

// GetLeftovers retrieves the leftover stock of a draw in inventory order
func (d *DB) GetLeftovers(ctx context.Context, drawID string) ([]db.Leftover, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, draw_id::text, prize, initial_count, remaining_count
		FROM leftover
		WHERE draw_id = $1
		ORDER BY seq
	`, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leftovers: %w", err)
	}

	leftovers, err := pgx.CollectRows(rows, pgx.RowToStructByPos[db.Leftover])
	if err != nil {
		return nil, fmt.Errorf("failed to scan leftovers: %w", err)
	}

	return leftovers, nil
}

// InsertLeftovers inserts leftover records in one transaction
func (d *DB) InsertLeftovers(ctx context.Context, leftovers []db.Leftover) error {
	batch := &pgx.Batch{}
	for _, l := range leftovers {
		batch.Queue(`
			INSERT INTO leftover (id, draw_id, prize, initial_count, remaining_count)
			VALUES ($1, $2, $3, $4, $5)
		`, l.ID, l.DrawID, l.Prize, l.InitialCount, l.RemainingCount)
	}

	if err := d.sendBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to insert leftovers: %w", err)
	}
	return nil
}

// sendBatch runs every queued statement inside a single transaction
func (d *DB) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
