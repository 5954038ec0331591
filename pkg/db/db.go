package db

import (
	"context"
	"fmt"

	"github.com/jakechorley/prize-raffle/pkg/sheetssql"
)

// DB stores draw history in a spreadsheet through SheetsSQL
type DB struct {
	ssql *sheetssql.DB
}

// NewDB creates a new database instance
func NewDB(ssql *sheetssql.DB) *DB {
	return &DB{
		ssql: ssql,
	}
}

// Open connects to the history spreadsheet, creating the draw, award and leftover tabs if needed
func Open(ctx context.Context, client sheetssql.SheetsClient, spreadsheetID string) (*DB, error) {
	schema, err := sheetssql.SchemaFromModels(Models()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}

	ssql, err := sheetssql.NewDB(ctx, client, spreadsheetID, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return NewDB(ssql), nil
}

// GetDraws retrieves all draw records
func (db *DB) GetDraws(ctx context.Context) ([]Draw, error) {
	draws, err := sheetssql.Select[Draw](ctx, db.ssql)
	if err != nil {
		return nil, fmt.Errorf("failed to get draws: %w", err)
	}
	return draws, nil
}

// InsertDraw inserts a new draw record
func (db *DB) InsertDraw(ctx context.Context, draw *Draw) error {
	if err := sheetssql.Insert(ctx, db.ssql, *draw); err != nil {
		return fmt.Errorf("failed to insert draw: %w", err)
	}
	return nil
}

// GetAwards retrieves the awards of a draw
func (db *DB) GetAwards(ctx context.Context, drawID string) ([]Award, error) {
	awards, err := sheetssql.SelectWhere(ctx, db.ssql, func(a Award) bool { return a.DrawID == drawID })
	if err != nil {
		return nil, fmt.Errorf("failed to get awards: %w", err)
	}
	return awards, nil
}

// InsertAwards inserts award records
func (db *DB) InsertAwards(ctx context.Context, awards []Award) error {
	if err := sheetssql.Insert(ctx, db.ssql, awards...); err != nil {
		return fmt.Errorf("failed to insert awards: %w", err)
	}
	return nil
}

// GetLeftovers retrieves the leftover stock of a draw
func (db *DB) GetLeftovers(ctx context.Context, drawID string) ([]Leftover, error) {
	leftovers, err := sheetssql.SelectWhere(ctx, db.ssql, func(l Leftover) bool { return l.DrawID == drawID })
	if err != nil {
		return nil, fmt.Errorf("failed to get leftovers: %w", err)
	}
	return leftovers, nil
}

// InsertLeftovers inserts leftover records
func (db *DB) InsertLeftovers(ctx context.Context, leftovers []Leftover) error {
	if err := sheetssql.Insert(ctx, db.ssql, leftovers...); err != nil {
		return fmt.Errorf("failed to insert leftovers: %w", err)
	}
	return nil
}
