package db

import "context"

// Database defines the draw history operations.
// Both the SheetsSQL-backed db.DB and postgres.DB implement this interface.
type Database interface {
	GetDraws(ctx context.Context) ([]Draw, error)
	InsertDraw(ctx context.Context, draw *Draw) error
	GetAwards(ctx context.Context, drawID string) ([]Award, error)
	InsertAwards(ctx context.Context, awards []Award) error
	GetLeftovers(ctx context.Context, drawID string) ([]Leftover, error)
	InsertLeftovers(ctx context.Context, leftovers []Leftover) error
}
