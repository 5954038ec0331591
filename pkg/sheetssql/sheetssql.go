package sheetssql

import (
	"context"
	"fmt"
)

// SheetsClient defines the spreadsheet operations the database needs
type SheetsClient interface {
	GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error)
	AppendRows(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error
	CreateSheet(ctx context.Context, spreadsheetID, sheetTitle string) (int64, error)
	SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
}

// Column defines a column with name and type
type Column struct {
	Name string
	Type string // e.g., "text", "int", "bool", "uuid", "timestamp"
}

// TableSchema defines the structure of a table
type TableSchema struct {
	Name    string
	Columns []Column
}

// Schema defines the database schema
type Schema struct {
	Tables []TableSchema
}

// DB is a spreadsheet used as a database: one tab per table,
// a header row, a type row, then one row per record
type DB struct {
	client        SheetsClient
	spreadsheetID string
	schema        *Schema
}

// NewDB connects to the spreadsheet, creating missing tables and verifying existing ones
func NewDB(ctx context.Context, client SheetsClient, spreadsheetID string, schema *Schema) (*DB, error) {
	db := &DB{
		client:        client,
		spreadsheetID: spreadsheetID,
		schema:        schema,
	}

	if err := db.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// SpreadsheetID returns the database spreadsheet ID
func (db *DB) SpreadsheetID() string {
	return db.spreadsheetID
}

// InsertRows appends rows to the specified table
func (db *DB) InsertRows(ctx context.Context, tableName string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	if err := db.client.AppendRows(ctx, db.spreadsheetID, tableName, rows); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", tableName, err)
	}
	return nil
}
