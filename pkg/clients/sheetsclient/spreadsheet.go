package sheetsclient

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// valuesAPI is the part of Client a Spreadsheet needs
type valuesAPI interface {
	GetUnformattedValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error)
	BatchUpdateValues(ctx context.Context, spreadsheetID string, data []*sheets.ValueRange) error
	SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
}

// Spreadsheet is a single Google spreadsheet seen as a workbook.
// Updates are buffered and sent in one batch by Save.
type Spreadsheet struct {
	api     valuesAPI
	id      string
	pending []*sheets.ValueRange
}

// Spreadsheet returns the spreadsheet with the given ID
func (c *Client) Spreadsheet(spreadsheetID string) *Spreadsheet {
	return &Spreadsheet{api: c, id: spreadsheetID}
}

// ID returns the spreadsheet ID
func (s *Spreadsheet) ID() string {
	return s.id
}

// SheetNames lists the spreadsheet's tabs
func (s *Spreadsheet) SheetNames(ctx context.Context) ([]string, error) {
	return s.api.SheetTitles(ctx, s.id)
}

// GetValues reads every value of a tab, ignoring display formats such as "1,000"
func (s *Spreadsheet) GetValues(ctx context.Context, sheet string) ([][]string, error) {
	values, err := s.api.GetUnformattedValues(ctx, s.id, quoteSheet(sheet))
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = cellString(cell)
		}
	}

	return rows, nil
}

// cellString renders an unformatted cell. Whole numbers never use exponent notation.
func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// UpdateValues queues a block of values whose top-left corner is cell
func (s *Spreadsheet) UpdateValues(ctx context.Context, sheet, cell string, values [][]interface{}) error {
	s.pending = append(s.pending, &sheets.ValueRange{
		Range:  A1Range(sheet, cell),
		Values: values,
	})
	return nil
}

// Save sends the queued updates. Nothing is sent when no updates are queued.
func (s *Spreadsheet) Save(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}

	if err := s.api.BatchUpdateValues(ctx, s.id, s.pending); err != nil {
		return err
	}

	s.pending = nil
	return nil
}

// Pending returns the number of queued updates
func (s *Spreadsheet) Pending() int {
	return len(s.pending)
}

// A1Range builds an A1 range such as 'Form Responses 1'!J2
func A1Range(sheet, cell string) string {
	if cell == "" {
		return quoteSheet(sheet)
	}
	return quoteSheet(sheet) + "!" + cell
}

// quoteSheet quotes a tab name for A1 notation, doubling embedded quotes
func quoteSheet(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}
