// Package xlsxclient opens local Excel workbooks for the raffle.
package xlsxclient

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is a local .xlsx file. Updates stay in memory until Save
// writes the whole workbook to the output path; the input file is never modified.
type Workbook struct {
	file   *excelize.File
	input  string
	output string
}

// Open reads the workbook at input. Save will write to output.
func Open(input, output string) (*Workbook, error) {
	if output == "" {
		return nil, errors.New("output path is required")
	}

	file, err := excelize.OpenFile(input)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", input, err)
	}

	return &Workbook{file: file, input: input, output: output}, nil
}

// DefaultOutputPath names the output after the input: raffle.xlsx -> raffle_results.xlsx
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_results" + ext
}

// Input returns the path the workbook was read from
func (w *Workbook) Input() string {
	return w.input
}

// Output returns the path Save writes to
func (w *Workbook) Output() string {
	return w.output
}

// SheetNames lists the workbook's tabs
func (w *Workbook) SheetNames(ctx context.Context) ([]string, error) {
	return w.file.GetSheetList(), nil
}

// GetValues reads every raw value of a tab; number formats such as "#,##0" are not applied
func (w *Workbook) GetValues(ctx context.Context, sheet string) ([][]string, error) {
	rows, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, nil
}

// UpdateValues sets a block of values whose top-left corner is cell
func (w *Workbook) UpdateValues(ctx context.Context, sheet, cell string, values [][]interface{}) error {
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return fmt.Errorf("invalid cell %s: %w", cell, err)
	}

	for r, line := range values {
		for c, v := range line {
			name, err := excelize.CoordinatesToCellName(col+c, row+r)
			if err != nil {
				return err
			}
			if err := w.file.SetCellValue(sheet, name, v); err != nil {
				return fmt.Errorf("failed to set %s!%s: %w", sheet, name, err)
			}
		}
	}

	return nil
}

// Save writes the workbook to the output path
func (w *Workbook) Save(ctx context.Context) error {
	if err := w.file.SaveAs(w.output); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", w.output, err)
	}
	return nil
}

// Close releases the workbook's temporary files
func (w *Workbook) Close() error {
	return w.file.Close()
}
