// Package workbooktest provides an in-memory workbook.Workbook for tests.
package workbooktest

import (
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// Memory is a workbook held in memory. Written cells are kept apart from the
// source rows so tests can assert on exactly what was written.
type Memory struct {
	Rows    map[string][][]string
	Written map[string]map[string]interface{}
	Saves   int

	// Errors to inject
	GetErr    error
	UpdateErr error
	SaveErr   error
}

// New creates a memory workbook with the given tabs
func New(rows map[string][][]string) *Memory {
	if rows == nil {
		rows = map[string][][]string{}
	}
	return &Memory{
		Rows:    rows,
		Written: map[string]map[string]interface{}{},
	}
}

// SheetNames returns the tab names in sorted order
func (m *Memory) SheetNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(m.Rows))
	for name := range m.Rows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetValues returns a copy of the tab's rows
func (m *Memory) GetValues(ctx context.Context, sheet string) ([][]string, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	rows, ok := m.Rows[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %s does not exist", sheet)
	}

	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

// UpdateValues records every value of the block starting at cell
func (m *Memory) UpdateValues(ctx context.Context, sheet, cell string, values [][]interface{}) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if _, ok := m.Rows[sheet]; !ok {
		return fmt.Errorf("sheet %s does not exist", sheet)
	}

	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return err
	}

	if m.Written[sheet] == nil {
		m.Written[sheet] = map[string]interface{}{}
	}
	for r, line := range values {
		for c, v := range line {
			name, err := excelize.CoordinatesToCellName(col+c, row+r)
			if err != nil {
				return err
			}
			m.Written[sheet][name] = v
		}
	}

	return nil
}

// Save counts the call
func (m *Memory) Save(ctx context.Context) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	return nil
}

// Cell returns the value written to sheet!cell, if any
func (m *Memory) Cell(sheet, cell string) (interface{}, bool) {
	v, ok := m.Written[sheet][cell]
	return v, ok
}

// WriteCount returns how many cells were written in sheet
func (m *Memory) WriteCount(sheet string) int {
	return len(m.Written[sheet])
}
