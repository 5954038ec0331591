// Package workbook reads raffle input from, and writes raffle results to,
// a two-tab spreadsheet regardless of where the spreadsheet lives.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jakechorley/prize-raffle/internal/config"
	"github.com/jakechorley/prize-raffle/pkg/core/model"
)

var (
	// ErrMissingSheet is returned when a required tab is absent from the workbook
	ErrMissingSheet = errors.New("required sheet is missing")

	// ErrMalformedCount is returned when an inventory count is not a non-negative integer
	ErrMalformedCount = errors.New("malformed prize count")
)

// Result sheet headers
const (
	HeaderWon       = "Won"
	HeaderPrize     = "Prize"
	HeaderChoice    = "Choice"
	HeaderLeftovers = "Inventory leftovers"
)

// Workbook is a spreadsheet made of named tabs.
// Rows returned by GetValues are 0-indexed; row i is sheet row i+1.
// Writes may be buffered until Save.
type Workbook interface {
	SheetNames(ctx context.Context) ([]string, error)
	GetValues(ctx context.Context, sheet string) ([][]string, error)
	UpdateValues(ctx context.Context, sheet, cell string, values [][]interface{}) error
	Save(ctx context.Context) error
}

// RequireSheets checks that both the responses and the inventory tabs exist
func RequireSheets(ctx context.Context, wb Workbook, layout config.Layout) error {
	names, err := wb.SheetNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sheets: %w", err)
	}

	for _, required := range []string{layout.ResponsesTab, layout.InventoryTab} {
		if !slices.Contains(names, required) {
			return fmt.Errorf("%w: %q (found %v)", ErrMissingSheet, required, names)
		}
	}

	return nil
}

// ReadInventory reads prize rows below the header rows until the first blank prize name.
// A blank count reads as zero.
func ReadInventory(ctx context.Context, wb Workbook, layout config.Layout) ([]model.Prize, error) {
	rows, err := wb.GetValues(ctx, layout.InventoryTab)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", layout.InventoryTab, err)
	}

	prizeCol, err := columnIndex(layout.PrizeColumn)
	if err != nil {
		return nil, err
	}
	countCol, err := columnIndex(layout.CountColumn)
	if err != nil {
		return nil, err
	}

	prizes := []model.Prize{}
	for i := layout.HeaderRows; i < len(rows); i++ {
		name := cellAt(rows, i, prizeCol)
		if name == "" {
			break
		}

		raw := cellAt(rows, i, countCol)
		count, err := parseCount(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d (%s): %q", ErrMalformedCount, layout.InventoryTab, i+1, name, raw)
		}

		prizes = append(prizes, model.Prize{
			Row:   i + 1,
			Name:  name,
			Count: count,
		})
	}

	return prizes, nil
}

// ReadEntries reads participant rows below the header rows until the first blank name
func ReadEntries(ctx context.Context, wb Workbook, layout config.Layout) ([]model.Entry, error) {
	rows, err := wb.GetValues(ctx, layout.ResponsesTab)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", layout.ResponsesTab, err)
	}

	nameCol, err := columnIndex(layout.NameColumn)
	if err != nil {
		return nil, err
	}
	choiceCols := make([]int, 0, len(layout.ChoiceColumns))
	for _, col := range layout.ChoiceColumns {
		idx, err := columnIndex(col)
		if err != nil {
			return nil, err
		}
		choiceCols = append(choiceCols, idx)
	}

	entries := []model.Entry{}
	for i := layout.HeaderRows; i < len(rows); i++ {
		name := cellAt(rows, i, nameCol)
		if name == "" {
			break
		}

		choices := make([]string, len(choiceCols))
		for c, col := range choiceCols {
			choices[c] = cellAt(rows, i, col)
		}

		entries = append(entries, model.Entry{
			Row:     i + 1,
			Name:    name,
			Choices: choices,
		})
	}

	return entries, nil
}

// WriteResults writes one Won/Prize/Choice line per winner in the winner's own row
// and the remaining count of each prize in that prize's row.
// Rows of participants who won nothing are left untouched.
// Headers go in the first row unless the layout has no header rows.
func WriteResults(ctx context.Context, wb Workbook, layout config.Layout, results []model.Result, leftovers []model.Leftover) error {
	if layout.HeaderRows > 0 {
		headers := []struct {
			sheet, col, value string
		}{
			{layout.ResponsesTab, layout.WonColumn, HeaderWon},
			{layout.ResponsesTab, layout.PrizeWonColumn, HeaderPrize},
			{layout.ResponsesTab, layout.RankWonColumn, HeaderChoice},
			{layout.InventoryTab, layout.LeftoverColumn, HeaderLeftovers},
		}
		for _, h := range headers {
			if err := writeCell(ctx, wb, h.sheet, h.col, 1, h.value); err != nil {
				return err
			}
		}
	}

	for _, result := range results {
		if err := writeCell(ctx, wb, layout.ResponsesTab, layout.WonColumn, result.Row, true); err != nil {
			return err
		}
		if err := writeCell(ctx, wb, layout.ResponsesTab, layout.PrizeWonColumn, result.Row, result.Prize); err != nil {
			return err
		}
		if err := writeCell(ctx, wb, layout.ResponsesTab, layout.RankWonColumn, result.Row, result.Rank); err != nil {
			return err
		}
	}

	for _, leftover := range leftovers {
		if err := writeCell(ctx, wb, layout.InventoryTab, layout.LeftoverColumn, leftover.Row, leftover.Count); err != nil {
			return err
		}
	}

	return nil
}

func writeCell(ctx context.Context, wb Workbook, sheet, col string, row int, value interface{}) error {
	cell, err := cellName(col, row)
	if err != nil {
		return err
	}

	if err := wb.UpdateValues(ctx, sheet, cell, [][]interface{}{{value}}); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}

	return nil
}
