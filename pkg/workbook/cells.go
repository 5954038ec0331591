package workbook

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// columnIndex converts a column letter ("A", "AB") to a 0-based index
func columnIndex(col string) (int, error) {
	n, err := excelize.ColumnNameToNumber(col)
	if err != nil {
		return 0, fmt.Errorf("invalid column %q: %w", col, err)
	}
	return n - 1, nil
}

// cellName joins a column letter and a 1-based row into an A1 reference
func cellName(col string, row int) (string, error) {
	n, err := excelize.ColumnNameToNumber(col)
	if err != nil {
		return "", fmt.Errorf("invalid column %q: %w", col, err)
	}
	cell, err := excelize.CoordinatesToCellName(n, row)
	if err != nil {
		return "", fmt.Errorf("invalid cell %s%d: %w", col, row, err)
	}
	return cell, nil
}

// cellAt returns the trimmed value at (row, col), or "" when the row is short
func cellAt(rows [][]string, row, col int) string {
	if row >= len(rows) || col >= len(rows[row]) {
		return ""
	}
	return strings.TrimSpace(rows[row][col])
}

// parseCount parses a prize count. Blank is zero; whole floats such as "3.0" are accepted.
func parseCount(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}

	count, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, fmt.Errorf("not an integer: %q", raw)
		}
		count = int(f)
	}

	if count < 0 {
		return 0, fmt.Errorf("negative count: %d", count)
	}

	return count, nil
}
