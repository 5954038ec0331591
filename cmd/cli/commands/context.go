package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jakechorley/prize-raffle/internal/config"
	"github.com/jakechorley/prize-raffle/pkg/clients/sheetsclient"
	"github.com/jakechorley/prize-raffle/pkg/clients/xlsxclient"
	"github.com/jakechorley/prize-raffle/pkg/db"
	"github.com/jakechorley/prize-raffle/pkg/workbook"
)

// ErrNoHistory is returned by commands that need a draw history store when none is configured
var ErrNoHistory = errors.New("no draw history configured: set databaseURL or databaseSheetID")

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg *config.Config

	// Database is the draw history store, nil when none is configured
	Database db.Database
	Logger   *zap.Logger
	Ctx      context.Context

	// Sheets returns the Google Sheets client, authenticating on first use
	Sheets func() (*sheetsclient.Client, error)
}

// OpenWorkbook opens the local file when one is given, otherwise the configured Google spreadsheet.
// It returns the workbook, the source recorded in history and a function releasing the workbook.
func (app *AppContext) OpenWorkbook(file, out string) (workbook.Workbook, string, func(), error) {
	if file != "" {
		if out == "" {
			out = xlsxclient.DefaultOutputPath(file)
		}

		wb, err := xlsxclient.Open(file, out)
		if err != nil {
			return nil, "", nil, err
		}

		source, err := filepath.Abs(file)
		if err != nil {
			source = file
		}

		release := func() {
			if err := wb.Close(); err != nil {
				app.Logger.Warn("Failed to close workbook", zap.String("file", file), zap.Error(err))
			}
		}

		app.Logger.Debug("Opened local workbook", zap.String("input", file), zap.String("output", out))
		return wb, source, release, nil
	}

	if app.Cfg.SpreadsheetID == "" {
		return nil, "", nil, errors.New("no --file given and spreadsheetID is not configured")
	}
	if app.Sheets == nil {
		return nil, "", nil, errors.New("google sheets client is not available")
	}

	client, err := app.Sheets()
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	app.Logger.Debug("Opened Google spreadsheet", zap.String("spreadsheet_id", app.Cfg.SpreadsheetID))
	return client.Spreadsheet(app.Cfg.SpreadsheetID), app.Cfg.SpreadsheetID, func() {}, nil
}
