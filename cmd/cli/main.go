package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/prize-raffle/cmd/cli/commands"
	"github.com/jakechorley/prize-raffle/internal/config"
	"github.com/jakechorley/prize-raffle/pkg/clients/sheetsclient"
	"github.com/jakechorley/prize-raffle/pkg/db"
	"github.com/jakechorley/prize-raffle/pkg/postgres"
	"github.com/jakechorley/prize-raffle/pkg/utils/logging"
)

var (
	env      string
	logLevel string
	debugLog string

	app      = &commands.AppContext{}
	closeLog func() error
	pgDB     *postgres.DB
	sheets   *sheetsclient.Client
	oauthCfg *config.OAuthClientConfig
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if app.Logger != nil {
			app.Logger.Error("Command failed", zap.Error(err))
			closeApp()
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// newRootCmd builds the raffle command tree over the shared app context
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "raffle",
		Short: "Prize raffle - allocate prizes to ranked choices",
		Long: `A CLI tool for drawing prize raffles. Entries rank up to three prizes;
prizes are allocated by choice rank, with ties broken at random.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects raffle_config.<env>.yaml and oauthClient.<env>.json)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "debug", "Console log level: debug, info or warning")
	rootCmd.PersistentFlags().StringVarP(&debugLog, "debug-log", "d", "", "Debug log file (default: logs/<env>_<timestamp>.log)")

	rootCmd.AddCommand(commands.DrawCmd(app))
	rootCmd.AddCommand(commands.DemandCmd(app))
	rootCmd.AddCommand(commands.HistoryCmd(app))
	rootCmd.AddCommand(commands.ReplayCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	return rootCmd
}

// initApp sets up logger, config and the draw history store.
// The Google client is created on first use so local workbooks need no credentials.
func initApp() error {
	var err error
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, closeLog, err = logging.InitLogger(logging.Options{
		Env:   env,
		Level: logLevel,
		File:  debugLog,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Starting application", zap.String("environment", env))

	// Load configuration
	app.Cfg, err = config.LoadWithEnv(env)
	if errors.Is(err, config.ErrNotFound) {
		app.Logger.Info("No config file found, using the default layout")
		app.Cfg = config.Default()
	} else if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded", zap.Bool("history", app.Cfg.HasHistory()))

	app.Sheets = sheetsClient

	// Initialize history store
	switch {
	case app.Cfg.DatabaseURL != "":
		app.Logger.Debug("Connecting to Postgres")
		pgDB, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL, app.Logger)
		if err != nil {
			return err
		}
		if err := pgDB.RunMigrations(app.Ctx); err != nil {
			return err
		}
		app.Database = pgDB
		app.Logger.Debug("Postgres history store ready")

	case app.Cfg.DatabaseSheetID != "":
		client, err := sheetsClient()
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}

		app.Logger.Debug("Connecting to database", zap.String("spreadsheet_id", app.Cfg.DatabaseSheetID))
		database, err := db.Open(app.Ctx, client, app.Cfg.DatabaseSheetID)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		app.Database = database
		app.Logger.Debug("Sheets history store ready")

	default:
		app.Logger.Debug("No history store configured")
	}

	return nil
}

// sheetsClient returns the Google Sheets client, creating it on first use
func sheetsClient() (*sheetsclient.Client, error) {
	if sheets != nil {
		return sheets, nil
	}

	var err error
	if oauthCfg == nil {
		app.Logger.Debug("Loading OAuth client configuration")
		oauthCfg, err = config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
		}
	}

	app.Logger.Debug("Initializing sheets client")
	sheets, err = sheetsclient.NewClient(app.Ctx, oauthCfg, env, app.Logger)
	if err != nil {
		return nil, err
	}

	return sheets, nil
}

func closeApp() {
	if pgDB != nil {
		pgDB.Close()
		pgDB = nil
	}
	if closeLog != nil {
		if err := closeLog(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close debug log: %v\n", err)
		}
		closeLog = nil
	}
}
