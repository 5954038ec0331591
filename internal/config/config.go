package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a config file is in neither the current nor the home directory
var ErrNotFound = errors.New("file not found in current directory or home directory")

// Layout describes where the raffle data lives in the workbook.
// Columns are spreadsheet letters (e.g. "B").
type Layout struct {
	ResponsesTab  string   `yaml:"responsesTab" validate:"required"`
	InventoryTab  string   `yaml:"inventoryTab" validate:"required"`
	HeaderRows    int      `yaml:"headerRows" validate:"min=0"`
	NameColumn    string   `yaml:"nameColumn" validate:"required,alpha"`
	ChoiceColumns []string `yaml:"choiceColumns" validate:"required,min=1,max=3,dive,required,alpha"`
	PrizeColumn   string   `yaml:"prizeColumn" validate:"required,alpha"`
	CountColumn   string   `yaml:"countColumn" validate:"required,alpha"`

	// Output columns
	WonColumn      string `yaml:"wonColumn" validate:"required,alpha"`
	PrizeWonColumn string `yaml:"prizeWonColumn" validate:"required,alpha"`
	RankWonColumn  string `yaml:"rankWonColumn" validate:"required,alpha"`
	LeftoverColumn string `yaml:"leftoverColumn" validate:"required,alpha"`
}

// Config represents the application configuration
type Config struct {
	// SpreadsheetID is the Google spreadsheet holding the raffle (unused when drawing from a local file)
	SpreadsheetID string `yaml:"spreadsheetID,omitempty"`
	Layout        Layout `yaml:"layout"`

	// RaffleSchedule is an optional RRULE; each occurrence starts a new raffle round
	RaffleSchedule string `yaml:"raffleSchedule,omitempty"`

	// Draw history backends. DatabaseURL (Postgres) wins when both are set.
	DatabaseSheetID string `yaml:"databaseSheetID,omitempty"`
	DatabaseURL     string `yaml:"databaseURL,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// DefaultLayout returns the layout of the standard raffle workbook:
// a Google Forms responses tab and an inventory tab
func DefaultLayout() Layout {
	return Layout{
		ResponsesTab:   "Form Responses 1",
		InventoryTab:   "Inventory",
		HeaderRows:     1,
		NameColumn:     "B",
		ChoiceColumns:  []string{"C", "D", "E"},
		PrizeColumn:    "B",
		CountColumn:    "C",
		WonColumn:      "J",
		PrizeWonColumn: "K",
		RankWonColumn:  "L",
		LeftoverColumn: "E",
	}
}

// Default returns a configuration with the default layout and no history store
func Default() *Config {
	return &Config{Layout: DefaultLayout()}
}

// HasHistory reports whether a draw history store is configured
func (c *Config) HasHistory() bool {
	return c.DatabaseURL != "" || c.DatabaseSheetID != ""
}

// LoadWithEnv loads raffle_config.<env>.yaml (or raffle_config.yaml when env is empty)
// from the current directory or the user's home directory
func LoadWithEnv(env string) (*Config, error) {
	fileName := "raffle_config.yaml"
	if env != "" {
		fileName = "raffle_config." + env + ".yaml"
	}

	configPath, err := findFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file %s: %w", fileName, err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Layout fields missing from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct and checks the schedule's rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.RaffleSchedule != "" {
		if _, err := rrule.StrToRRule(cfg.RaffleSchedule); err != nil {
			return fmt.Errorf("invalid rrule in raffleSchedule: %w", err)
		}
	}

	return nil
}

// findFile looks for fileName in the current directory, then the home directory
func findFile(fileName string) (string, error) {
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", ErrNotFound
}
