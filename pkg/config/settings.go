package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Settings holds the runtime configuration shared by the commands.
// Values are resolved in order: defaults, HCL file, SNAKE_* environment.
type Settings struct {
	BoardSize      int    `hcl:"board_size,optional" env:"SNAKE_BOARD_SIZE"`
	MoveIntervalMS int    `hcl:"move_interval_ms,optional" env:"SNAKE_MOVE_INTERVAL_MS"`
	DBPath         string `hcl:"db_path,optional" env:"SNAKE_DB_PATH"`
	RecordsDir     string `hcl:"records_dir,optional" env:"SNAKE_RECORDS_DIR"`
	Record         bool   `hcl:"record,optional" env:"SNAKE_RECORD"`
	Addr           string `hcl:"addr,optional" env:"SNAKE_ADDR"`
	LogLevel       string `hcl:"log_level,optional" env:"SNAKE_LOG_LEVEL"`
	LogFormat      string `hcl:"log_format,optional" env:"SNAKE_LOG_FORMAT"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Settings {
	return Settings{
		BoardSize:      DefaultBoardSize,
		MoveIntervalMS: int(MoveInterval.Milliseconds()),
		DBPath:         DBPath,
		RecordsDir:     RecordsDir,
		Addr:           WebAddr,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load resolves settings from the defaults, an optional HCL file and the
// environment. An empty path skips the file.
func Load(path string) (*Settings, error) {
	s := Defaults()

	if path != "" {
		file, diags := hclparse.NewParser().ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parse config %s: %w", path, diags)
		}
		if diags := gohcl.DecodeBody(file.Body, nil, &s); diags.HasErrors() {
			return nil, fmt.Errorf("decode config %s: %w", path, diags)
		}
	}

	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	s.LogLevel = strings.ToLower(s.LogLevel)
	s.LogFormat = strings.ToLower(s.LogFormat)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate reports the first invalid field.
func (s *Settings) Validate() error {
	if s.BoardSize < MinBoardSize {
		return fmt.Errorf("board_size must be at least %d, got %d", MinBoardSize, s.BoardSize)
	}
	if s.MoveIntervalMS <= 0 {
		return fmt.Errorf("move_interval_ms must be positive, got %d", s.MoveIntervalMS)
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", s.LogLevel)
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", s.LogFormat)
	}
	if s.Record && s.RecordsDir == "" {
		return errors.New("records_dir is required when record is enabled")
	}
	return nil
}

// MoveInterval returns the tick interval as a duration.
func (s *Settings) MoveInterval() time.Duration {
	return time.Duration(s.MoveIntervalMS) * time.Millisecond
}
