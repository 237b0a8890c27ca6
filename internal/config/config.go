package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/alarm-clock/internal/logger"
)

// Config holds settings shared by the alarm-clock commands.
type Config struct {
	// ServerAddress is the gRPC address of the headless daemon.
	ServerAddress string `yaml:"server_addr"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// AlarmsFile is where alarm definitions are persisted. Empty keeps alarms in memory only.
	AlarmsFile string `yaml:"alarms_file"`
	// DisplayFormat is the initial clock format, "12-Hour" or "24-Hour".
	DisplayFormat string `yaml:"display_format"`
	// TickInterval is the period of the clock refresh and alarm check.
	TickInterval time.Duration `yaml:"tick_interval"`
	// DefaultTune is used by the add-alarm flow when no tune is given.
	DefaultTune string `yaml:"default_tune"`
	// TimerTune is played when a countdown completes.
	TimerTune string `yaml:"timer_tune"`
	// PlayerCommand is the external audio player; empty selects a per-OS default.
	PlayerCommand string `yaml:"player_command"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// LogFile receives logs while the terminal UI owns the screen.
	LogFile string `yaml:"log_file"`
	// PIDFile records the running daemon so a second one refuses to start.
	PIDFile string `yaml:"pid_file"`
	// Theme holds presentation colours; it has no effect on behaviour.
	Theme Theme `yaml:"theme"`
}

// Theme holds terminal colours as ANSI codes or #rrggbb strings.
type Theme struct {
	// Clock colours the large time display.
	Clock string `yaml:"clock"`
	// Accent colours titles and the selected row.
	Accent string `yaml:"accent"`
	// Muted colours help text and secondary values.
	Muted string `yaml:"muted"`
	// Alert colours the ringing prompt and error notices.
	Alert string `yaml:"alert"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "alarm-clock-settings.yaml"

	// DefaultServerAddress is where the daemon listens when nothing is configured.
	DefaultServerAddress = "127.0.0.1:50061"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultTickInterval is the nominal clock refresh period.
	DefaultTickInterval = time.Second

	// DefaultLogFile receives logs from the terminal UI.
	DefaultLogFile = "alarm-clock.log"

	// DefaultPIDFile records the daemon process ID.
	DefaultPIDFile = "alarm-clock.pid"

	// DefaultFilePermissions is the default file permission for config and data files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errBadLogLevel is returned for unknown log levels.
	errBadLogLevel = errors.New("unknown log level")
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := new(Config)

	// Defaults cannot fail validation.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault is like Load but returns Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills defaults for empty fields.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		settings.ServerAddress = DefaultServerAddress
	}

	if _, _, err := net.SplitHostPort(settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.TickInterval <= 0 {
		settings.TickInterval = DefaultTickInterval
	}

	if settings.LogFile == "" {
		settings.LogFile = DefaultLogFile
	}

	if settings.PIDFile == "" {
		settings.PIDFile = DefaultPIDFile
	}

	if settings.LogLevel == "" {
		settings.LogLevel = "info"
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errBadLogLevel, settings.LogLevel)
	}

	settings.Theme.applyDefaults()

	return nil
}

// applyDefaults fills empty colours.
func (t *Theme) applyDefaults() {
	if t.Clock == "" {
		t.Clock = "86"
	}

	if t.Accent == "" {
		t.Accent = "170"
	}

	if t.Muted == "" {
		t.Muted = "241"
	}

	if t.Alert == "" {
		t.Alert = "196"
	}
}
