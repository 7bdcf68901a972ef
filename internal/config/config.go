// Package config holds the settings shared by the turni commands.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ukaji3/turni-go/pkg/turni"
	"github.com/ukaji3/turni-go/pkg/turni/aggregate"
	"github.com/ukaji3/turni-go/pkg/turni/parser"
)

// Config is the flat settings tree; keys match the YAML file and the
// TURNI_<KEY> environment variables.
type Config struct {
	// Analysis
	InputDir    string `koanf:"input_dir"`
	Output      string `koanf:"output"`
	Employee    string `koanf:"employee"`
	Match       string `koanf:"match"`
	Mode        string `koanf:"mode"`
	Concurrency int    `koanf:"concurrency"`

	// Schedule conventions
	YearRolloverMonth int      `koanf:"year_rollover_month"`
	YearBase          int      `koanf:"year_base"`
	OnCallMarker      string   `koanf:"on_call_marker"`
	AbsenceMarker     string   `koanf:"absence_marker"`
	FridayLabels      []string `koanf:"friday_labels"` // empty: aggregate.DefaultRules

	// Logging and metrics
	LogLevel    string `koanf:"log_level"`
	LogFormat   string `koanf:"log_format"`
	MetricsFile string `koanf:"metrics_file"`

	// Server
	Addr           string        `koanf:"addr"`
	UploadDir      string        `koanf:"upload_dir"`
	MaxUploadMB    int64         `koanf:"max_upload_mb"`
	MaxConnections int           `koanf:"max_connections"`
	SessionTTL     time.Duration `koanf:"session_ttl"`

	// Watch
	WatchDebounce time.Duration `koanf:"watch_debounce"`
}

// New returns the default configuration.
func New() *Config {
	rules := aggregate.DefaultRules()
	return &Config{
		InputDir:          "turni",
		Match:             string(turni.MatchResolver),
		Mode:              string(aggregate.ModeEvents),
		YearRolloverMonth: rules.Years.RolloverMonth,
		YearBase:          rules.Years.BaseYear,
		OnCallMarker:      rules.OnCallMarker,
		AbsenceMarker:     rules.AbsenceMarker,
		LogLevel:          "info",
		LogFormat:         "console",
		Addr:              "127.0.0.1:5001",
		UploadDir:         "uploads",
		MaxUploadMB:       100,
		MaxConnections:    64,
		SessionTTL:        2 * time.Hour,
		WatchDebounce:     500 * time.Millisecond,
	}
}

// Validate checks the settings that have a closed set of values.
func (c *Config) Validate() error {
	switch turni.MatchMode(c.Match) {
	case turni.MatchResolver, turni.MatchSubstring:
	default:
		return fmt.Errorf("invalid match mode: %s (must be resolver or substring)", c.Match)
	}
	switch aggregate.Mode(c.Mode) {
	case aggregate.ModeEvents, aggregate.ModeMatrix:
	default:
		return fmt.Errorf("invalid mode: %s (must be events or matrix)", c.Mode)
	}
	if c.YearRolloverMonth < 1 || c.YearRolloverMonth > 12 {
		return fmt.Errorf("year_rollover_month out of range: %d", c.YearRolloverMonth)
	}
	if c.YearBase < 1 {
		return errors.New("year_base must be positive")
	}
	if c.MaxUploadMB <= 0 {
		return errors.New("max_upload_mb must be positive")
	}
	if c.MaxConnections < 0 {
		return errors.New("max_connections must not be negative")
	}
	return nil
}

// Rules returns the schedule conventions described by the configuration.
func (c *Config) Rules() aggregate.Rules {
	rules := aggregate.DefaultRules()
	rules.OnCallMarker = c.OnCallMarker
	rules.AbsenceMarker = c.AbsenceMarker
	if len(c.FridayLabels) > 0 {
		rules.FridayLabels = c.FridayLabels
	}
	rules.Years = parser.YearPolicy{
		RolloverMonth: c.YearRolloverMonth,
		BaseYear:      c.YearBase,
	}
	return rules
}

// Options returns engine options for the configuration. Logger, metrics and
// cache are left to the caller.
func (c *Config) Options() turni.Options {
	rules := c.Rules()
	return turni.Options{
		Mode:        aggregate.Mode(c.Mode),
		Employee:    c.Employee,
		Match:       turni.MatchMode(c.Match),
		Rules:       &rules,
		Concurrency: c.Concurrency,
	}
}
