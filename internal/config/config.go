// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// ErrUnknownKey is returned by Get and Set for keys outside the schema.
var ErrUnknownKey = errors.New("unknown config key")

// DotEnvPath is the optional env file read before environment overrides.
var DotEnvPath = ".env"

// Config holds the application configuration.
type Config struct {
	API      APIConfig      `toml:"api"`
	Calendar CalendarConfig `toml:"calendar"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// APIConfig holds CRM connection settings.
type APIConfig struct {
	BaseURL string `toml:"base_url" validate:"omitempty,url"` // e.g., "https://crm.example.com"
	Timeout string `toml:"timeout" validate:"duration"`       // e.g., "15s"
}

// CalendarConfig holds grid settings.
type CalendarConfig struct {
	StartHour            int  `toml:"start_hour" validate:"min=0,max=23"`
	EndHour              int  `toml:"end_hour" validate:"max=24,gtfield=StartHour"`
	IntervalMinutes      int  `toml:"interval_minutes" validate:"oneof=5 10 15 20 30 60"`
	MaxColumns           int  `toml:"max_columns" validate:"min=1,max=12"`
	DragThrottleMS       int  `toml:"drag_throttle_ms" validate:"min=0,max=1000"`
	SupersedeDragUpdates bool `toml:"supersede_drag_updates"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path" validate:"required"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme" validate:"oneof=dark light"`
}

// LogConfig holds the event log settings. An empty path disables logging.
type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "",
			Timeout: "15s",
		},
		Calendar: CalendarConfig{
			StartHour:       6,
			EndHour:         24,
			IntervalMinutes: 15,
			MaxColumns:      6,
			DragThrottleMS:  80,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "dark",
		},
		Log: LogConfig{
			Path:  "",
			Level: "info",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "hawkeye.db"
	}
	return filepath.Join(home, ".local", "share", "hawkeye", "hawkeye.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "hawkeye", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, reads the
// optional .env file, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := loadDotEnv(DotEnvPath); err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// loadDotEnv fills unset environment variables from path. Variables already
// in the environment win.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HAWKEYE_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("HAWKEYE_API_TIMEOUT"); v != "" {
		cfg.API.Timeout = v
	}
	if v := os.Getenv("HAWKEYE_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("HAWKEYE_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("HAWKEYE_LOG_PATH"); v != "" {
		cfg.Log.Path = v
	}
	if v := os.Getenv("HAWKEYE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
	})
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d >= 0
	})
	return v
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// describe renders a field error as "section.key ...".
func describe(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return ns + " must be set"
	case "url":
		return fmt.Sprintf("%s must be a URL, got %q", ns, fe.Value())
	case "duration":
		return fmt.Sprintf("%s must be a duration like 15s, got %q", ns, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", ns, fe.Param(), fe.Value())
	case "gtfield":
		return fmt.Sprintf("%s must be after calendar.start_hour", ns)
	case "min":
		return fmt.Sprintf("%s must be at least %s", ns, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", ns, fe.Param())
	}
	return fmt.Sprintf("%s is invalid (%s)", ns, fe.Tag())
}

// RequestTimeout returns the parsed API timeout, zero when unparsable.
func (c *Config) RequestTimeout() time.Duration {
	d, _ := time.ParseDuration(c.API.Timeout)
	return d
}

// DragThrottle returns the drag throttle window.
func (c *Config) DragThrottle() time.Duration {
	return time.Duration(c.Calendar.DragThrottleMS) * time.Millisecond
}

type entry struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringEntry(field func(c *Config) *string) entry {
	return entry{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func intEntry(field func(c *Config) *int) entry {
	return entry{
		get: func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			*field(c) = n
			return nil
		},
	}
}

func boolEntry(field func(c *Config) *bool) entry {
	return entry{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			*field(c) = b
			return nil
		},
	}
}

var entries = map[string]entry{
	"api.base_url":                    stringEntry(func(c *Config) *string { return &c.API.BaseURL }),
	"api.timeout":                     stringEntry(func(c *Config) *string { return &c.API.Timeout }),
	"calendar.start_hour":             intEntry(func(c *Config) *int { return &c.Calendar.StartHour }),
	"calendar.end_hour":               intEntry(func(c *Config) *int { return &c.Calendar.EndHour }),
	"calendar.interval_minutes":       intEntry(func(c *Config) *int { return &c.Calendar.IntervalMinutes }),
	"calendar.max_columns":            intEntry(func(c *Config) *int { return &c.Calendar.MaxColumns }),
	"calendar.drag_throttle_ms":       intEntry(func(c *Config) *int { return &c.Calendar.DragThrottleMS }),
	"calendar.supersede_drag_updates": boolEntry(func(c *Config) *bool { return &c.Calendar.SupersedeDragUpdates }),
	"storage.db_path":                 stringEntry(func(c *Config) *string { return &c.Storage.DBPath }),
	"ui.theme":                        stringEntry(func(c *Config) *string { return &c.UI.Theme }),
	"log.path":                        stringEntry(func(c *Config) *string { return &c.Log.Path }),
	"log.level":                       stringEntry(func(c *Config) *string { return &c.Log.Level }),
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Get returns the value of a "section.key" setting.
func (c *Config) Get(key string) (string, error) {
	e, ok := entries[strings.ToLower(key)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return e.get(c), nil
}

// Set changes a "section.key" setting and validates the result. The config is
// left unchanged when validation fails.
func (c *Config) Set(key, value string) error {
	e, ok := entries[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	next := *c
	if err := e.set(&next, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
