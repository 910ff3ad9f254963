// Package config loads, validates, and persists dcftracker configuration.
//
// Precedence, lowest to highest: built-in defaults, the YAML file under the
// config directory, DCFTRACKER_* environment variables, then an optional
// overlay file (--config) whose sections replace whole sections. CLI flags are
// applied by the caller afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/Adithya151/DCF---racker/internal/advisor"
	"github.com/Adithya151/DCF---racker/internal/aggregate"
	"github.com/Adithya151/DCF---racker/internal/emission"
	"github.com/Adithya151/DCF---racker/internal/forecast"
	"github.com/Adithya151/DCF---racker/internal/greenops"
	"github.com/Adithya151/DCF---racker/internal/rank"
)

// configFileName is the config file inside the config directory.
const configFileName = "config.yaml"

// Store drivers.
const (
	StoreDriverFile     = "file"
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

// Output formats.
const (
	OutputTable  = "table"
	OutputJSON   = "json"
	OutputNDJSON = "ndjson"
)

// Defaults not owned by a domain package.
const (
	DefaultRefreshConcurrency = 4
	DefaultServerAddress      = ":8080"
	DefaultReadTimeout        = 5 * time.Second
	DefaultWriteTimeout       = 10 * time.Second
	DefaultPrecision          = 2
	maxPrecision              = 10
)

// Validation errors.
var (
	ErrInvalidHorizon      = errors.New("forecast horizon must be >= 0")
	ErrInvalidLeaderboard  = errors.New("leaderboard size must be >= 1")
	ErrInvalidConcurrency  = errors.New("leaderboard refresh concurrency must be >= 1")
	ErrUnknownStoreDriver  = errors.New("store driver must be 'file', 'memory', or 'postgres'")
	ErrStoreDSNRequired    = errors.New("store dsn is required for the postgres driver")
	ErrUnknownOutputFormat = errors.New("output format must be 'table', 'json', or 'ndjson'")
	ErrInvalidPrecision    = errors.New("output precision must be between 0 and 10")
	ErrUnknownOutputUnit   = errors.New("output unit must be 'g', 'kg', 't', or 'lb'")
	ErrUnknownKey          = errors.New("unknown configuration key")
)

// ForecastConfig controls the trend projection.
type ForecastConfig struct {
	// Horizon is how many submissions past the last one to project.
	Horizon int `yaml:"horizon" json:"horizon"`
}

// LeaderboardConfig controls ranking output.
type LeaderboardConfig struct {
	Size int `yaml:"size" json:"size"`
	// RefreshConcurrency bounds how many user totals are recomputed at once.
	RefreshConcurrency int `yaml:"refresh_concurrency" json:"refresh_concurrency"`
}

// StoreConfig selects where activity records and profiles live.
type StoreConfig struct {
	Driver string `yaml:"driver"         json:"driver"`
	Path   string `yaml:"path"           json:"path,omitempty"`
	DSN    string `yaml:"dsn"            json:"dsn,omitempty"`
}

// ServerConfig configures `dcftracker serve`.
type ServerConfig struct {
	Address      string        `yaml:"address"       json:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout"  json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
}

// OutputConfig controls CLI rendering. Unit is the display unit for CO2
// amounts in table output.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	Precision     int    `yaml:"precision"      json:"precision"`
	Unit          string `yaml:"unit"           json:"unit"`
}

// Config is the full dcftracker configuration.
type Config struct {
	Emission    emission.Coefficients  `yaml:"emission"    json:"emission"`
	Advisor     advisor.Thresholds     `yaml:"advisor"     json:"advisor"`
	Forecast    ForecastConfig         `yaml:"forecast"    json:"forecast"`
	Leaderboard LeaderboardConfig      `yaml:"leaderboard" json:"leaderboard"`
	Windows     aggregate.WindowConfig `yaml:"windows"     json:"windows"`
	Goal        GoalConfig             `yaml:"goal"        json:"goal"`
	Store       StoreConfig            `yaml:"store"       json:"store"`
	Server      ServerConfig           `yaml:"server"      json:"server"`
	Output      OutputConfig           `yaml:"output"      json:"output"`
	Logging     LoggingConfig          `yaml:"logging"     json:"logging"`

	path string
}

// Default returns the built-in configuration without touching the filesystem.
func Default() *Config {
	storePath := ""
	if dir, err := GetConfigDir(); err == nil {
		storePath = filepath.Join(dir, "activity.json")
	}

	return &Config{
		Emission: emission.DefaultCoefficients(),
		Advisor:  advisor.DefaultThresholds(),
		Forecast: ForecastConfig{Horizon: forecast.DefaultHorizon},
		Leaderboard: LeaderboardConfig{
			Size:               rank.DefaultLeaderboardSize,
			RefreshConcurrency: DefaultRefreshConcurrency,
		},
		Windows: aggregate.DefaultWindowConfig(),
		Goal:    GoalConfig{DailyKg: aggregate.DefaultDailyGoalKg},
		Store:   StoreConfig{Driver: StoreDriverFile, Path: storePath},
		Server: ServerConfig{
			Address:      DefaultServerAddress,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
		},
		Output: OutputConfig{
			DefaultFormat: OutputTable,
			Precision:     DefaultPrecision,
			Unit:          greenops.UnitKg,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// New returns defaults overlaid with the user's config file and environment.
// A missing or unreadable file leaves the defaults in place.
func New() *Config {
	cfg := Default()

	if dir, err := GetConfigDir(); err == nil {
		path := filepath.Join(dir, configFileName)
		cfg.path = path
		if _, statErr := os.Stat(path); statErr == nil {
			if loadErr := cfg.loadFile(path); loadErr != nil {
				log.Warn().
					Str("component", "config").
					Err(loadErr).
					Str("path", path).
					Msg("failed to load config file, using defaults")
			}
		}
	}

	cfg.applyEnv(os.LookupEnv)
	return cfg
}

// Load reads a config file on top of the defaults and applies environment
// overrides. Unlike New it reports file errors.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.path = path
	cfg.applyEnv(os.LookupEnv)
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// Path returns the file this config was loaded from or will be saved to.
func (c *Config) Path() string {
	return c.path
}

// SetPath changes where Save writes.
func (c *Config) SetPath(path string) {
	c.path = path
}

// Save writes the config as YAML, creating the parent directory.
func (c *Config) Save() error {
	if c.path == "" {
		dir, err := GetConfigDir()
		if err != nil {
			return err
		}
		c.path = filepath.Join(dir, configFileName)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	tmp := c.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	if err = os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing config file: %w", err)
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Emission.Validate(); err != nil {
		return fmt.Errorf("emission: %w", err)
	}
	if err := c.Advisor.Validate(); err != nil {
		return fmt.Errorf("advisor: %w", err)
	}
	if c.Forecast.Horizon < 0 {
		return fmt.Errorf("forecast: %w: got %d", ErrInvalidHorizon, c.Forecast.Horizon)
	}
	if c.Leaderboard.Size < 1 {
		return fmt.Errorf("leaderboard: %w: got %d", ErrInvalidLeaderboard, c.Leaderboard.Size)
	}
	if c.Leaderboard.RefreshConcurrency < 1 {
		return fmt.Errorf("leaderboard: %w: got %d", ErrInvalidConcurrency, c.Leaderboard.RefreshConcurrency)
	}
	if err := c.Windows.Validate(); err != nil {
		return fmt.Errorf("windows: %w", err)
	}
	if err := c.Goal.Validate(); err != nil {
		return fmt.Errorf("goal: %w", err)
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	switch c.Output.DefaultFormat {
	case OutputTable, OutputJSON, OutputNDJSON:
	default:
		return fmt.Errorf("output: %w: got %q", ErrUnknownOutputFormat, c.Output.DefaultFormat)
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		return fmt.Errorf("output: %w: got %d", ErrInvalidPrecision, c.Output.Precision)
	}
	if !greenops.IsRecognizedUnit(c.Output.Unit) {
		return fmt.Errorf("output: %w: got %q", ErrUnknownOutputUnit, c.Output.Unit)
	}
	return nil
}

// Validate checks the driver and its required settings.
func (s StoreConfig) Validate() error {
	switch s.Driver {
	case StoreDriverFile, StoreDriverMemory:
		return nil
	case StoreDriverPostgres:
		if s.DSN == "" {
			return ErrStoreDSNRequired
		}
		return nil
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownStoreDriver, s.Driver)
	}
}

// envOverride maps an environment variable onto a dotted config key.
type envOverride struct {
	env string
	key string
}

//nolint:gochecknoglobals // Static lookup table.
var envOverrides = []envOverride{
	{"DCFTRACKER_LOG_LEVEL", "logging.level"},
	{"DCFTRACKER_LOG_FORMAT", "logging.format"},
	{"DCFTRACKER_LOG_FILE", "logging.file"},
	{"DCFTRACKER_STORE_DRIVER", "store.driver"},
	{"DCFTRACKER_STORE_PATH", "store.path"},
	{"DCFTRACKER_STORE_DSN", "store.dsn"},
	{"DCFTRACKER_SERVER_ADDRESS", "server.address"},
	{"DCFTRACKER_OUTPUT_FORMAT", "output.default_format"},
	{"DCFTRACKER_OUTPUT_UNIT", "output.unit"},
	{"DCFTRACKER_FORECAST_HORIZON", "forecast.horizon"},
	{"DCFTRACKER_LEADERBOARD_SIZE", "leaderboard.size"},
	{"DCFTRACKER_DAILY_GOAL_KG", "goal.daily_kg"},
}

// applyEnv applies DCFTRACKER_* overrides. Invalid values are logged and
// skipped so a typo in the environment does not block the CLI.
func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) {
	for _, o := range envOverrides {
		v, ok := lookupEnv(o.env)
		if !ok || v == "" {
			continue
		}
		if err := c.Set(o.key, v); err != nil {
			log.Warn().
				Str("component", "config").
				Err(err).
				Str("env", o.env).
				Msg("ignoring invalid environment override")
		}
	}
}

// Get returns the value at a dotted key such as "advisor.emails".
func (c *Config) Get(key string) (interface{}, error) {
	tree, err := c.toMap()
	if err != nil {
		return nil, err
	}

	var cur interface{} = tree
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		cur, ok = m[part]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
	}
	return cur, nil
}

// Set assigns a string value at a dotted key. The value is decoded as YAML so
// "42", "true", and "0.5" keep their types. The key must already exist.
func (c *Config) Set(key, value string) error {
	tree, err := c.toMap()
	if err != nil {
		return err
	}

	parts := strings.Split(key, ".")
	parent := tree
	for _, part := range parts[:len(parts)-1] {
		next, ok := parent[part].(map[string]interface{})
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		parent = next
	}

	leaf := parts[len(parts)-1]
	if _, ok := parent[leaf]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if _, isSection := parent[leaf].(map[string]interface{}); isSection {
		return fmt.Errorf("%w: %s is a section, not a value", ErrUnknownKey, key)
	}

	var decoded interface{}
	if err = yaml.Unmarshal([]byte(value), &decoded); err != nil || decoded == nil {
		decoded = value
	}
	// Keep strings that look numeric as strings when the field is a string.
	if _, wasString := parent[leaf].(string); wasString {
		decoded = value
	}
	parent[leaf] = decoded

	data, err := yaml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	updated := *c
	if err = yaml.Unmarshal(data, &updated); err != nil {
		return fmt.Errorf("setting %s=%s: %w", key, value, err)
	}
	*c = updated
	return nil
}

// Keys lists every settable dotted key in a stable order.
func (c *Config) Keys() ([]string, error) {
	tree, err := c.toMap()
	if err != nil {
		return nil, err
	}
	var keys []string
	collectKeys("", tree, &keys)
	return keys, nil
}

func collectKeys(prefix string, m map[string]interface{}, keys *[]string) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		if sub, ok := m[k].(map[string]interface{}); ok {
			collectKeys(full, sub, keys)
			continue
		}
		*keys = append(*keys, full)
	}
}

func (c *Config) toMap() (map[string]interface{}, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	var tree map[string]interface{}
	if err = yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return tree, nil
}

// FormatValue renders a config value for `config get`.
func FormatValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := yaml.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return strings.TrimSpace(string(data))
	}
}
