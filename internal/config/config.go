// Package config loads loom's configuration. Settings resolve in
// order: built-in defaults, then an optional config file, then LOOM_*
// environment variables. Command-line flags override all of these and
// are applied by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dshills/loom/lazytext"
)

// Config is loom's resolved configuration.
type Config struct {
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string

	Output OutputConfig
	Tuning TuningConfig
	Watch  WatchConfig
}

// OutputConfig controls how built text leaves the process.
type OutputConfig struct {
	// Encoding names the byte encoding (utf-8, utf-16le, utf-16be).
	Encoding string
	// BOM prefixes the output with a byte order mark.
	BOM bool
	// Gzip compresses the output stream.
	Gzip bool
}

// TuningConfig carries the builder driver tuning, in UTF-16 code
// units. Zero means the library default; InlineThreshold uses -1 for
// unset because zero is a meaningful threshold.
type TuningConfig struct {
	ChunkSize       int
	InlineThreshold int
	InitialCapacity int
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	// DebounceMS coalesces change events arriving within the window.
	DebounceMS int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Output: OutputConfig{
			Encoding: "utf-8",
		},
		Tuning: TuningConfig{
			InlineThreshold: -1,
		},
		Watch: WatchConfig{
			DebounceMS: 200,
		},
	}
}

// Load resolves configuration from the given file path, or from the
// default locations when path is empty. A missing default file is not
// an error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	var (
		m   map[string]any
		err error
	)
	if path != "" {
		if _, statErr := os.Stat(path); statErr != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, statErr)
		}
		m, err = loadFile(path)
	} else {
		m, err = loadDefaultFile()
	}
	if err != nil {
		return cfg, err
	}

	m = deepMerge(m, envOverrides())
	cfg.apply(m)
	return cfg, cfg.validate()
}

// loadDefaultFile probes the conventional locations and loads the
// first config file present.
func loadDefaultFile() (map[string]any, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, nil
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml", "config.json"} {
		m, err := loadFile(filepath.Join(dir, "loom", name))
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
	}
	return nil, nil
}

// envOverrides reads LOOM_* variables into a config map shaped like a
// parsed file, so the merge treats both sources uniformly.
func envOverrides() map[string]any {
	mapping := map[string][]string{
		"LOOM_LOG_LEVEL":        {"log_level"},
		"LOOM_ENCODING":         {"output", "encoding"},
		"LOOM_BOM":              {"output", "bom"},
		"LOOM_GZIP":             {"output", "gzip"},
		"LOOM_CHUNK_SIZE":       {"tuning", "chunk_size"},
		"LOOM_INLINE_THRESHOLD": {"tuning", "inline_threshold"},
		"LOOM_INITIAL_CAPACITY": {"tuning", "initial_capacity"},
		"LOOM_DEBOUNCE_MS":      {"watch", "debounce_ms"},
	}

	out := make(map[string]any)
	for env, path := range mapping {
		val, ok := os.LookupEnv(env)
		if !ok {
			continue
		}
		setByPath(out, path, parseValue(val))
	}
	return out
}

// parseValue coerces an environment string to bool or int when it
// looks like one, else keeps the string.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}

func setByPath(m map[string]any, path []string, val any) {
	for _, key := range path[:len(path)-1] {
		sub, ok := m[key].(map[string]any)
		if !ok {
			sub = make(map[string]any)
			m[key] = sub
		}
		m = sub
	}
	m[path[len(path)-1]] = val
}

// apply copies recognized keys from a merged config map onto cfg.
// Unknown keys are ignored.
func (c *Config) apply(m map[string]any) {
	if m == nil {
		return
	}
	if v, ok := getString(m, "log_level"); ok {
		c.LogLevel = v
	}
	if out, ok := m["output"].(map[string]any); ok {
		if v, ok := getString(out, "encoding"); ok {
			c.Output.Encoding = v
		}
		if v, ok := getBool(out, "bom"); ok {
			c.Output.BOM = v
		}
		if v, ok := getBool(out, "gzip"); ok {
			c.Output.Gzip = v
		}
	}
	if tun, ok := m["tuning"].(map[string]any); ok {
		if v, ok := getInt(tun, "chunk_size"); ok {
			c.Tuning.ChunkSize = v
		}
		if v, ok := getInt(tun, "inline_threshold"); ok {
			c.Tuning.InlineThreshold = v
		}
		if v, ok := getInt(tun, "initial_capacity"); ok {
			c.Tuning.InitialCapacity = v
		}
	}
	if w, ok := m["watch"].(map[string]any); ok {
		if v, ok := getInt(w, "debounce_ms"); ok {
			c.Watch.DebounceMS = v
		}
	}
}

// validate rejects values no later stage could act on.
func (c *Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if _, err := lazytext.ParseEncoding(c.Output.Encoding); err != nil {
		return err
	}
	if c.Tuning.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.Tuning.ChunkSize)
	}
	if c.Tuning.InitialCapacity < 0 {
		return fmt.Errorf("initial_capacity must be positive, got %d", c.Tuning.InitialCapacity)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", c.Watch.DebounceMS)
	}
	return nil
}

// DriverOptions converts the tuning section to lazytext driver
// options, skipping unset values.
func (c Config) DriverOptions() []lazytext.Option {
	var opts []lazytext.Option
	if c.Tuning.ChunkSize > 0 {
		opts = append(opts, lazytext.WithChunkSize(c.Tuning.ChunkSize))
	}
	if c.Tuning.InlineThreshold >= 0 {
		opts = append(opts, lazytext.WithInlineThreshold(c.Tuning.InlineThreshold))
	}
	if c.Tuning.InitialCapacity > 0 {
		opts = append(opts, lazytext.WithInitialCapacity(c.Tuning.InitialCapacity))
	}
	return opts
}

// getString fetches a string value, rendering scalar types.
func getString(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case bool:
		return strconv.FormatBool(s), true
	case int, int64, float64:
		return fmt.Sprintf("%v", s), true
	}
	return "", false
}

// getInt fetches an integer, accepting the numeric types the parsers
// produce (int from YAML, int64 from TOML, float64 from JSON).
func getInt(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getBool(m map[string]any, key string) (bool, bool) {
	switch v := m[key].(type) {
	case bool:
		return v, true
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b, true
		}
	}
	return false, false
}
