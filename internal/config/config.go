// Package config loads and validates the datadocs project file.
//
// Loading runs in fixed passes: read .env files, expand environment
// references, strictly decode YAML (unknown keys fail), normalize enums,
// apply defaults, resolve relative paths and validate.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

// CurrentVersion is the only supported configuration version.
const CurrentVersion = "1.0"

// DefaultFileName is the configuration file looked up when none is given.
const DefaultFileName = "datadocs.yml"

// Config is the project configuration.
type Config struct {
	Version       string                 `yaml:"version"`
	Logging       LoggingConfig          `yaml:"logging"`
	Metrics       MetricsConfig          `yaml:"metrics"`
	Journal       JournalConfig          `yaml:"journal"`
	Watch         WatchConfig            `yaml:"watch"`
	Stores        map[string]StoreConfig `yaml:"stores"`
	DataDocsSites map[string]*SiteConfig `yaml:"data_docs_sites"`

	// baseDir is the directory of the loaded file; relative paths resolve against it.
	baseDir string
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint served in watch mode.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// JournalConfig points at the SQLite build journal. An empty database
// disables the journal.
type JournalConfig struct {
	Database string `yaml:"database"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	// Debounce is a Go duration string; bursts of artifact changes closer than
	// this are coalesced into one build.
	Debounce string `yaml:"debounce"`
	// Schedule is an optional cron expression for periodic full rebuilds.
	Schedule string `yaml:"schedule"`
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "resolve configuration path").
			WithContext("path", path).Build()
	}
	// #nosec G304 -- path is user supplied on purpose
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").WithContext("path", abs).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "read configuration file").
			WithContext("path", abs).Build()
	}
	if err := loadEnvFiles(filepath.Dir(abs)); err != nil {
		return nil, err
	}
	return Parse(data, filepath.Dir(abs))
}

// Parse decodes configuration bytes. Relative paths resolve against baseDir.
func Parse(data []byte, baseDir string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := strictDecode([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "parse configuration").Build()
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "resolve configuration directory").Build()
	}
	cfg.baseDir = abs

	if err := normalizeConfig(&cfg); err != nil {
		return nil, err
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	cfg.resolvePaths()
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BaseDir returns the directory relative paths were resolved against.
func (c *Config) BaseDir() string { return c.baseDir }

// SiteNames returns the configured site names in sorted order.
func (c *Config) SiteNames() []string {
	names := make([]string, 0, len(c.DataDocsSites))
	for n := range c.DataDocsSites {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Site returns the named site, or the only site when name is empty.
func (c *Config) Site(name string) (*SiteConfig, error) {
	if name == "" {
		names := c.SiteNames()
		if len(names) != 1 {
			return nil, errors.ConfigError("site name required when several sites are configured").
				WithContext("sites", names).Build()
		}
		name = names[0]
	}
	site, ok := c.DataDocsSites[name]
	if !ok {
		return nil, errors.ConfigError("unknown site").WithContext("site", name).
			WithContext("sites", c.SiteNames()).Build()
	}
	return site, nil
}

// strictDecode decodes YAML rejecting unknown keys. An empty document leaves
// v untouched.
func strictDecode(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// decodeNode strictly decodes a single node. yaml.Node.Decode does not honour
// KnownFields, so the node is re-encoded and run through a strict decoder.
func decodeNode(n *yaml.Node, v any) error {
	data, err := yaml.Marshal(n)
	if err != nil {
		return err
	}
	return strictDecode(data, v)
}

func (c *Config) resolvePaths() {
	for name, st := range c.Stores {
		st.BaseDirectory = c.resolve(st.BaseDirectory)
		st.Database = c.resolve(st.Database)
		c.Stores[name] = st
	}
	for _, site := range c.DataDocsSites {
		site.StoreBackend.BaseDirectory = c.resolve(site.StoreBackend.BaseDirectory)
	}
	c.Journal.Database = c.resolve(c.Journal.Database)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.baseDir, p)
}
