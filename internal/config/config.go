// Package config loads CLI settings.
//
// Precedence, lowest first: defaults, YAML file, .env file, environment, flags.
// Flags are applied by the caller after Load returns.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "AIP_"

// Config holds CLI settings.
type Config struct {
	APIKey            string        `yaml:"api_key"`
	SecretKey         string        `yaml:"secret_key"`
	AccessToken       string        `yaml:"access_token"`
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	ProcessingTimeout time.Duration `yaml:"processing_timeout"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	QPS               float64       `yaml:"qps"`
	Burst             int           `yaml:"burst"`
	Retry             int           `yaml:"retry"`
	MetricsAddr       string        `yaml:"metrics_addr"`
	Log               LogConfig     `yaml:"log"`
}

// LogConfig selects the zap logger.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `yaml:"level"`
	// Format: console, json
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		BaseURL:           "https://aip.baidubce.com",
		Timeout:           60 * time.Second,
		ProcessingTimeout: 5 * time.Minute,
		PollInterval:      2 * time.Second,
		Burst:             1,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Loader reads configuration from files and the environment.
type Loader struct {
	configPath string
	envFiles   []string
	lookupEnv  func(string) (string, bool)
}

func NewLoader() *Loader {
	return &Loader{
		envFiles:  []string{".env"},
		lookupEnv: os.LookupEnv,
	}
}

// WithConfigPath sets the YAML file. An explicitly named file must exist.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvFiles replaces the dotenv files read before environment overrides. Missing files are skipped.
func (l *Loader) WithEnvFiles(files ...string) *Loader {
	l.envFiles = files
	return l
}

// WithLookupEnv replaces os.LookupEnv, mainly for tests.
func (l *Loader) WithLookupEnv(fn func(string) (string, bool)) *Loader {
	if fn != nil {
		l.lookupEnv = fn
	}
	return l
}

// Load resolves the configuration.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if l.configPath != "" {
		if err := loadYAML(l.configPath, cfg); err != nil {
			return nil, err
		}
	}

	dotenv, err := readEnvFiles(l.envFiles)
	if err != nil {
		return nil, err
	}

	lookup := func(key string) (string, bool) {
		if value, ok := l.lookupEnv(key); ok {
			return value, true
		}
		value, ok := dotenv[key]
		return value, ok
	}

	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no client can be built from.
func (c *Config) Validate() error {
	var errs []error
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative"))
	}
	if c.ProcessingTimeout < 0 {
		errs = append(errs, fmt.Errorf("processing_timeout must not be negative"))
	}
	if c.PollInterval < 0 {
		errs = append(errs, fmt.Errorf("poll_interval must not be negative"))
	}
	if c.QPS < 0 {
		errs = append(errs, fmt.Errorf("qps must not be negative"))
	}
	if c.Retry < 0 {
		errs = append(errs, fmt.Errorf("retry must not be negative"))
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// HasCredentials reports whether a token can be obtained.
func (c *Config) HasCredentials() bool {
	return c.AccessToken != "" || (c.APIKey != "" && c.SecretKey != "")
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	merged := map[string]string{}
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read env file %s: %w", file, err)
		}
		for k, v := range values {
			// earlier files win, matching godotenv.Load
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}
	return merged, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		value, ok := lookup(EnvPrefix + name)
		if !ok || value == "" {
			return "", false
		}
		return value, true
	}

	stringVars := map[string]*string{
		"API_KEY":      &cfg.APIKey,
		"SECRET_KEY":   &cfg.SecretKey,
		"ACCESS_TOKEN": &cfg.AccessToken,
		"BASE_URL":     &cfg.BaseURL,
		"METRICS_ADDR": &cfg.MetricsAddr,
		"LOG_LEVEL":    &cfg.Log.Level,
		"LOG_FORMAT":   &cfg.Log.Format,
	}
	for name, dst := range stringVars {
		if value, ok := get(name); ok {
			*dst = value
		}
	}

	durationVars := map[string]*time.Duration{
		"TIMEOUT":            &cfg.Timeout,
		"PROCESSING_TIMEOUT": &cfg.ProcessingTimeout,
		"POLL_INTERVAL":      &cfg.PollInterval,
	}
	for name, dst := range durationVars {
		if value, ok := get(name); ok {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = d
		}
	}

	intVars := map[string]*int{
		"BURST": &cfg.Burst,
		"RETRY": &cfg.Retry,
	}
	for name, dst := range intVars {
		if value, ok := get(name); ok {
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = n
		}
	}

	if value, ok := get("QPS"); ok {
		qps, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%sQPS: %w", EnvPrefix, err)
		}
		cfg.QPS = qps
	}

	return nil
}
