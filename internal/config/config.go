package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/formguard/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "formguard.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "FORMGUARD_"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultReadLimit caps request bodies and websocket messages.
	DefaultReadLimit = 1 << 20

	// DefaultShutdownTimeout is the graceful shutdown window.
	DefaultShutdownTimeout = "10s"

	// DefaultSelector selects the form to validate.
	DefaultSelector = "form"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace prefixes metric names.
	DefaultNamespace = "formguard"
)

// ConfigFileNames lists the file names Load looks for, in order.
var ConfigFileNames = []string{ConfigFileName, "formguard.yaml", "formguard.yml"}

// ErrNotFound is wrapped by the error returned when no config file exists.
var ErrNotFound = stderrors.New("config: file not found")

// Config represents the complete formguard configuration.
type Config struct {
	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server" yaml:"server" envPrefix:"SERVER_"`

	// Log contains logging configuration.
	Log LogConfig `json:"log" yaml:"log" envPrefix:"LOG_"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" envPrefix:"METRICS_"`

	// Form contains defaults for binding forms.
	Form FormConfig `json:"form" yaml:"form" envPrefix:"FORM_"`

	// Rules declares custom validators by name.
	Rules map[string]RuleConfig `json:"rules,omitempty" yaml:"rules,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty" env:"HOST"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty" env:"PORT"`

	// ReadLimit caps request bodies and websocket messages, in bytes.
	ReadLimit int64 `json:"readLimit,omitempty" yaml:"readLimit,omitempty" env:"READ_LIMIT"`

	// ShutdownTimeout is the graceful shutdown window (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty" env:"SHUTDOWN_TIMEOUT"`

	// AllowedOrigins lists origins allowed to open live connections.
	// Empty allows same-origin requests only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty" env:"ALLOWED_ORIGINS" envSeparator:","`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty" env:"LEVEL"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty" env:"FORMAT"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes metrics on Path.
	Enabled bool `json:"enabled" yaml:"enabled" env:"ENABLED"`

	// Namespace prefixes metric names.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty" env:"NAMESPACE"`

	// Path is the metrics endpoint.
	Path string `json:"path,omitempty" yaml:"path,omitempty" env:"PATH"`
}

// FormConfig contains form binding defaults.
type FormConfig struct {
	// Selector selects the form when a request does not name one.
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty" env:"SELECTOR"`
}

// RuleConfig declares one custom validator.
type RuleConfig struct {
	// Type is the validator kind: pattern, oneOf, email, url, uuid,
	// alpha, alphaNumeric, numeric or phone.
	Type string `json:"type" yaml:"type"`

	// Pattern is the regular expression of a pattern rule.
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	// Values are the allowed values of a oneOf rule. When empty the
	// declared attribute value is used.
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`

	// Message overrides the default failure message.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// RuleTypes lists the accepted RuleConfig types.
var RuleTypes = []string{"pattern", "oneOf", "email", "url", "uuid", "alpha", "alphaNumeric", "numeric", "phone"}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadLimit:       DefaultReadLimit,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
			Path:      DefaultMetricsPath,
		},
		Form: FormConfig{
			Selector: DefaultSelector,
		},
	}
}

// Load reads the configuration file in dir, applies .env and environment
// overrides and validates the result.
func Load(dir string) (*Config, error) {
	path, ok := Find(dir)
	if !ok {
		return nil, errors.New("F020").
			WithDetail("No formguard.json, formguard.yaml or formguard.yml found in " + dir).
			Wrap(ErrNotFound)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return cfg, cfg.finish(dir)
}

// LoadOptional is Load, but a missing file yields the defaults.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if stderrors.Is(err, ErrNotFound) {
		cfg = New()
		return cfg, cfg.finish(dir)
	}
	return cfg, err
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension: .yaml and .yml are YAML, anything else JSON.
// Environment overrides are not applied.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("F020").
				WithDetail("Config file " + path + " does not exist").
				Wrap(ErrNotFound)
		}
		return nil, errors.New("F021").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = decodeYAML(data, cfg)
	} else {
		err = decodeJSON(data, cfg)
	}
	if err != nil {
		fe := errors.New("F021").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			Wrap(err)
		if line, col := errorPosition(data, err); line > 0 {
			fe.WithLocation(path, line, col)
		}
		return nil, fe
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// finish applies dir/.env and the process environment, then validates.
func (c *Config) finish(dir string) error {
	environ := env.ToMap(os.Environ())
	dotenv, err := ReadDotEnv(dir)
	if err != nil {
		return err
	}
	for k, v := range dotenv {
		if _, set := environ[k]; !set {
			environ[k] = v
		}
	}
	if err := c.ApplyEnv(environ); err != nil {
		return err
	}
	return c.Validate()
}

// ReadDotEnv reads dir/.env without touching the process environment.
// A missing file yields an empty map.
func ReadDotEnv(dir string) (map[string]string, error) {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.New("F026").WithDetail("Failed to read " + path).Wrap(err)
	}
	return vars, nil
}

// ApplyEnv overrides fields from FORMGUARD_* variables in environ.
// A nil environ reads the process environment.
func (c *Config) ApplyEnv(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return errors.New("F026").Wrap(err)
	}
	c.applyDefaults()
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, as YAML when the
// extension says so and JSON otherwise.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("F021").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("F081").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	// Server
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadLimit == 0 {
		c.Server.ReadLimit = DefaultReadLimit
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Metrics
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	// Form
	if c.Form.Selector == "" {
		c.Form.Selector = DefaultSelector
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("F022").
			WithDetailf("server.port %d must be between 0 and 65535", c.Server.Port)
	}
	if c.Server.ReadLimit < 0 {
		return errors.New("F022").
			WithDetailf("server.readLimit %d must not be negative", c.Server.ReadLimit)
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return errors.New("F022").
			WithDetailf("server.shutdownTimeout %q is not a duration", c.Server.ShutdownTimeout).
			WithSuggestion(`Use Go duration syntax, e.g. "10s" or "1m30s"`)
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("F022").
			WithDetailf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("F022").
			WithDetailf("log.format %q must be text or json", c.Log.Format)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("F022").
			WithDetailf("metrics.path %q must start with /", c.Metrics.Path)
	}
	if _, err := c.Validators(); err != nil {
		return err
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ShutdownTimeout returns the parsed graceful shutdown window.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultShutdownTimeout)
	}
	return d
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	lvl, _ := parseLevel(c.Log.Level)
	return lvl
}

// NewLogger builds a logger writing to w with the configured level and
// format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Find returns the first config file present in dir.
func Find(dir string) (string, bool) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, ok := Find(dir)
	return ok
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decodeJSON(data []byte, cfg *Config) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// errorPosition locates a decode error in data. It returns 0, 0 when the
// error carries no position.
func errorPosition(data []byte, err error) (line, col int) {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntaxErr):
		return lineColumn(data, syntaxErr.Offset)
	case stderrors.As(err, &typeErr):
		return lineColumn(data, typeErr.Offset)
	}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, 0
	}
	return 0, 0
}

// lineColumn converts a byte offset into a 1-based line and column.
func lineColumn(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
