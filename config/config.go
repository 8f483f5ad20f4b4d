// Package config loads controller settings from the environment, an optional
// YAML file and command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"reservation-controller/errors"
	"reservation-controller/formatter"
)

// Hour bounds accepted for a simulation.
const (
	FirstHour = 0
	LastHour  = 24
)

type Config struct {
	// Simulation
	MinHour        int
	MaxHour        int
	SecondsPerHour int
	Capacity       int // people per hour

	// Transport
	Pipe string // inbound named pipe shared by all agents

	// Output
	ReportFormat string // text, json, csv (default: text)
	LogLevel     string // debug, info, warn, error (default: info)
	LogFormat    string // text, json (default: text)

	// Metrics (optional)
	MetricsAddr string
	PushURL     string
	Wait        bool
}

// HourPeriod is the real time between two clock ticks.
func (c *Config) HourPeriod() time.Duration {
	return time.Duration(c.SecondsPerHour) * time.Second
}

// settings is one configuration layer; nil fields are unset.
type settings struct {
	MinHour        *int    `yaml:"min_hour"`
	MaxHour        *int    `yaml:"max_hour"`
	SecondsPerHour *int    `yaml:"seconds_per_hour"`
	Capacity       *int    `yaml:"capacity"`
	Pipe           *string `yaml:"pipe"`
	ReportFormat   *string `yaml:"report_format"`
	LogLevel       *string `yaml:"log_level"`
	LogFormat      *string `yaml:"log_format"`
	MetricsAddr    *string `yaml:"metrics_addr"`
	PushURL        *string `yaml:"push_url"`
	Wait           *bool   `yaml:"wait"`
}

// flagValues receives parsed flags before they become a settings layer.
type flagValues struct {
	minHour, maxHour, secondsPerHour, capacity int
	pipe, reportFormat, logLevel, logFormat    string
	metricsAddr, pushURL                       string
	wait                                       bool
	configFile, envFile                        string
}

func newFlagSet(v *flagValues) *pflag.FlagSet {
	fs := pflag.NewFlagSet("controller", pflag.ContinueOnError)
	fs.IntVarP(&v.minHour, "min-hour", "i", 0, "first simulated hour (required)")
	fs.IntVarP(&v.maxHour, "max-hour", "f", 0, "last simulated hour (required)")
	fs.IntVarP(&v.secondsPerHour, "seconds-per-hour", "s", 0, "real seconds per simulated hour (required)")
	fs.IntVarP(&v.capacity, "capacity", "t", 0, "maximum people per hour (required)")
	fs.StringVarP(&v.pipe, "pipe", "p", "", "inbound named pipe path (required)")
	fs.StringVar(&v.reportFormat, "report-format", formatter.FormatNameText, "final report format: text|json|csv")
	fs.StringVar(&v.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	fs.StringVar(&v.logFormat, "log-format", "text", "log format: text|json")
	fs.StringVar(&v.metricsAddr, "metrics-addr", "", "address to expose Prometheus metrics (e.g., :9090)")
	fs.StringVar(&v.pushURL, "push-url", "", "Pushgateway URL to push metrics to at the end of the run")
	fs.BoolVar(&v.wait, "wait", false, "keep serving metrics after the simulation ends")
	fs.StringVar(&v.configFile, "config", "", "YAML configuration file")
	fs.StringVar(&v.envFile, "env-file", "", "dotenv file loaded into the environment before reading it")
	fs.SortFlags = false
	return fs
}

// Usage returns the flag help text.
func Usage() string {
	var v flagValues
	return newFlagSet(&v).FlagUsages()
}

// Load builds the configuration from args (without the program name).
// It returns pflag.ErrHelp when help was requested.
func Load(args []string) (*Config, error) {
	var v flagValues
	fs := newFlagSet(&v)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", errors.ErrInvalidConfig, fs.Arg(0))
	}

	if v.envFile != "" {
		if err := godotenv.Load(v.envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", v.envFile, err)
		}
	}

	merged, err := fromEnv()
	if err != nil {
		return nil, err
	}

	if v.configFile != "" {
		file, err := fromFile(v.configFile)
		if err != nil {
			return nil, err
		}
		merged.merge(file)
	}

	merged.merge(fromFlags(fs, &v))
	return merged.resolve()
}

func fromFlags(fs *pflag.FlagSet, v *flagValues) settings {
	var s settings
	if fs.Changed("min-hour") {
		s.MinHour = &v.minHour
	}
	if fs.Changed("max-hour") {
		s.MaxHour = &v.maxHour
	}
	if fs.Changed("seconds-per-hour") {
		s.SecondsPerHour = &v.secondsPerHour
	}
	if fs.Changed("capacity") {
		s.Capacity = &v.capacity
	}
	if fs.Changed("pipe") {
		s.Pipe = &v.pipe
	}
	if fs.Changed("report-format") {
		s.ReportFormat = &v.reportFormat
	}
	if fs.Changed("log-level") {
		s.LogLevel = &v.logLevel
	}
	if fs.Changed("log-format") {
		s.LogFormat = &v.logFormat
	}
	if fs.Changed("metrics-addr") {
		s.MetricsAddr = &v.metricsAddr
	}
	if fs.Changed("push-url") {
		s.PushURL = &v.pushURL
	}
	if fs.Changed("wait") {
		s.Wait = &v.wait
	}
	return s
}

func fromFile(path string) (settings, error) {
	var s settings
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return s, nil
}

func fromEnv() (settings, error) {
	var s settings
	var err error

	ints := []struct {
		key    string
		target **int
	}{
		{"CONTROLLER_MIN_HOUR", &s.MinHour},
		{"CONTROLLER_MAX_HOUR", &s.MaxHour},
		{"CONTROLLER_SECONDS_PER_HOUR", &s.SecondsPerHour},
		{"CONTROLLER_CAPACITY", &s.Capacity},
	}
	for _, e := range ints {
		if *e.target, err = getEnvInt(e.key); err != nil {
			return s, err
		}
	}

	s.Pipe = getEnv("CONTROLLER_PIPE")
	s.ReportFormat = getEnv("CONTROLLER_REPORT_FORMAT")
	s.MetricsAddr = getEnv("CONTROLLER_METRICS_ADDR")
	s.PushURL = getEnv("CONTROLLER_PUSH_URL")
	s.LogLevel = getEnv("LOG_LEVEL")
	s.LogFormat = getEnv("LOG_FORMAT")
	if s.Wait, err = getEnvBool("CONTROLLER_WAIT"); err != nil {
		return s, err
	}
	return s, nil
}

func (s *settings) merge(o settings) {
	if o.MinHour != nil {
		s.MinHour = o.MinHour
	}
	if o.MaxHour != nil {
		s.MaxHour = o.MaxHour
	}
	if o.SecondsPerHour != nil {
		s.SecondsPerHour = o.SecondsPerHour
	}
	if o.Capacity != nil {
		s.Capacity = o.Capacity
	}
	if o.Pipe != nil {
		s.Pipe = o.Pipe
	}
	if o.ReportFormat != nil {
		s.ReportFormat = o.ReportFormat
	}
	if o.LogLevel != nil {
		s.LogLevel = o.LogLevel
	}
	if o.LogFormat != nil {
		s.LogFormat = o.LogFormat
	}
	if o.MetricsAddr != nil {
		s.MetricsAddr = o.MetricsAddr
	}
	if o.PushURL != nil {
		s.PushURL = o.PushURL
	}
	if o.Wait != nil {
		s.Wait = o.Wait
	}
}

// resolve checks that required options are present and applies defaults.
func (s settings) resolve() (*Config, error) {
	var missing []string
	for _, r := range []struct {
		name string
		set  bool
	}{
		{"min-hour", s.MinHour != nil},
		{"max-hour", s.MaxHour != nil},
		{"seconds-per-hour", s.SecondsPerHour != nil},
		{"capacity", s.Capacity != nil},
		{"pipe", s.Pipe != nil && *s.Pipe != ""},
	} {
		if !r.set {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", errors.ErrMissingOption, strings.Join(missing, ", "))
	}

	cfg := &Config{
		MinHour:        *s.MinHour,
		MaxHour:        *s.MaxHour,
		SecondsPerHour: *s.SecondsPerHour,
		Capacity:       *s.Capacity,
		Pipe:           *s.Pipe,
		ReportFormat:   valueOr(s.ReportFormat, formatter.FormatNameText),
		LogLevel:       valueOr(s.LogLevel, "info"),
		LogFormat:      valueOr(s.LogFormat, "text"),
		MetricsAddr:    valueOr(s.MetricsAddr, ""),
		PushURL:        valueOr(s.PushURL, ""),
		Wait:           s.Wait != nil && *s.Wait,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the simulation cannot run with.
func (c *Config) Validate() error {
	if c.MinHour < FirstHour || c.MaxHour > LastHour || c.MinHour >= c.MaxHour {
		return fmt.Errorf("%w: hour range must satisfy %d <= min-hour < max-hour <= %d, got %d..%d",
			errors.ErrInvalidConfig, FirstHour, LastHour, c.MinHour, c.MaxHour)
	}
	if c.SecondsPerHour <= 0 {
		return fmt.Errorf("%w: seconds-per-hour must be > 0, got %d", errors.ErrInvalidConfig, c.SecondsPerHour)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be > 0, got %d", errors.ErrInvalidConfig, c.Capacity)
	}
	if !formatter.ValidFormat(c.ReportFormat) {
		return fmt.Errorf("%w: report format must be one of: text, json, csv (got: %s)",
			errors.ErrInvalidConfig, c.ReportFormat)
	}
	return nil
}

func getEnv(key string) *string {
	if value := os.Getenv(key); value != "" {
		return &value
	}
	return nil
}

func getEnvInt(key string) (*int, error) {
	value := os.Getenv(key)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q is not an integer", errors.ErrInvalidConfig, key, value)
	}
	return &n, nil
}

func getEnvBool(key string) (*bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q is not a boolean", errors.ErrInvalidConfig, key, value)
	}
	return &b, nil
}

func valueOr(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}
