/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// CategoryConfig is the per-category section of the config surface: whether
// the collector is registered at all, and the floor on its effective
// collection interval.
type CategoryConfig struct {
	Enabled               bool `mapstructure:"enabled"`
	CollectionIntervalMs  int  `mapstructure:"collection_interval_ms"`
}

// ProcessConfig gates expensive per-process fields.
type ProcessConfig struct {
	CollectCommandLine   bool `mapstructure:"collect_command_line"`
	CollectEnvironment   bool `mapstructure:"collect_environment"`
	CollectIOStatistics  bool `mapstructure:"collect_io_statistics"`
}

// GpuConfig holds the gpu_config options. Only CollectProcesses is applied
// (it turns GPU process collection on); CollectNvidia, CollectAMD and
// CollectIntel are not read by any collector, and the GPU collector only
// queries nvidia-smi.
type GpuConfig struct {
	CollectNvidia   bool `mapstructure:"collect_nvidia"`
	CollectAMD      bool `mapstructure:"collect_amd"`
	CollectIntel    bool `mapstructure:"collect_intel"`
	CollectProcesses bool `mapstructure:"collect_processes"`
}

// Config is monitord's full runtime configuration, layered by viper as
// flags > env (MONITORD_ prefix) > YAML file > these defaults.
type Config struct {
	ConfigFile string `mapstructure:"config_file"`

	DefaultUpdateIntervalMs int `mapstructure:"default_update_interval_ms"`
	MaxClients              int `mapstructure:"max_clients"`

	LogLevel  string `mapstructure:"log_level"`
	LogFile   string `mapstructure:"log_file"`
	LogFormat string `mapstructure:"log_format"`

	ShutdownGraceMs            int    `mapstructure:"shutdown_grace_ms"`
	MetricsListenAddr          string `mapstructure:"metrics_listen_addr"`
	HTTPListenAddr             string `mapstructure:"http_listen_addr"`
	RateLimitSubscribesPerSec float64 `mapstructure:"rate_limit_subscribes_per_sec"`

	System  CategoryConfig `mapstructure:"system"`
	CPU     CategoryConfig `mapstructure:"cpu"`
	Memory  CategoryConfig `mapstructure:"memory"`
	GPU     CategoryConfig `mapstructure:"gpu"`
	Network CategoryConfig `mapstructure:"network"`
	Storage CategoryConfig `mapstructure:"storage"`
	Process CategoryConfig `mapstructure:"process"`

	ProcessConfig ProcessConfig `mapstructure:"process_config"`
	GpuConfig     GpuConfig     `mapstructure:"gpu_config"`
}

// Default configuration values.
const (
	DefaultUpdateIntervalMs = 1000
	DefaultMaxClients       = 256
	DefaultLogLevel         = "info"
	DefaultShutdownGraceMs  = 5000
	DefaultMetricsAddr      = ":9090"
	DefaultHTTPAddr         = ":8443"
	DefaultSubscribeRate    = 5
)

// enabledDefaultCategory is the default floor for every category unless
// overridden by file/env/flag.
func enabledDefaultCategory() CategoryConfig {
	return CategoryConfig{Enabled: true, CollectionIntervalMs: 1000}
}

// Load layers flags (fs, already parsed by the caller) over environment
// variables (MONITORD_ prefix, underscores for nesting) over an optional
// YAML config file over built-in defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MONITORD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cf := v.GetString("config_file"); cf != "" {
		v.SetConfigFile(cf)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", cf, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("default_update_interval_ms", DefaultUpdateIntervalMs)
	v.SetDefault("max_clients", DefaultMaxClients)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", "text")
	v.SetDefault("shutdown_grace_ms", DefaultShutdownGraceMs)
	v.SetDefault("metrics_listen_addr", DefaultMetricsAddr)
	v.SetDefault("http_listen_addr", DefaultHTTPAddr)
	v.SetDefault("rate_limit_subscribes_per_sec", float64(DefaultSubscribeRate))

	def := enabledDefaultCategory()
	for _, cat := range []string{"system", "cpu", "memory", "gpu", "network", "storage", "process"} {
		v.SetDefault(cat+".enabled", def.Enabled)
		v.SetDefault(cat+".collection_interval_ms", def.CollectionIntervalMs)
	}

	v.SetDefault("process_config.collect_command_line", false)
	v.SetDefault("process_config.collect_environment", false)
	v.SetDefault("process_config.collect_io_statistics", true)

	v.SetDefault("gpu_config.collect_nvidia", true)
	v.SetDefault("gpu_config.collect_amd", true)
	v.SetDefault("gpu_config.collect_intel", true)
	v.SetDefault("gpu_config.collect_processes", false)
}

// Validate checks structural invariants on top of what viper/mapstructure
// already enforce by virtue of typed fields.
func (c *Config) Validate() error {
	if c.DefaultUpdateIntervalMs <= 0 {
		return errors.New("default_update_interval_ms must be positive")
	}
	if c.MaxClients < 1 {
		return errors.New("max_clients must be at least 1")
	}
	if err := validateLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.ShutdownGraceMs < 0 {
		return errors.New("shutdown_grace_ms must not be negative")
	}
	if c.RateLimitSubscribesPerSec <= 0 {
		return errors.New("rate_limit_subscribes_per_sec must be positive")
	}
	for _, cc := range []struct {
		name string
		cfg  CategoryConfig
	}{
		{"system", c.System}, {"cpu", c.CPU}, {"memory", c.Memory},
		{"gpu", c.GPU}, {"network", c.Network}, {"storage", c.Storage},
		{"process", c.Process},
	} {
		if cc.cfg.Enabled && cc.cfg.CollectionIntervalMs < 0 {
			return fmt.Errorf("%s.collection_interval_ms must not be negative", cc.name)
		}
	}
	return nil
}

func validateLogLevel(level string) error {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level: %s (must be trace, debug, info, warn, or error)", level)
	}
}

// ShutdownGrace returns ShutdownGraceMs as a time.Duration.
func (c *Config) ShutdownGrace() time.Duration {
	return time.Duration(c.ShutdownGraceMs) * time.Millisecond
}

// CategoryConfigFor returns the CategoryConfig for a category name
// ("cpu", "memory", ...) as used in the surface table.
func (c *Config) CategoryConfigFor(name string) (CategoryConfig, bool) {
	switch strings.ToLower(name) {
	case "system":
		return c.System, true
	case "cpu":
		return c.CPU, true
	case "memory":
		return c.Memory, true
	case "gpu":
		return c.GPU, true
	case "network":
		return c.Network, true
	case "storage":
		return c.Storage, true
	case "process":
		return c.Process, true
	default:
		return CategoryConfig{}, false
	}
}

// String returns a human-readable representation for startup logs.
func (c *Config) String() string {
	return fmt.Sprintf("Config{DefaultInterval=%dms, MaxClients=%d, LogLevel=%s, HTTPAddr=%s, MetricsAddr=%s}",
		c.DefaultUpdateIntervalMs, c.MaxClients, c.LogLevel, c.HTTPListenAddr, c.MetricsListenAddr)
}
