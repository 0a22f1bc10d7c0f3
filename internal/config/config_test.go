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
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func validConfig() Config {
	return Config{
		DefaultUpdateIntervalMs:   DefaultUpdateIntervalMs,
		MaxClients:                DefaultMaxClients,
		LogLevel:                  DefaultLogLevel,
		ShutdownGraceMs:           DefaultShutdownGraceMs,
		RateLimitSubscribesPerSec: DefaultSubscribeRate,
		CPU:                       enabledDefaultCategory(),
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero update interval",
			mutate:  func(c *Config) { c.DefaultUpdateIntervalMs = 0 },
			wantErr: true,
		},
		{
			name:    "zero max clients",
			mutate:  func(c *Config) { c.MaxClients = 0 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
		{
			name:    "trace is a valid log level",
			mutate:  func(c *Config) { c.LogLevel = "trace" },
			wantErr: false,
		},
		{
			name:    "negative shutdown grace",
			mutate:  func(c *Config) { c.ShutdownGraceMs = -1 },
			wantErr: true,
		},
		{
			name:    "zero subscribe rate",
			mutate:  func(c *Config) { c.RateLimitSubscribesPerSec = 0 },
			wantErr: true,
		},
		{
			name: "negative interval on an enabled category",
			mutate: func(c *Config) {
				c.CPU = CategoryConfig{Enabled: true, CollectionIntervalMs: -1}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	fs := pflag.NewFlagSet("monitord", pflag.ContinueOnError)
	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.DefaultUpdateIntervalMs != DefaultUpdateIntervalMs {
		t.Errorf("DefaultUpdateIntervalMs = %d, want %d", cfg.DefaultUpdateIntervalMs, DefaultUpdateIntervalMs)
	}
	if cfg.MaxClients != DefaultMaxClients {
		t.Errorf("MaxClients = %d, want %d", cfg.MaxClients, DefaultMaxClients)
	}
	if !cfg.CPU.Enabled {
		t.Error("CPU.Enabled default = false, want true")
	}
	if cfg.HTTPListenAddr != DefaultHTTPAddr {
		t.Errorf("HTTPListenAddr = %s, want %s", cfg.HTTPListenAddr, DefaultHTTPAddr)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "monitord_config_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	cfgPath := filepath.Join(tempDir, "monitord.yaml")
	content := "max_clients: 8\nlog_level: debug\ncpu:\n  enabled: false\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := pflag.NewFlagSet("monitord", pflag.ContinueOnError)
	fs.String("config_file", cfgPath, "")

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.MaxClients != 8 {
		t.Errorf("MaxClients = %d, want 8", cfg.MaxClients)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.CPU.Enabled {
		t.Error("CPU.Enabled = true, want false from file override")
	}
}

func TestCategoryConfigFor(t *testing.T) {
	cfg := validConfig()
	if _, ok := cfg.CategoryConfigFor("bogus"); ok {
		t.Error("CategoryConfigFor(bogus) ok = true, want false")
	}
	if cc, ok := cfg.CategoryConfigFor("CPU"); !ok || !cc.Enabled {
		t.Errorf("CategoryConfigFor(CPU) = %+v, ok=%v", cc, ok)
	}
}
