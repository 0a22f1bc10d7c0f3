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

// Package commands wires monitord's cobra CLI: the daemon entrypoint
// (serve), one-shot device enumeration (list-devices), init-system
// registration (register-service) and version reporting.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phuonguno98/monitord/internal/config"
)

var cfg *config.Config

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "monitord",
	Short: "monitord - host telemetry streaming daemon",
	Long: `monitord continuously samples host telemetry (CPU, memory, GPU, network,
storage, processes, general system information) and streams it to subscribed
clients at a requested cadence, with per-subscription filtering.

Use 'monitord serve' to run the daemon.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

// Flag names match config's mapstructure tags directly (underscored
// rather than hyphenated) so viper.BindPFlags, which binds by flag name,
// needs no per-flag translation layer.
func init() {
	fs := rootCmd.PersistentFlags()
	fs.String("config_file", "", "Path to a YAML config file")
	fs.Int("default_update_interval_ms", config.DefaultUpdateIntervalMs, "Fallback interval when a client requests 0")
	fs.Int("max_clients", config.DefaultMaxClients, "Maximum concurrent subscriptions")
	fs.String("log_level", config.DefaultLogLevel, "Log level (trace, debug, info, warn, error)")
	fs.String("log_file", "", "Log file path (empty = stdout)")
	fs.String("log_format", "text", "Log format (text or json)")
	fs.String("http_listen_addr", config.DefaultHTTPAddr, "Control surface listen address")
	fs.String("metrics_listen_addr", config.DefaultMetricsAddr, "Prometheus /metrics listen address")
	fs.Float64("rate_limit_subscribes_per_sec", config.DefaultSubscribeRate, "Per-client Subscribe/Modify rate limit")
}

func loadConfig() (*config.Config, error) {
	if cfg != nil {
		return cfg, nil
	}
	loaded, err := config.Load(rootCmd.PersistentFlags())
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	cfg = loaded
	return cfg, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
