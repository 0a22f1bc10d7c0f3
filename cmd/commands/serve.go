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

package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/phuonguno98/monitord/internal/collector"
	"github.com/phuonguno98/monitord/internal/config"
	"github.com/phuonguno98/monitord/internal/engine"
	"github.com/phuonguno98/monitord/internal/installer"
	"github.com/phuonguno98/monitord/internal/logging"
	"github.com/phuonguno98/monitord/internal/transport"
	"github.com/phuonguno98/monitord/pkg/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the monitord daemon",
	Long: `Run the monitord daemon: start the collector registry, sampling schedulers
and subscription engine, and serve the HTTP/WebSocket control surface until
interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:    c.LogLevel,
		Format:   c.LogFormat,
		FilePath: c.LogFile,
	})

	logger.Info("starting monitord", "version", version.Info(), "os", runtime.GOOS, "arch", runtime.GOARCH)
	logger.Info("configuration loaded", "config", c.String())

	registry, err := buildRegistry(c)
	if err != nil {
		return fmt.Errorf("build collector registry: %w", err)
	}

	metricsRegisterer := prometheus.NewRegistry()
	eng := engine.New(registry, engine.Options{
		MaxClients:              c.MaxClients,
		DefaultUpdateIntervalMs: c.DefaultUpdateIntervalMs,
		ShutdownGrace:           c.ShutdownGrace(),
		MetricsRegisterer:       metricsRegisterer,
		Logger:                  logger,
	})

	controlSurface := transport.NewServer(eng, transport.Config{
		RequestsPerMinute: int(c.RateLimitSubscribesPerSec * 60),
		Burst:             int(c.RateLimitSubscribesPerSec * 2),
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{Addr: c.HTTPListenAddr, Handler: controlSurface}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(metricsRegisterer, promhttp.HandlerOpts{}))
	metricsSrv := &http.Server{Addr: c.MetricsListenAddr, Handler: metricsMux}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("control surface listening", "addr", c.HTTPListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("control surface: %w", err)
		}
	}()
	go func() {
		logger.Info("metrics listening", "addr", c.MetricsListenAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	if ok, err := installer.NotifyReady(); err != nil {
		logger.Debug("systemd readiness notification failed", "error", err)
	} else if ok {
		logger.Info("notified systemd: ready")
	}
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = installer.NotifyWatchdog()
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server failed", "error", err)
	}

	_, _ = installer.NotifyStopping()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownGrace())
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)

	eng.Shutdown()
	logger.Info("shutdown complete")
	return nil
}

// buildRegistry constructs one collector per enabled category from c.
func buildRegistry(c *config.Config) (*engine.Registry, error) {
	var collectors []engine.Collector

	if c.System.Enabled {
		collectors = append(collectors, collector.NewSystemCollector(c.System.CollectionIntervalMs))
	}
	if c.CPU.Enabled {
		collectors = append(collectors, collector.NewCPUCollector(c.CPU.CollectionIntervalMs))
	}
	if c.Memory.Enabled {
		collectors = append(collectors, collector.NewMemoryCollector(c.Memory.CollectionIntervalMs))
	}
	if c.GPU.Enabled {
		collectors = append(collectors, collector.NewGpuCollector(c.GPU.CollectionIntervalMs, c.GpuConfig.CollectProcesses))
	}
	if c.Network.Enabled {
		collectors = append(collectors, collector.NewNetworkCollector(c.Network.CollectionIntervalMs, nil, nil))
	}
	if c.Storage.Enabled {
		collectors = append(collectors, collector.NewStorageCollector(c.Storage.CollectionIntervalMs, nil, nil))
	}
	if c.Process.Enabled {
		collectors = append(collectors, collector.NewProcessCollector(c.Process.CollectionIntervalMs, collector.ProcessConfig{
			CollectCommandLine:  c.ProcessConfig.CollectCommandLine,
			CollectEnvironment:  c.ProcessConfig.CollectEnvironment,
			CollectIOStatistics: c.ProcessConfig.CollectIOStatistics,
		}))
	}

	if len(collectors) == 0 {
		return nil, fmt.Errorf("no category is enabled")
	}
	return engine.NewRegistry(collectors...)
}
