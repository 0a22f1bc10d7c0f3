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

package transport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/phuonguno98/monitord/internal/engine"
	"github.com/phuonguno98/monitord/pkg/schema"
)

type stubCollector struct {
	cat     schema.Category
	payload any
}

func (c *stubCollector) Sample() (any, error)     { return c.payload, nil }
func (c *stubCollector) MinIntervalMs() int        { return 100 }
func (c *stubCollector) Category() schema.Category { return c.cat }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (*httptest.Server, *engine.Engine) {
	t.Helper()
	registry, err := engine.NewRegistry(
		&stubCollector{cat: schema.CategoryCPU, payload: schema.CpuInfo{UsagePercent: 12.5}},
		&stubCollector{cat: schema.CategoryProcess, payload: schema.ProcessList{
			Processes: []schema.ProcessInfo{
				{PID: 1, Name: "init", CPUUsagePercent: 1},
				{PID: 2, Name: "worker", CPUUsagePercent: 99},
			},
		}},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	eng := engine.New(registry, engine.Options{
		MaxClients:              8,
		DefaultUpdateIntervalMs: 1000,
		ShutdownGrace:           time.Second,
		Logger:                  discardLogger(),
	})
	t.Cleanup(eng.Shutdown)

	srv := NewServer(eng, Config{}, discardLogger())
	httpSrv := httptest.NewServer(srv)
	t.Cleanup(httpSrv.Close)
	return httpSrv, eng
}

func TestSubscribe_UpgradesAndRegisters(t *testing.T) {
	httpSrv, eng := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/api/v1/subscriptions?category=CPU&interval_ms=500"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env struct {
		Category string          `json:"category"`
		Payload  json.RawMessage `json:"payload"`
	}
	for env.Category != "CONTROL" {
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read ack: %v", err)
		}
	}
	var ack map[string]string
	if err := json.Unmarshal(env.Payload, &ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack["status"] != engine.StatusSuccess.String() {
		t.Fatalf("status = %q, want SUCCESS", ack["status"])
	}
	if ack["id"] == "" {
		t.Fatal("expected a non-empty subscription id")
	}

	descs := eng.ListSubscriptions()
	if len(descs) != 1 || descs[0].Category != schema.CategoryCPU {
		t.Fatalf("ListSubscriptions = %+v, want one CPU subscription", descs)
	}
}

func TestSubscribe_InvalidCategoryRejectedBeforeUpgrade(t *testing.T) {
	httpSrv, _ := newTestServer(t)

	resp, err := http.Get(httpSrv.URL + "/api/v1/subscriptions?category=NOPE")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleSnapshot_ReturnsSampledCategories(t *testing.T) {
	httpSrv, eng := newTestServer(t)
	_ = eng

	// No subscription is needed: GetSystemSnapshot samples every
	// registered collector directly rather than reading the cache.
	resp, err := http.Get(httpSrv.URL + "/api/v1/snapshot")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["CPU"]; !ok {
		t.Errorf("expected a CPU entry, got %+v", body)
	}
}

func TestHandleUnsubscribe_AlwaysSucceedsIdempotently(t *testing.T) {
	httpSrv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodDelete, httpSrv.URL+"/api/v1/subscriptions/nonexistent-id", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != engine.StatusSuccess.String() {
		t.Errorf("status = %q, want SUCCESS (idempotent)", body["status"])
	}
}
