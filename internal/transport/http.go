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

// Package transport implements monitord's control surface: an HTTP API for
// Subscribe/Modify/Unsubscribe/List/GetSystemSnapshot, and a WebSocket
// upgrade endpoint that streams the filtered snapshots a subscription
// produces. The engine package is transport-agnostic; this package is the
// one concrete binding.
package transport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/phuonguno98/monitord/internal/engine"
	"github.com/phuonguno98/monitord/internal/transport/ws"
	"github.com/phuonguno98/monitord/pkg/schema"
)

// Server exposes the engine's control surface over HTTP and WebSocket.
type Server struct {
	engine   *engine.Engine
	logger   *slog.Logger
	router   *mux.Router
	limiter  *RateLimiter
	upgrader websocket.Upgrader
}

// Config tunes the HTTP control surface.
type Config struct {
	// RequestsPerMinute and Burst bound the Subscribe/Modify rate per
	// remote address. Zero disables rate limiting.
	RequestsPerMinute int
	Burst             int
}

// NewServer builds a Server wired to eng. Routes are registered immediately.
func NewServer(eng *engine.Engine, cfg Config, logger *slog.Logger) *Server {
	s := &Server{
		engine: eng,
		logger: logger,
		router: mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	if cfg.RequestsPerMinute > 0 {
		s.limiter = NewRateLimiter(cfg.RequestsPerMinute, cfg.Burst)
		go s.limiter.runCleanup()
	}
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(corsMiddleware)

	s.router.HandleFunc("/api/v1/subscriptions", s.rateLimited(s.handleSubscribe)).Queries("category", "{category}")
	s.router.HandleFunc("/api/v1/subscriptions", s.handleList).Methods("GET")
	s.router.HandleFunc("/api/v1/subscriptions/{id}", s.rateLimited(s.handleModify)).Methods("PATCH")
	s.router.HandleFunc("/api/v1/subscriptions/{id}", s.handleUnsubscribe).Methods("DELETE")
	s.router.HandleFunc("/api/v1/snapshot", s.handleSnapshot).Methods("GET")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// rateLimited wraps a handler with per-remote-address token bucket limiting.
// Requests over the limit receive 429 with Retry-After. A nil limiter (rate
// limiting disabled) passes every request through unchanged.
func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	if s.limiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := clientAddress(r)
		if !s.limiter.Allow(clientID) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "rate limit exceeded, retry later")
			return
		}
		next(w, r)
	}
}

func clientAddress(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	return r.RemoteAddr
}

// Subscribe is a WebSocket upgrade: the client dials
// /api/v1/subscriptions?category=CPU&interval_ms=1000&filter={...} and, on
// a successful upgrade, the connection itself becomes the delivery sink.
// category=ALL expands into one subscription per concrete category
// (engine.SubscribeAll), all multiplexed onto this same socket: every
// delivered envelope is already tagged with its category, so one
// connection can carry N streams without N separate upgrades.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	categoryParam := strings.ToUpper(q.Get("category"))

	intervalMs := 0
	if raw := q.Get("interval_ms"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &intervalMs); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_INTERVAL", "interval_ms must be an integer")
			return
		}
	}

	if categoryParam == "ALL" {
		if q.Get("filter") != "" {
			writeError(w, http.StatusBadRequest, "INVALID_FILTER", "category=ALL does not accept a filter")
			return
		}
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Debug("websocket upgrade failed", "error", err)
			return
		}
		sink := ws.NewSink(conn, s.logger)
		go sink.ReadPump()

		results := s.engine.SubscribeAll(engine.SubscribeAllRequest{IntervalMs: intervalMs, Sink: sink})
		ids := make(map[string]string, len(results))
		for cat, res := range results {
			ids[cat.String()] = res.Status.String()
			if res.Status == engine.StatusSuccess {
				ids[cat.String()] = res.ID
			}
		}
		sink.TrySend("CONTROL", map[string]any{"subscriptions": ids})
		return
	}

	cat, err := schema.ParseCategory(categoryParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_TYPE", err.Error())
		return
	}

	filter, err := decodeFilter(cat, []byte(q.Get("filter")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	sink := ws.NewSink(conn, s.logger)
	go sink.ReadPump()

	result := s.engine.Subscribe(engine.SubscribeRequest{
		Category:   cat,
		IntervalMs: intervalMs,
		Filter:     filter,
		Sink:       sink,
	})
	if result.Status != engine.StatusSuccess {
		sink.TrySend("CONTROL", map[string]string{"status": result.Status.String()})
		sink.Close()
		return
	}
	sink.TrySend("CONTROL", map[string]string{"id": result.ID, "status": result.Status.String()})
}

type modifyRequestBody struct {
	IntervalMs int             `json:"interval_ms"`
	Filter     json.RawMessage `json:"filter,omitempty"`
}

func (s *Server) handleModify(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body modifyRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "MALFORMED_REQUEST", err.Error())
		return
	}

	var cat schema.Category
	var ok bool
	for _, d := range s.engine.ListSubscriptions() {
		if d.ID == id {
			cat = d.Category
			ok = true
			break
		}
	}
	if !ok {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": engine.StatusInvalidType.String()})
		return
	}

	filter, parseErr := decodeFilter(cat, body.Filter)
	if parseErr != nil {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": engine.StatusInvalidFilter.String()})
		return
	}

	status := s.engine.ModifySubscription(engine.ModifyRequest{ID: id, IntervalMs: body.IntervalMs, Filter: filter})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": status.String()})
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	status := s.engine.Unsubscribe(id)
	s.writeJSON(w, http.StatusOK, map[string]string{"status": status.String()})
}

type descriptorBody struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	IntervalMs   int    `json:"interval_ms"`
	State        string `json:"state"`
	CreatedAt    string `json:"created_at"`
	Cursor       uint64 `json:"cursor"`
	DroppedCount int64  `json:"dropped_count"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	descs := s.engine.ListSubscriptions()
	out := make([]descriptorBody, 0, len(descs))
	for _, d := range descs {
		out = append(out, descriptorBody{
			ID:           d.ID,
			Category:     d.Category.String(),
			IntervalMs:   d.IntervalMs,
			State:        d.State.String(),
			CreatedAt:    d.CreatedAt.Format(time.RFC3339),
			Cursor:       d.Cursor,
			DroppedCount: d.DroppedCount,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.GetSystemSnapshot()
	out := make(map[string]any, len(snap.Payloads))
	for cat, payload := range snap.Payloads {
		out[cat.String()] = payload
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
