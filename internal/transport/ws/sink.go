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

// Package ws implements engine.Sink over a live WebSocket connection. A
// category=ALL subscribe shares one socket across all its expanded
// subscriptions; any other subscribe gets a socket of its own.
package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phuonguno98/monitord/internal/engine"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 32
)

// envelope is the wire message a Sink writes for every delivered snapshot.
type envelope struct {
	Category string `json:"category"`
	Payload  any    `json:"payload"`
}

// Sink adapts one *websocket.Conn to engine.Sink. TrySend never blocks: a
// full outbound buffer reports SendWouldBlock, and a write-pump failure or
// closed connection reports SendTerminalError on every call thereafter.
type Sink struct {
	conn      *websocket.Conn
	send      chan envelope
	closed    chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

// NewSink starts the write pump and ping ticker for conn and returns the Sink.
func NewSink(conn *websocket.Conn, logger *slog.Logger) *Sink {
	s := &Sink{
		conn:   conn,
		send:   make(chan envelope, sendBuffer),
		closed: make(chan struct{}),
		logger: logger,
	}
	go s.writePump()
	return s
}

// TrySend implements engine.Sink.
func (s *Sink) TrySend(category string, payload any) engine.SendResult {
	select {
	case <-s.closed:
		return engine.SendTerminalError
	default:
	}

	select {
	case s.send <- envelope{Category: category, Payload: payload}:
		return engine.SendOk
	default:
		return engine.SendWouldBlock
	}
}

// Close implements engine.Sink.
func (s *Sink) Close() error {
	s.markClosed()
	return s.conn.Close()
}

func (s *Sink) markClosed() {
	s.closeOnce.Do(func() { close(s.closed) })
}

func (s *Sink) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer s.markClosed()

	for {
		select {
		case <-s.closed:
			return
		case msg := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Debug("websocket ping failed", "error", err)
				return
			}
		}
	}
}

// ReadPump drains client-initiated frames (pong responses, close frames) so
// the connection's read deadline keeps advancing. It blocks until the
// connection closes or errors and should be run in its own goroutine.
func (s *Sink) ReadPump() {
	defer s.markClosed()

	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
