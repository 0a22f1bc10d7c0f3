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

package engine

// SendResult is the outcome of a Sink.TrySend call.
type SendResult int

const (
	// SendOk means the message was accepted by the transport.
	SendOk SendResult = iota
	// SendWouldBlock means the subscriber is slow; the worker drops this
	// tick and tries again on the next snapshot (coalescing backpressure).
	SendWouldBlock
	// SendTerminalError means the transport is unusable; the subscription
	// must be retired.
	SendTerminalError
)

// Sink is the transport-agnostic capability a delivery worker hands
// filtered snapshot payloads to. The implementation in this repository is
// the WebSocket sink in internal/transport/ws.
type Sink interface {
	TrySend(category string, payload any) SendResult
	Close() error
}
