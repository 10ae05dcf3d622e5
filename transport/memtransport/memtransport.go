// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package memtransport is an in-memory transport.Transport for tests. It
// records the byte boundaries of every WriteAll call and detects whether
// any two requests' writes interleaved on the simulated wire, and lets a
// test Feed arbitrary reply/watch-event bytes for ReadExact to return.
package memtransport

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/jacobsa/xenstore/wire"
)

// ErrClosed is returned by ReadExact after Close.
var ErrClosed = errors.New("memtransport: closed")

// Transport is a loopback transport.Transport for tests.
type Transport struct {
	mu            sync.Mutex
	written       bytes.Buffer // everything ever written, for inspection.
	writeSizes    []int
	expectHeader  bool
	headerPending []byte
	pendingBody   []byte // GUARDED_BY(mu); accumulates the in-flight request's payload.
	remaining     uint32
	interleaved   error // set if a write arrived out of frame.
	requests      []wire.Message

	// OnRequest, if set, is called synchronously from within WriteAll as
	// soon as a request's header and full body have been decoded, before
	// WriteAll returns. Tests use it to drive a scripted fake server that
	// feeds a reply back immediately, since talk() otherwise blocks on
	// ReadExact with nothing else to wake it.
	OnRequest func(wire.Message)

	readMu   sync.Mutex
	readCond *sync.Cond
	toClient bytes.Buffer
	closed   bool
}

// New returns a ready-to-use Transport.
func New() *Transport {
	t := &Transport{expectHeader: true}
	t.readCond = sync.NewCond(&t.readMu)
	return t
}

// WriteAll implements transport.Transport, recording the call and
// validating that it is framed consistently with the wire format (no
// header arrives while a previous message's payload is still pending).
func (t *Transport) WriteAll(b []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cp := append([]byte(nil), b...)
	t.written.Write(cp)
	t.writeSizes = append(t.writeSizes, len(cp))

	if t.expectHeader {
		if len(cp) != wire.HeaderSize {
			t.interleaved = fmt.Errorf("memtransport: expected a %d-byte header write, got %d bytes", wire.HeaderSize, len(cp))
			return nil
		}
		h := wire.DecodeHeader(cp)
		t.headerPending = cp
		t.remaining = h.Len
		if t.remaining == 0 {
			t.finishRequest(h, nil)
		} else {
			t.expectHeader = false
		}
		return nil
	}

	if uint32(len(cp)) > t.remaining {
		t.interleaved = fmt.Errorf("memtransport: payload write of %d bytes exceeds %d bytes remaining in frame", len(cp), t.remaining)
		return nil
	}

	t.remaining -= uint32(len(cp))
	t.pendingBody = append(t.pendingBody, cp...)
	if t.remaining == 0 {
		h := wire.DecodeHeader(t.headerPending)
		t.finishRequest(h, t.pendingBody)
		t.pendingBody = nil
		t.expectHeader = true
	}

	return nil
}

func (t *Transport) finishRequest(h wire.Header, body []byte) {
	var msg wire.Message
	if h.Type == wire.WatchEvent {
		msg = wire.NewWatchEvent(h, body)
	} else {
		msg = wire.NewReply(h, body)
	}
	t.requests = append(t.requests, msg)

	if t.OnRequest != nil {
		t.OnRequest(msg)
	}
}

// Violation returns a non-nil error if WriteAll ever observed a header
// arriving before the previous message's payload was fully written,
// i.e. two requests' writes interleaved on the wire.
func (t *Transport) Violation() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interleaved
}

// Requests returns the requests decoded from everything written so far.
func (t *Transport) Requests() []wire.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]wire.Message, len(t.requests))
	copy(out, t.requests)
	return out
}

// WriteSizes returns the length of every WriteAll call so far, in order.
func (t *Transport) WriteSizes() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]int, len(t.writeSizes))
	copy(out, t.writeSizes)
	return out
}

// Feed appends bytes for ReadExact to return, as though the server had
// sent them. Safe to call concurrently with ReadExact.
func (t *Transport) Feed(b []byte) {
	t.readMu.Lock()
	defer t.readMu.Unlock()
	t.toClient.Write(b)
	t.readCond.Broadcast()
}

// FeedMessage encodes and feeds a complete message (header + body).
func (t *Transport) FeedMessage(h wire.Header, body []byte) {
	h.Len = uint32(len(body))
	var buf bytes.Buffer
	buf.Write(h.Bytes())
	buf.Write(body)
	t.Feed(buf.Bytes())
}

// ReadExact implements transport.Transport, blocking until enough fed
// bytes are available or Close is called.
func (t *Transport) ReadExact(b []byte) error {
	t.readMu.Lock()
	defer t.readMu.Unlock()

	for t.toClient.Len() < len(b) {
		if t.closed {
			return ErrClosed
		}
		t.readCond.Wait()
	}

	n, err := t.toClient.Read(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("memtransport: short read")
	}
	return nil
}

// Close unblocks any pending ReadExact with ErrClosed.
func (t *Transport) Close() {
	t.readMu.Lock()
	defer t.readMu.Unlock()
	t.closed = true
	t.readCond.Broadcast()
}
