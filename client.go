// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package xenstore

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/jacobsa/xenstore/transport"
)

// ClientConfig is optional configuration accepted by New, mirroring the
// shape of jacobsa/fuse's MountConfig: a small struct of knobs, not a
// file- or environment-based configuration system (SPEC_FULL.md §2).
type ClientConfig struct {
	// DebugLogger is kept on the Client as its debug logger. When nil, New
	// uses the package's shared -xenstore.debug-gated logger instead. No
	// request, reply or watch-dispatch path writes to it.
	DebugLogger *log.Logger

	// ErrorLogger receives a line for every Reader I/O error and every
	// Unregister failure the server reports (both of which are logged,
	// not propagated; SPEC_FULL.md §7). Defaults to the same shared
	// logger as DebugLogger.
	ErrorLogger *log.Logger
}

// Client multiplexes a single XenStore transport among concurrent
// request/reply callers (via talk) and an asynchronous watch-event
// stream (via the Watch Registry and Event Dispatcher).
//
// A Client owns two background goroutines, the Reader and the
// Dispatcher, started by New and stopped by Close.
type Client struct {
	transport   transport.Transport
	debugLogger *log.Logger
	errorLogger *log.Logger

	suspend *suspendBarrier

	// requestMu serializes callers of talk: at most one request is
	// writing to the transport, and in flight, at any time
	// (SPEC_FULL.md §3 invariant).
	requestMu sync.Mutex

	nextReqID uint32 // atomic

	replies  *replyQueue
	registry *watchRegistry
	events   *eventFIFO

	// dispatchMu serializes user watch callbacks: at most one callback
	// runs at a time, across all watches (SPEC_FULL.md §4.5).
	dispatchMu sync.Mutex

	done      chan struct{}
	closeOnce sync.Once
	workers   sync.WaitGroup
}

// New creates a Client over t and starts its Reader and Dispatcher
// goroutines. t must already be connected (SPEC_FULL.md §6: the core
// depends only on the transport's blocking byte I/O, not on how it came
// to be connected).
func New(t transport.Transport, cfg ClientConfig) *Client {
	debugLogger := cfg.DebugLogger
	errorLogger := cfg.ErrorLogger
	if debugLogger == nil {
		debugLogger = getLogger()
	}
	if errorLogger == nil {
		errorLogger = getLogger()
	}

	c := &Client{
		transport:   t,
		debugLogger: debugLogger,
		errorLogger: errorLogger,
		suspend:     newSuspendBarrier(),
		replies:     newReplyQueue(),
		registry:    newWatchRegistry(),
		events:      newEventFIFO(),
		done:        make(chan struct{}),
	}

	c.workers.Add(2)
	go func() {
		defer c.workers.Done()
		c.readLoop()
	}()
	go func() {
		defer c.workers.Done()
		c.dispatchLoop()
	}()

	return c
}

// Close signals the Reader and Dispatcher to stop and unblocks any
// caller waiting on a reply or event (SPEC_FULL.md §4.8). It does not
// close the underlying transport; the caller owns that. Close does not
// wait for in-flight talk calls to return; it only ensures they will
// eventually wake with ErrClosed rather than block forever.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.replies.close()
		c.events.close()
	})
}

func (c *Client) nextRequestID() uint32 {
	return atomic.AddUint32(&c.nextReqID, 1)
}
