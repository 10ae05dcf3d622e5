// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package xenstore

// dispatchLoop is the Dispatcher from SPEC_FULL.md §4.5. It pops one
// event at a time from the event FIFO, then acquires the dispatch lock
// before invoking the callback, serializing every user callback across
// every watch. Returns once the event FIFO has been closed and drained.
func (c *Client) dispatchLoop() {
	for {
		e, ok := c.events.pop()
		if !ok {
			return
		}

		c.dispatchOne(e)
	}
}

// dispatchOne invokes a single event's callback under the dispatch lock.
// Split out so the lock is released via defer even if the callback
// panics; SPEC_FULL.md §7 does not require catching such a panic, and
// none is recovered here, so it propagates.
func (c *Client) dispatchOne(e pendingEvent) {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()

	e.watch.Callback(e.watch, e.strs)
}
