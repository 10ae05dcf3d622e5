// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package xenstore

import (
	"github.com/jacobsa/xenstore/wire"
)

// readLoop is the Reader from SPEC_FULL.md §4.4. It runs on its own
// goroutine for the lifetime of the Client, continuously decoding one
// message and routing it to either the reply queue or, for WATCH_EVENT,
// the event FIFO.
func (c *Client) readLoop() {
	for {
		select {
		case <-c.done:
			return
		default:
		}

		msg, err := wire.ReadMessage(c.transport)
		if err != nil {
			// The source retries indefinitely on a transport error; we do
			// the same, but stop promptly once Close has been called so the
			// goroutine does not spin forever against a dead transport.
			select {
			case <-c.done:
				return
			default:
				c.errorLogger.Printf("readLoop: ReadMessage: %v", err)
				continue
			}
		}

		if msg.Header.Type == wire.WatchEvent {
			c.routeWatchEvent(msg)
			continue
		}

		c.replies.push(msg)
	}
}

// routeWatchEvent looks up the registration named by the event's token
// (SPEC_FULL.md §4.4's conventional index 1) and, if still registered,
// enqueues the event for the Dispatcher. An event whose token is no
// longer registered is discarded: the watch was unregistered between the
// server's dispatch and local arrival, which is expected, not an error
// (spec.md §9's "assertion gaps" note).
//
// The lookup and the enqueue happen as one operation under the registry
// lock (watchRegistry.dispatchEvent), not as a lookup followed by a
// separate push: otherwise a concurrent Unregister could remove w and
// drain its FIFO entries in the gap between this lookup and this push,
// and the event pushed afterward would be delivered despite Unregister
// having already returned (spec.md §4.4).
func (c *Client) routeWatchEvent(msg wire.Message) {
	if len(msg.Strings) <= wire.WatchEventToken {
		c.errorLogger.Printf("readLoop: WATCH_EVENT with too few fields: %#v", msg.Strings)
		return
	}

	token := msg.Strings[wire.WatchEventToken]
	c.registry.dispatchEvent(token, msg.Strings, c.events)
}
