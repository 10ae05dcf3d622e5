// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package xenstore

import (
	"context"

	"github.com/jacobsa/xenstore/wire"
)

// Suspend freezes the Client ahead of a hypervisor save/restore cycle
// (SPEC_FULL.md §4.6): it acquires the suspend barrier exclusively, which
// blocks until every in-flight shared holder (transactions, watch
// mutations) has released, then also takes the
// request lock so that nothing can even begin a new request while
// suspended. The matching Resume must be called before any other
// Client method makes progress again.
func (c *Client) Suspend(ctx context.Context) error {
	if err := c.suspend.lockExclusive(ctx); err != nil {
		return transportError(err)
	}
	c.requestMu.Lock()
	return nil
}

// Resume releases the request lock Suspend took, then re-issues a WATCH
// request for every currently-registered watch, in registration order,
// before releasing the suspend barrier's exclusive hold. No registry
// lock is needed for the walk: exclusivity of the suspend barrier is
// sufficient, since register/unregister cannot run until Resume
// releases it (SPEC_FULL.md §4.6).
//
// Watches whose server-side state survived the save/restore come back
// as AlreadyExists, which is not surfaced. A genuine failure to
// re-register a watch is logged; Resume reports the first such failure
// to the caller but still attempts every watch.
func (c *Client) Resume(ctx context.Context) error {
	c.requestMu.Unlock()
	defer c.suspend.unlockExclusive()

	var firstErr error
	for _, w := range c.registry.snapshot() {
		_, err := c.talk(ctx, 0, wire.Watch, wire.Join(w.Node, w.token))
		if err != nil && !IsAlreadyExists(err) {
			c.errorLogger.Printf("Resume: WATCH(%s): %v", w.Node, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
