// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package xenstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/jacobsa/xenstore/wire"
)

// RegisterWatch subscribes cb to changes under node (SPEC_FULL.md §4.3).
// The token sent to the server is a random UUID, not the registration
// record's address (spec.md §9's pointer-as-token antipattern).
//
// If the server reports the watch already exists (idempotent
// re-registration, e.g. after Resume re-issues it), that is treated as
// success and not surfaced.
func (c *Client) RegisterWatch(
	ctx context.Context,
	node string,
	cb WatchCallback) (*Watch, error) {
	w := &Watch{
		Node:     node,
		Callback: cb,
		client:   c,
		token:    uuid.NewString(),
	}

	if err := c.suspend.lockShared(ctx); err != nil {
		return nil, transportError(err)
	}
	defer c.suspend.unlockShared()

	c.registry.insert(w)

	_, err := c.talk(ctx, 0, wire.Watch, wire.Join(w.Node, w.token))
	if err != nil && !IsAlreadyExists(err) {
		c.registry.remove(w)
		return nil, err
	}

	return w, nil
}

// Unregister removes w from the registry, tells the server to stop
// sending events for it, and drops any event for w still sitting in the
// event FIFO. A server-side failure to unwatch is logged but never
// propagated: from the client's perspective the watch is already gone
// (SPEC_FULL.md §4.3).
//
// After Unregister returns, no callback for w will run again: the watch
// was removed from the registry before the UNWATCH request was even
// sent, so the Reader can no longer route new events to it, and any
// already-queued events were just drained.
func (w *Watch) Unregister(ctx context.Context) error {
	c := w.client

	if err := c.suspend.lockShared(ctx); err != nil {
		return transportError(err)
	}
	defer c.suspend.unlockShared()

	if !c.registry.removeAndDrain(w, c.events) {
		return nil
	}

	if _, err := c.talk(ctx, 0, wire.Unwatch, wire.Join(w.Node, w.token)); err != nil {
		c.errorLogger.Printf("Unregister(%s): UNWATCH: %v", w.Node, err)
	}

	return nil
}
