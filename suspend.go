// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package xenstore

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// suspendWeight is the total weight of the suspend barrier's semaphore.
// Shared holders (transactions, watch mutations) each acquire a weight
// of 1; Suspend acquires the full weight, which can only
// succeed once every shared holder has released. This is the documented
// idiom for building a shared/exclusive lock out of a weighted semaphore.
const suspendWeight = 1 << 30

// suspendBarrier is the shared/exclusive lock from SPEC_FULL.md §4.6:
// transactions and watch mutations hold it in shared mode concurrently;
// Suspend holds it exclusively, which excludes all of them until Resume
// releases it. Ordinary requests do not take the barrier; Suspend
// excludes them by also holding the request lock.
type suspendBarrier struct {
	sem *semaphore.Weighted
}

func newSuspendBarrier() *suspendBarrier {
	return &suspendBarrier{sem: semaphore.NewWeighted(suspendWeight)}
}

// lockShared acquires the barrier in shared mode. It only fails if ctx is
// done first; requests pass context.Background() so this never fails in
// practice, matching the source's unbounded-blocking design.
func (b *suspendBarrier) lockShared(ctx context.Context) error {
	return b.sem.Acquire(ctx, 1)
}

func (b *suspendBarrier) unlockShared() {
	b.sem.Release(1)
}

// lockExclusive acquires the barrier exclusively, blocking until every
// current shared holder has released.
func (b *suspendBarrier) lockExclusive(ctx context.Context) error {
	return b.sem.Acquire(ctx, suspendWeight)
}

func (b *suspendBarrier) unlockExclusive() {
	b.sem.Release(suspendWeight)
}
