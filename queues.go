// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package xenstore

import (
	"sync"

	"github.com/jacobsa/xenstore/wire"
)

// replyQueue is the Reader's output to talk: a FIFO that is, in practice,
// at most one element deep (the Request Mux allows only one outstanding
// request), but the design is a real queue and must not assume that
// (SPEC_FULL.md §3).
type replyQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []wire.Message // GUARDED_BY(mu)
	closed bool            // GUARDED_BY(mu)
}

func newReplyQueue() *replyQueue {
	q := &replyQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends a reply and wakes exactly one waiter.
func (q *replyQueue) push(m wire.Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, m)
	q.cond.Signal()
}

// pop blocks until a reply is available or close is called, in which case
// ok is false.
func (q *replyQueue) pop() (m wire.Message, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return wire.Message{}, false
	}

	m, q.items = q.items[0], q.items[1:]
	return m, true
}

func (q *replyQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// pendingEvent is one WATCH_EVENT that has been matched to a registered
// watch but not yet dispatched to its callback.
type pendingEvent struct {
	watch *Watch
	strs  []string
}

// eventFIFO is the unbounded event queue between the Reader and the
// Dispatcher (SPEC_FULL.md §3: "ordering = arrival order from the
// server"). Unlike replyQueue, entries must be removable by watch
// identity so Unregister can drop events for a watch that is going away
// (SPEC_FULL.md §4.3).
type eventFIFO struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []pendingEvent // GUARDED_BY(mu)
	closed bool            // GUARDED_BY(mu)
}

func newEventFIFO() *eventFIFO {
	q := &eventFIFO{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *eventFIFO) push(e pendingEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, e)
	q.cond.Signal()
}

func (q *eventFIFO) pop() (e pendingEvent, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return pendingEvent{}, false
	}

	e, q.items = q.items[0], q.items[1:]
	return e, true
}

// removeForWatch drops every pending event referring to w (by identity,
// not token, per SPEC_FULL.md §4.3) and reports how many were dropped.
func (q *eventFIFO) removeForWatch(w *Watch) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.items[:0]
	removed := 0
	for _, e := range q.items {
		if e.watch == w {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	q.items = kept
	return removed
}

func (q *eventFIFO) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}
