// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package xenstore

import "sync"

// WatchCallback receives the string vector parsed from a WATCH_EVENT
// payload for w. Callbacks run serialized under the dispatch lock (at
// most one callback across all watches at a time) and must not block
// indefinitely or panic (SPEC_FULL.md §7).
type WatchCallback func(w *Watch, strs []string)

// Watch is a single registered subscription on a XenStore path.
//
// Token is assigned at registration time from a unique source (here, a
// random UUID), never from the record's memory address;
// see SPEC_FULL.md §9 on avoiding pointer-as-token.
type Watch struct {
	Node     string
	Callback WatchCallback

	client *Client
	token  string
}

// Token returns the opaque string the server echoes back on every event
// for this watch.
func (w *Watch) Token() string {
	return w.token
}

// watchRegistry is the set of active registrations, keyed by token
// (SPEC_FULL.md §3 uniqueness invariant). It also remembers insertion
// order so Resume can re-register watches deterministically.
type watchRegistry struct {
	mu      sync.Mutex
	byToken map[string]*Watch // GUARDED_BY(mu)
	order   []*Watch          // GUARDED_BY(mu); insertion order.
}

func newWatchRegistry() *watchRegistry {
	return &watchRegistry{byToken: make(map[string]*Watch)}
}

// insert adds w to the registry. It panics if w.token collides with an
// existing entry: tokens are freshly generated per registration, so a
// collision indicates a broken token source, not a recoverable runtime
// condition.
func (r *watchRegistry) insert(w *Watch) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byToken[w.token]; ok {
		panic("watchRegistry: duplicate token " + w.token)
	}
	r.byToken[w.token] = w
	r.order = append(r.order, w)
}

// remove deletes w from the registry by identity, matching spec.md
// §9's ownership note ("the registration record is the truth"). It
// reports whether w was present.
func (r *watchRegistry) remove(w *Watch) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(w)
}

func (r *watchRegistry) removeLocked(w *Watch) bool {
	if _, ok := r.byToken[w.token]; !ok {
		return false
	}
	delete(r.byToken, w.token)

	for i, other := range r.order {
		if other == w {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// removeAndDrain deletes w from the registry and drops any of its events
// still sitting in events, as one critical section under the registry
// lock. spec.md §4.4 requires that no callback for w runs, and no
// pending event for w remains, once Unregister has returned; doing the
// removal and the drain under the same lock that dispatchEvent takes for
// its lookup-then-enqueue is what rules out the interleaving where the
// Reader finds w still registered, then this removal and drain run and
// find nothing to drop, then the Reader's now-stale enqueue lands after
// the fact.
func (r *watchRegistry) removeAndDrain(w *Watch, events *eventFIFO) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := r.removeLocked(w)
	events.removeForWatch(w)
	return removed
}

// lookupByToken returns the registration for token, if any is currently
// active.
func (r *watchRegistry) lookupByToken(token string) (*Watch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.byToken[token]
	return w, ok
}

// dispatchEvent looks up token and, if it still names an active watch,
// enqueues the event for dispatch — the lookup and the enqueue happen
// under the same registry lock removeAndDrain takes, so a concurrent
// Unregister cannot slip its remove-and-drain between this lookup and
// this push (spec.md §4.4; see removeAndDrain's comment for the exact
// race this closes).
func (r *watchRegistry) dispatchEvent(token string, strs []string, events *eventFIFO) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.byToken[token]
	if !ok {
		return
	}
	events.push(pendingEvent{watch: w, strs: strs})
}

// snapshot returns every active watch in registration order, for Resume
// to re-issue WATCH requests against. The caller must hold the suspend
// barrier exclusively, which SPEC_FULL.md §4.6 notes makes a separate
// registry lock unnecessary for this read; snapshot still takes the
// registry lock itself for safety against future callers that forget
// that invariant.
func (r *watchRegistry) snapshot() []*Watch {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Watch, len(r.order))
	copy(out, r.order)
	return out
}
