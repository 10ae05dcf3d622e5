// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package xenstore_test

import (
	"context"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/jacobsa/xenstore"
	"github.com/jacobsa/xenstore/transport/memtransport"
	"github.com/jacobsa/xenstore/wire"
)

func newTestClient(mt *memtransport.Transport) *xenstore.Client {
	return xenstore.New(mt, xenstore.ClientConfig{})
}

// replyOK feeds a successful reply for req, with body as the payload.
func replyOK(mt *memtransport.Transport, req wire.Message, body []byte) {
	mt.FeedMessage(wire.Header{
		Type:  req.Header.Type,
		ReqID: req.Header.ReqID,
		TxID:  req.Header.TxID,
	}, body)
}

// replyErr feeds an ERROR reply naming mnemonic for req.
func replyErr(mt *memtransport.Transport, req wire.Message, mnemonic string) {
	mt.FeedMessage(wire.Header{
		Type:  wire.Error,
		ReqID: req.Header.ReqID,
		TxID:  req.Header.TxID,
	}, append([]byte(mnemonic), 0))
}

func TestClientSimpleRead(t *testing.T) {
	mt := memtransport.New()
	mt.OnRequest = func(req wire.Message) {
		if req.Header.Type == wire.Read {
			replyOK(mt, req, []byte("bar"))
		}
	}

	c := newTestClient(mt)
	defer c.Close()

	got, err := c.Read(context.Background(), "/foo")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "bar" {
		t.Fatalf("Read returned %q, want %q", got, "bar")
	}
}

func TestClientErrorReply(t *testing.T) {
	mt := memtransport.New()
	mt.OnRequest = func(req wire.Message) {
		if req.Header.Type == wire.Read {
			replyErr(mt, req, "ENOENT")
		}
	}

	c := newTestClient(mt)
	defer c.Close()

	_, err := c.Read(context.Background(), "/missing")
	if err == nil {
		t.Fatal("Read succeeded, want ENOENT error")
	}

	xerr, ok := err.(*xenstore.Error)
	if !ok {
		t.Fatalf("err is %T, want *xenstore.Error", err)
	}
	if xerr.Kind != xenstore.ServerError || xerr.Errno != syscall.ENOENT {
		t.Fatalf("got %+v, want ServerError/ENOENT", xerr)
	}

	exists, err := c.Exists(context.Background(), "/missing")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatal("Exists reported true for an ENOENT path")
	}
}

func TestClientWatchFiresThenUnregisterDrains(t *testing.T) {
	mt := memtransport.New()
	mt.OnRequest = func(req wire.Message) {
		switch req.Header.Type {
		case wire.Watch, wire.Unwatch:
			replyOK(mt, req, nil)
		}
	}

	c := newTestClient(mt)
	defer c.Close()

	var mu sync.Mutex
	var calls int
	var wg sync.WaitGroup
	wg.Add(2)
	w, err := c.RegisterWatch(context.Background(), "/a", func(w *xenstore.Watch, strs []string) {
		mu.Lock()
		calls++
		mu.Unlock()
		wg.Done()
	})
	if err != nil {
		t.Fatalf("RegisterWatch: %v", err)
	}

	mt.FeedMessage(wire.Header{Type: wire.WatchEvent}, wire.Join("/a", w.Token()))
	mt.FeedMessage(wire.Header{Type: wire.WatchEvent}, wire.Join("/a", w.Token()))

	// Wait for both fed events to actually dispatch before unregistering,
	// so the only event still in question is the third one, fed after
	// Unregister has already removed the watch.
	wg.Wait()

	if err := w.Unregister(context.Background()); err != nil {
		t.Fatalf("Unregister: %v", err)
	}

	mt.FeedMessage(wire.Header{Type: wire.WatchEvent}, wire.Join("/a", w.Token()))
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Fatalf("callback ran %d times, want 2 (third event dropped after unregistration)", calls)
	}
}

func TestClientTransactionAbort(t *testing.T) {
	mt := memtransport.New()
	mt.OnRequest = func(req wire.Message) {
		switch req.Header.Type {
		case wire.TransactionStart:
			replyOK(mt, req, []byte("7"))
		case wire.Write, wire.TransactionEnd:
			replyOK(mt, req, nil)
		}
	}

	c := newTestClient(mt)
	defer c.Close()

	ctx := context.Background()
	tx, err := c.TransactionStart(ctx)
	if err != nil {
		t.Fatalf("TransactionStart: %v", err)
	}
	if tx.ID() != 7 {
		t.Fatalf("tx.ID() = %d, want 7", tx.ID())
	}

	if err := tx.End(ctx, false /* abort */); err != nil {
		t.Fatalf("End: %v", err)
	}
}

func TestClientSuspendResumeReregisters(t *testing.T) {
	mt := memtransport.New()

	var mu sync.Mutex
	var watchReqs []wire.Message
	mt.OnRequest = func(req wire.Message) {
		switch req.Header.Type {
		case wire.Watch:
			mu.Lock()
			watchReqs = append(watchReqs, req)
			mu.Unlock()
			replyOK(mt, req, nil)
		case wire.Unwatch:
			replyOK(mt, req, nil)
		}
	}

	c := newTestClient(mt)
	defer c.Close()

	ctx := context.Background()
	w1, err := c.RegisterWatch(ctx, "/a", func(*xenstore.Watch, []string) {})
	if err != nil {
		t.Fatalf("RegisterWatch(/a): %v", err)
	}
	w2, err := c.RegisterWatch(ctx, "/b", func(*xenstore.Watch, []string) {})
	if err != nil {
		t.Fatalf("RegisterWatch(/b): %v", err)
	}

	mu.Lock()
	watchReqs = nil
	mu.Unlock()

	if err := c.Suspend(ctx); err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	if err := c.Resume(ctx); err != nil {
		t.Fatalf("Resume: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(watchReqs) != 2 {
		t.Fatalf("Resume issued %d WATCH requests, want 2", len(watchReqs))
	}

	gotFirst := wire.Split(watchReqs[0].Body[:len(watchReqs[0].Body)-1])
	gotSecond := wire.Split(watchReqs[1].Body[:len(watchReqs[1].Body)-1])
	if gotFirst[0] != w1.Node || gotFirst[1] != w1.Token() {
		t.Fatalf("first re-WATCH = %v, want node %s token %s", gotFirst, w1.Node, w1.Token())
	}
	if gotSecond[0] != w2.Node || gotSecond[1] != w2.Token() {
		t.Fatalf("second re-WATCH = %v, want node %s token %s", gotSecond, w2.Node, w2.Token())
	}
}

func TestClientConcurrentCallers(t *testing.T) {
	mt := memtransport.New()
	mt.OnRequest = func(req wire.Message) {
		if req.Header.Type == wire.Write {
			replyOK(mt, req, nil)
		}
	}

	c := newTestClient(mt)
	defer c.Close()

	const goroutines = 32
	const perGoroutine = 100

	var wg sync.WaitGroup
	errCh := make(chan error, goroutines*perGoroutine)

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				path := "/p"
				err := c.Write(context.Background(), path, []byte{byte(g), byte(i)})
				if err != nil {
					errCh <- err
				}
			}
		}(g)
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("Write failed: %v", err)
	}

	if err := mt.Violation(); err != nil {
		t.Fatalf("transport observed interleaved writes: %v", err)
	}
	if got := len(mt.Requests()); got != goroutines*perGoroutine {
		t.Fatalf("transport recorded %d requests, want %d", got, goroutines*perGoroutine)
	}
}
