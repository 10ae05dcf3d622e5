// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package xenstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"syscall"

	"github.com/jacobsa/xenstore/wire"
)

// path0 is the common request shape: a single NUL-terminated path.
func path0(p string) []byte {
	return wire.Join(p)
}

// Read returns the value stored at path.
func (c *Client) Read(ctx context.Context, path string) ([]byte, error) {
	return c.talk(ctx, 0, wire.Read, path0(path))
}

// Write stores data at path, creating it (and any missing parent
// directories) if necessary.
func (c *Client) Write(ctx context.Context, path string, data []byte) error {
	_, err := c.talk(ctx, 0, wire.Write, path0(path), data)
	return err
}

// Mkdir creates path as an empty node if it does not already exist.
func (c *Client) Mkdir(ctx context.Context, path string) error {
	_, err := c.talk(ctx, 0, wire.Mkdir, path0(path))
	return err
}

// Rm removes path and everything beneath it.
func (c *Client) Rm(ctx context.Context, path string) error {
	_, err := c.talk(ctx, 0, wire.Rm, path0(path))
	return err
}

// Directory lists the immediate children of path.
func (c *Client) Directory(ctx context.Context, path string) ([]string, error) {
	body, err := c.talk(ctx, 0, wire.Directory, path0(path))
	if err != nil {
		return nil, err
	}
	return wire.Split(body), nil
}

// Exists reports whether path is present, treating ENOENT as a negative
// answer rather than an error.
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	_, err := c.Read(ctx, path)
	if err == nil {
		return true, nil
	}

	if xerr, ok := err.(*Error); ok && xerr.Kind == ServerError && xerr.Errno == syscall.ENOENT {
		return false, nil
	}
	return false, err
}

// Transaction is an opaque handle returned by TransactionStart and
// threaded as tx_id on subsequent requests until End.
type Transaction struct {
	client *Client
	id     uint32
}

// TransactionStart begins a new server-side transaction.
func (c *Client) TransactionStart(ctx context.Context) (Transaction, error) {
	body, err := c.talk(ctx, 0, wire.TransactionStart)
	if err != nil {
		return Transaction{}, err
	}

	n, perr := strconv.ParseUint(strings.TrimRight(string(body), "\x00"), 10, 32)
	if perr != nil {
		return Transaction{}, invalidArgument(fmt.Errorf("parsing transaction id %q: %w", body, perr))
	}

	return Transaction{client: c, id: uint32(n)}, nil
}

// End commits (commit == true) or aborts the transaction.
func (tx Transaction) End(ctx context.Context, commit bool) error {
	flag := "F"
	if commit {
		flag = "T"
	}
	_, err := tx.client.talk(ctx, tx.id, wire.TransactionEnd, wire.Join(flag))
	return err
}

// ID returns the numeric transaction handle, for logging.
func (tx Transaction) ID() uint32 {
	return tx.id
}

// DebugWrite sends msg to the server's debug channel. The payload on the
// wire is exactly "print\x00" + msg + "\x00" (SPEC_FULL.md §9's resolved
// open question on the debug-write byte sequence).
func (c *Client) DebugWrite(ctx context.Context, msg string) error {
	_, err := c.talk(ctx, 0, wire.Debug, []byte("print\x00"), []byte(msg), []byte{0})
	return err
}

// maxPrintfSize is the limit SPEC_FULL.md §9 resolves the oversized-
// printf open question with: reject rather than silently truncate.
const maxPrintfSize = 4096

// Printf formats into path, rejecting with InvalidArgument instead of
// truncating if the result would not fit in a single XenStore write.
func (c *Client) Printf(ctx context.Context, path, format string, args ...interface{}) error {
	s := fmt.Sprintf(format, args...)
	if len(s) > maxPrintfSize {
		return invalidArgument(fmt.Errorf("formatted value is %d bytes, exceeds %d-byte limit", len(s), maxPrintfSize))
	}
	return c.Write(ctx, path, []byte(s))
}

// Scanf reads path and parses its value with format, mirroring
// xenbus_scanf's distinctive zero-conversions error (SPEC_FULL.md §4.7).
func (c *Client) Scanf(ctx context.Context, path, format string, args ...interface{}) (int, error) {
	body, err := c.Read(ctx, path)
	if err != nil {
		return 0, err
	}

	n, serr := fmt.Sscanf(string(body), format, args...)
	if n == 0 {
		return 0, invalidArgument(serr)
	}
	return n, nil
}

// GatherField names one child path to read, relative to the node passed
// to Gather, and how to parse it.
type GatherField struct {
	Name   string
	Format string
	Arg    interface{}
}

// Gather reads every field under path in one call, applying each
// field's format to its value. Unlike Scanf, it does not stop at the
// first failing field: it attempts every field and returns a combined
// error naming all that failed, since callers typically populate an
// entire struct from one Gather call and want to know which parts of it
// did not come through (SPEC_FULL.md §4.7).
func (c *Client) Gather(ctx context.Context, path string, fields ...GatherField) error {
	var failed []string

	for _, f := range fields {
		if _, err := c.Scanf(ctx, joinPath(path, f.Name), f.Format, f.Arg); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", f.Name, err))
		}
	}

	if len(failed) > 0 {
		return invalidArgument(fmt.Errorf("gather(%s): %s", path, strings.Join(failed, "; ")))
	}
	return nil
}

func joinPath(base, name string) string {
	if strings.HasSuffix(base, "/") {
		return base + name
	}
	return base + "/" + name
}
