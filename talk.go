// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package xenstore

import (
	"bytes"
	"context"

	"github.com/jacobsa/xenstore/wire"
)

// talk is the Request Mux's single synchronous request primitive
// (SPEC_FULL.md §4.2): it serializes transaction and parts into one
// header-plus-payload write, then blocks for the matching reply.
//
// On success it returns the reply's owned body, without its trailing
// NUL sentinel (a zero-length body is valid and distinct from an
// error). On failure it returns an *Error.
//
// talk does not itself validate that a reply's Type matches the
// request's Type: the source disables that assertion, and this spec
// tolerates differing types (SPEC_FULL.md §9).
func (c *Client) talk(
	ctx context.Context,
	tx uint32,
	typ wire.Type,
	parts ...[]byte) ([]byte, error) {
	// TRANSACTION_START acquires the suspend barrier in shared mode before
	// sending; it is released on any failure path below, or kept held
	// across the transaction on success (SPEC_FULL.md §4.2).
	if typ == wire.TransactionStart {
		if err := c.suspend.lockShared(ctx); err != nil {
			return nil, transportError(err)
		}
	}

	c.requestMu.Lock()
	reqID := c.nextRequestID()
	h := wire.Header{Type: typ, ReqID: reqID, TxID: tx}

	writeErr := wire.WriteMessage(c.transport, h, parts...)
	if writeErr != nil {
		c.requestMu.Unlock()
		if typ == wire.TransactionStart {
			c.suspend.unlockShared()
		}
		if typ == wire.TransactionEnd {
			c.suspend.unlockShared()
		}
		return nil, transportError(writeErr)
	}

	reply, ok := c.replies.pop()
	c.requestMu.Unlock()

	// TRANSACTION_END's shared hold was acquired back at the matching
	// START and is released here unconditionally, success or failure
	// (SPEC_FULL.md §4.2).
	if typ == wire.TransactionEnd {
		c.suspend.unlockShared()
	}

	if !ok {
		if typ == wire.TransactionStart {
			c.suspend.unlockShared() // the transaction never began.
		}
		return nil, ErrClosed
	}

	if reply.Header.Type == wire.Error {
		mnemonic := mnemonicFromErrorBody(reply.Body)
		if typ == wire.TransactionStart {
			c.suspend.unlockShared() // the transaction never began.
		}
		return nil, serverErrorFromMnemonic(mnemonic, c.errorLogger.Printf)
	}

	return trimTrailingNUL(reply.Body), nil
}

// mnemonicFromErrorBody extracts the NUL-terminated server error string
// from an ERROR reply's body (SPEC_FULL.md §6).
func mnemonicFromErrorBody(body []byte) string {
	if i := bytes.IndexByte(body, 0); i >= 0 {
		return string(body[:i])
	}
	return string(body)
}

// trimTrailingNUL drops the sentinel NUL byte wire.NewReply appends,
// since the core's decoded Message.Body always carries one.
func trimTrailingNUL(body []byte) []byte {
	if len(body) > 0 && body[len(body)-1] == 0 {
		return body[:len(body)-1]
	}
	return body
}
