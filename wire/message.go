// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wire

import "bytes"

// Message is a single decoded unit of work handed up by the Reader loop:
// a header plus its body, with the body already split into NUL-terminated
// strings when Header.Type is WatchEvent.
//
// Body is nil for WatchEvent messages; Strings is nil for everything else.
type Message struct {
	Header  Header
	Body    []byte   // owns a trailing NUL; see NewReply.
	Strings []string // populated only for Header.Type == WatchEvent.
}

// NewReply builds the Reply variant of Message: body is copied and a
// trailing NUL sentinel appended so the bytes can be treated as a C string
// by callers that need that (e.g. the Error reply's mnemonic).
func NewReply(h Header, body []byte) Message {
	buf := make([]byte, len(body)+1)
	copy(buf, body)
	return Message{Header: h, Body: buf}
}

// NewWatchEvent builds the WatchEvent variant of Message, splitting body
// into its NUL-terminated strings. Conventionally two elements, path and
// token, but callers must tolerate more: the server is free to append
// extras and they are forwarded verbatim.
func NewWatchEvent(h Header, body []byte) Message {
	return Message{Header: h, Strings: Split(body)}
}

// Split breaks b, a concatenation of NUL-terminated strings (optionally
// with a trailing NUL after the last one), into its component strings. A
// zero-length b yields a nil slice.
func Split(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	// Trim exactly one trailing NUL if present; the wire format always NUL
	// terminates the last string, it is not a separator.
	trimmed := b
	if trimmed[len(trimmed)-1] == 0 {
		trimmed = trimmed[:len(trimmed)-1]
	}
	parts := bytes.Split(trimmed, []byte{0})
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = string(p)
	}
	return out
}

// Join is the inverse of Split: it concatenates parts with NUL separators
// and a trailing NUL, producing exactly the bytes XenStore puts on the
// wire for a multi-string payload (e.g. a WATCH request's node+token).
func Join(parts ...string) []byte {
	var buf bytes.Buffer
	for _, p := range parts {
		buf.WriteString(p)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// WatchEventIndex names the conventional positions within a WatchEvent's
// Strings slice.
const (
	WatchEventPath  = 0
	WatchEventToken = 1
)
