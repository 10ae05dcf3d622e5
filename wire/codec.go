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

// Writer is the blocking write half of the transport contract the codec
// needs. transport.Transport satisfies this structurally; the codec does
// not import the transport package to avoid a dependency cycle.
type Writer interface {
	WriteAll(b []byte) error
}

// Reader is the blocking read half of the transport contract.
type Reader interface {
	ReadExact(b []byte) error
}

// WriteMessage serializes a single logical request as a header followed
// by the concatenation of parts, writing each as its own call to w so that
// a single request may cross several WriteAll calls without the codec
// buffering beyond that. The header's Len field is computed from parts;
// callers must not set it themselves.
//
// The caller is responsible for ensuring no other goroutine writes to w
// concurrently (the Request Mux's request lock provides this).
func WriteMessage(w Writer, h Header, parts ...[]byte) error {
	h.Len = PartsLen(parts)

	if err := w.WriteAll(h.Bytes()); err != nil {
		return err
	}

	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		if err := w.WriteAll(p); err != nil {
			return err
		}
	}

	return nil
}

// ReadMessage reads exactly one message from r: the fixed header, then
// exactly Header.Len bytes of body. WatchEvent bodies are parsed into
// their component strings; everything else is returned as an opaque,
// NUL-terminated body buffer.
func ReadMessage(r Reader) (Message, error) {
	headerBytes := make([]byte, HeaderSize)
	if err := r.ReadExact(headerBytes); err != nil {
		return Message{}, err
	}
	h := DecodeHeader(headerBytes)

	body := make([]byte, h.Len)
	if h.Len > 0 {
		if err := r.ReadExact(body); err != nil {
			return Message{}, err
		}
	}

	if h.Type == WatchEvent {
		return NewWatchEvent(h, body), nil
	}
	return NewReply(h, body), nil
}
