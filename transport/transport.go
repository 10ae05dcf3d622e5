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

// Package transport defines the blocking byte-stream contract the
// xenstore core depends on, plus reference adapters. The ring-buffer
// protocol itself (producer/consumer indices, signalling) is out of
// scope here; the core never sees it.
package transport

// Transport is the contract the xenstore core depends on: ordered,
// blocking byte-level read/write with signalling, opaque to the core.
// Implementations are expected to run over the two XenStore shared-memory
// rings, but the core neither knows nor cares how.
type Transport interface {
	// WriteAll writes all of b, blocking until every byte is accepted or an
	// error occurs.
	WriteAll(b []byte) error

	// ReadExact blocks until b is filled completely or an error occurs.
	ReadExact(b []byte) error
}
