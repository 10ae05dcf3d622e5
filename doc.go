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

// Package xenstore is a client for the XenStore wire protocol: a shared
// configuration and synchronization database exposed by a hypervisor to
// guest domains over a pair of shared-memory ring buffers.
//
// The primary elements of interest are:
//
//   - Client, which multiplexes a single byte stream into concurrent
//     request/reply transactions and an asynchronous watch-event stream.
//
//   - The Transport interface, implemented outside this package over the
//     actual ring buffers (see the transport subpackages for reference
//     adapters).
//
//   - RegisterWatch / (*Watch).Unregister, for subscribing to server-side
//     path changes, and Suspend / Resume, for coordinating with a
//     hypervisor save/restore cycle.
package xenstore
