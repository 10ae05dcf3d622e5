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

// Package devtransport implements transport.Transport over a character
// device file descriptor, the shape a /dev/xen/xenbus (or, under a
// classic kernel, /proc/xen/xenbus) node takes. It speaks the blocking
// byte-stream half of the ring contract only; the ring's own
// producer/consumer index protocol is handled beneath the fd by the
// kernel driver, not by this package.
package devtransport

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Transport is a transport.Transport backed by an open file descriptor.
type Transport struct {
	f *os.File
}

// Open opens path (conventionally "/dev/xen/xenbus") and returns a
// Transport wrapping it. The caller must call Close when done.
func Open(path string) (*Transport, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Transport{f: f}, nil
}

// New wraps an already-open file descriptor, e.g. one handed to the
// process by a supervisor.
func New(f *os.File) *Transport {
	return &Transport{f: f}
}

// Close closes the underlying file descriptor.
func (t *Transport) Close() error {
	return t.f.Close()
}

// WriteAll implements transport.Transport. It calls unix.Write directly
// rather than os.File.Write, the same tradeoff jacobsa/fuse's connection
// makes to avoid os.File's internal retry loop masking a short write.
func (t *Transport) WriteAll(b []byte) error {
	fd := int(t.f.Fd())
	for len(b) > 0 {
		n, err := unix.Write(fd, b)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("write: %w", err)
		}
		b = b[n:]
	}
	return nil
}

// ReadExact implements transport.Transport, retrying short reads and
// EINTR until b is filled.
func (t *Transport) ReadExact(b []byte) error {
	fd := int(t.f.Fd())
	for len(b) > 0 {
		n, err := unix.Read(fd, b)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("read: unexpected EOF on xenbus device")
		}
		b = b[n:]
	}
	return nil
}
