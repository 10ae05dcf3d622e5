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

import (
	"bytes"
	"errors"
	"testing"
)

// recordingPipe is a minimal Writer+Reader backed by a single buffer,
// recording the boundaries of each WriteAll call for assertions.
type recordingPipe struct {
	buf        bytes.Buffer
	writeSizes []int
}

func (p *recordingPipe) WriteAll(b []byte) error {
	p.writeSizes = append(p.writeSizes, len(b))
	p.buf.Write(b)
	return nil
}

func (p *recordingPipe) ReadExact(b []byte) error {
	n, err := p.buf.Read(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return errors.New("short read")
	}
	return nil
}

func TestWriteMessageThenReadMessage(t *testing.T) {
	p := &recordingPipe{}

	h := Header{Type: Write, ReqID: 1, TxID: 0}
	if err := WriteMessage(p, h, []byte("/a\x00"), []byte("hello")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	// One write for the header, one per non-empty part.
	if want := []int{HeaderSize, 3, 5}; !equalInts(p.writeSizes, want) {
		t.Errorf("writeSizes = %v, want %v", p.writeSizes, want)
	}

	msg, err := ReadMessage(p)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	wantBody := "/a\x00hello"
	if string(msg.Body[:len(wantBody)]) != wantBody {
		t.Errorf("Body = %q, want prefix %q", msg.Body, wantBody)
	}
	if msg.Header.Type != Write || msg.Header.ReqID != 1 {
		t.Errorf("Header = %+v, want Type=Write ReqID=1", msg.Header)
	}
	if int(msg.Header.Len) != len(wantBody) {
		t.Errorf("Len = %d, want %d", msg.Header.Len, len(wantBody))
	}
}

func TestWriteMessageSkipsEmptyParts(t *testing.T) {
	p := &recordingPipe{}
	if err := WriteMessage(p, Header{Type: Mkdir}, []byte("/a\x00"), nil, []byte{}); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	if want := []int{HeaderSize, 3}; !equalInts(p.writeSizes, want) {
		t.Errorf("writeSizes = %v, want %v (empty parts must not become writes)", p.writeSizes, want)
	}
}

func TestReadMessageWatchEvent(t *testing.T) {
	p := &recordingPipe{}
	body := Join("/x", "TOKEN")
	if err := WriteMessage(p, Header{Type: WatchEvent}, body); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	msg, err := ReadMessage(p)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if msg.Body != nil {
		t.Errorf("Body = %v, want nil for WatchEvent", msg.Body)
	}
	if len(msg.Strings) != 2 || msg.Strings[WatchEventPath] != "/x" || msg.Strings[WatchEventToken] != "TOKEN" {
		t.Errorf("Strings = %#v, want [/x TOKEN]", msg.Strings)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
