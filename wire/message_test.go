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
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestSplitJoinRoundTrip(t *testing.T) {
	cases := [][]string{
		nil,
		{"a"},
		{"/local/domain/0", "TOKEN"},
		{"/a", "tok1", "extra1", "extra2"},
		{""},
		{"", ""},
	}

	for _, parts := range cases {
		joined := Join(parts...)
		got := Split(joined)

		if len(parts) == 0 {
			if got != nil {
				t.Errorf("Split(Join()) = %#v, want nil", got)
			}
			continue
		}

		if diff := pretty.Compare(parts, got); diff != "" {
			t.Errorf("Split(Join(%#v)) mismatch (-want +got):\n%s", parts, diff)
		}
	}
}

func TestNewReplyAppendsNUL(t *testing.T) {
	m := NewReply(Header{Type: Read}, []byte("hello"))
	if len(m.Body) != len("hello")+1 {
		t.Fatalf("len(Body) = %d, want %d", len(m.Body), len("hello")+1)
	}
	if m.Body[len(m.Body)-1] != 0 {
		t.Errorf("Body not NUL terminated: %q", m.Body)
	}
	if string(m.Body[:len("hello")]) != "hello" {
		t.Errorf("Body = %q, want prefix %q", m.Body, "hello")
	}
}

func TestNewWatchEventTolerratesExtras(t *testing.T) {
	body := Join("/x", "TOKEN", "extra")
	m := NewWatchEvent(Header{Type: WatchEvent}, body)

	want := []string{"/x", "TOKEN", "extra"}
	if diff := pretty.Compare(want, m.Strings); diff != "" {
		t.Errorf("Strings mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitZeroLength(t *testing.T) {
	if got := Split(nil); got != nil {
		t.Errorf("Split(nil) = %#v, want nil", got)
	}
	if got := Split([]byte{}); got != nil {
		t.Errorf("Split([]byte{}) = %#v, want nil", got)
	}
}
