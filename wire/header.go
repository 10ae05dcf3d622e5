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

import "encoding/binary"

// HeaderSize is the fixed size, in bytes, of every message header on the
// wire: four little-endian u32 fields.
const HeaderSize = 16

// Header is the fixed 16-byte record that precedes every message's
// payload, little-endian throughout.
type Header struct {
	Type  Type
	ReqID uint32
	TxID  uint32
	Len   uint32
}

// Encode writes h into the first HeaderSize bytes of b, which must be at
// least that long.
func (h Header) Encode(b []byte) {
	_ = b[HeaderSize-1]
	binary.LittleEndian.PutUint32(b[0:4], uint32(h.Type))
	binary.LittleEndian.PutUint32(b[4:8], h.ReqID)
	binary.LittleEndian.PutUint32(b[8:12], h.TxID)
	binary.LittleEndian.PutUint32(b[12:16], h.Len)
}

// Bytes returns h encoded as a new HeaderSize-byte slice.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	h.Encode(b)
	return b
}

// DecodeHeader parses the first HeaderSize bytes of b as a Header. b must
// be at least HeaderSize bytes long.
func DecodeHeader(b []byte) Header {
	_ = b[HeaderSize-1]
	return Header{
		Type:  Type(binary.LittleEndian.Uint32(b[0:4])),
		ReqID: binary.LittleEndian.Uint32(b[4:8]),
		TxID:  binary.LittleEndian.Uint32(b[8:12]),
		Len:   binary.LittleEndian.Uint32(b[12:16]),
	}
}

// PartsLen returns the sum of the lengths of parts, the value that belongs
// in a request Header's Len field.
func PartsLen(parts [][]byte) uint32 {
	var n uint32
	for _, p := range parts {
		n += uint32(len(p))
	}
	return n
}
