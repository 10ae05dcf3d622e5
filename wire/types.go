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

// Package wire implements the XenStore wire format: the fixed 16-byte
// message header, NUL-terminated string payload framing, and the decoded
// Reply/WatchEvent message variants the Reader loop produces.
//
// The package performs no interpretation of payload content beyond
// NUL-splitting; it knows nothing about transactions, watches, or the
// request mux above it.
package wire

// Type is a XenStore wire opcode. The core treats most of these as opaque;
// only a handful (Error, WatchEvent, TransactionStart, TransactionEnd,
// Watch, Unwatch, Debug, Read, Write, Mkdir, Rm, Directory) are inspected
// by name anywhere above this package.
type Type uint32

const (
	Debug Type = iota
	Directory
	Read
	GetPerms
	Watch
	Unwatch
	TransactionStart
	TransactionEnd
	Introduce
	Release
	GetDomainPath
	Write
	Mkdir
	Rm
	SetPerms
	WatchEvent
	Error
	IsDomainIntroduced
	Resume
	SetTarget
	Restrict
	ResetWatches
	DirectoryPart
)

var typeNames = map[Type]string{
	Debug:              "DEBUG",
	Directory:          "DIRECTORY",
	Read:               "READ",
	GetPerms:           "GET_PERMS",
	Watch:              "WATCH",
	Unwatch:            "UNWATCH",
	TransactionStart:   "TRANSACTION_START",
	TransactionEnd:     "TRANSACTION_END",
	Introduce:          "INTRODUCE",
	Release:            "RELEASE",
	GetDomainPath:      "GET_DOMAIN_PATH",
	Write:              "WRITE",
	Mkdir:              "MKDIR",
	Rm:                 "RM",
	SetPerms:           "SET_PERMS",
	WatchEvent:         "WATCH_EVENT",
	Error:              "ERROR",
	IsDomainIntroduced: "IS_DOMAIN_INTRODUCED",
	Resume:             "RESUME",
	SetTarget:          "SET_TARGET",
	Restrict:           "RESTRICT",
	ResetWatches:       "RESET_WATCHES",
	DirectoryPart:      "DIRECTORY_PART",
}

// String renders t for logging. Unknown opcodes (the server is free to add
// new ones over time) print as "UNKNOWN" rather than panicking.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}
