// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package xenstore

import "syscall"

// errnoTable maps the NUL-terminated mnemonic a XenStore server sends in
// an ERROR reply's body to the syscall.Errno it names. This is the
// standard, protocol-public XenStore error-string table; unrecognized
// mnemonics map to syscall.EINVAL (SPEC_FULL.md §7).
var errnoTable = map[string]syscall.Errno{
	"EINVAL":    syscall.EINVAL,
	"EACCES":    syscall.EACCES,
	"EEXIST":    syscall.EEXIST,
	"EISDIR":    syscall.EISDIR,
	"ENOENT":    syscall.ENOENT,
	"ENOMEM":    syscall.ENOMEM,
	"ENOSPC":    syscall.ENOSPC,
	"EIO":       syscall.EIO,
	"ENOTEMPTY": syscall.ENOTEMPTY,
	"ENOSYS":    syscall.ENOSYS,
	"EROFS":     syscall.EROFS,
	"EAGAIN":    syscall.EAGAIN,
	"EINTR":     syscall.EINTR,
	"E2BIG":     syscall.E2BIG,
	"EBADF":     syscall.EBADF,
	"ENOTDIR":   syscall.ENOTDIR,
	"EPERM":     syscall.EPERM,
	"ETIMEDOUT": syscall.ETIMEDOUT,
}
