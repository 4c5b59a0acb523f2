//go:build windows

package filesystem

import (
	"os"

	"golang.org/x/sys/windows"
)

// lockExclusive takes a blocking exclusive lock on the first byte range of f.
// LockFileEx is mandatory on Windows, but the temp file is private to its writer.
func lockExclusive(f *os.File) error {
	ol := new(windows.Overlapped)
	return windows.LockFileEx(windows.Handle(f.Fd()), windows.LOCKFILE_EXCLUSIVE_LOCK, 0, 1, 0, ol)
}

func unlock(f *os.File) error {
	ol := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, ol)
}
