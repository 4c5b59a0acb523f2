//go:build !windows

package filesystem

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockExclusive takes a blocking exclusive advisory lock on f.
func lockExclusive(f *os.File) error {
	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX)
		if err != unix.EINTR {
			return err
		}
	}
}

func unlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
