//go:build unix

package blockfile

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// lockFile - Takes an exclusive, non-blocking, advisory lock on an open file
func lockFile(file *os.File) (unlock func() error, err error) {
	fd := int(file.Fd())

	err = unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		if errors.Is(err, unix.EWOULDBLOCK) {
			err = fmt.Errorf("file is locked by another session")
		}
		return
	}

	unlock = func() error { return unix.Flock(fd, unix.LOCK_UN) }

	return
}
