//go:build !unix

package blockfile

import "os"

// lockFile - Advisory locking is not available, exclusive access within the process is still enforced by Store
func lockFile(_ *os.File) (unlock func() error, err error) {
	unlock = func() error { return nil }

	return
}
