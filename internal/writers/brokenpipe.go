package writers

import (
	"io"
	"syscall"

	"kmputil-core/errs"
)

// IsBrokenPipe reports whether err means the reader of our output went away,
// as with `kmpfind ... | head`. Such a run still counts as successful.
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	return errs.Is(err, syscall.EPIPE) || errs.Is(err, io.ErrClosedPipe)
}
