//go:build darwin

package ingestion

import (
	"os"
	"syscall"
	"time"
)

// statTimes pulls creation and modification times from the stat result.
// Darwin carries a real birth time in Birthtimespec.
func statTimes(info os.FileInfo) (created, modified *time.Time) {
	mod := info.ModTime()
	modified = &mod
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		birth := time.Unix(int64(st.Birthtimespec.Sec), int64(st.Birthtimespec.Nsec))
		created = &birth
	}
	return created, modified
}
