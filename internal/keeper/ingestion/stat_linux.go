//go:build linux

package ingestion

import (
	"os"
	"syscall"
	"time"
)

// statTimes pulls creation and modification times from the stat result.
// Linux exposes no birth time through os.FileInfo, so the inode change
// time stands in for creation.
func statTimes(info os.FileInfo) (created, modified *time.Time) {
	mod := info.ModTime()
	modified = &mod
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		ctime := time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
		created = &ctime
	}
	return created, modified
}
