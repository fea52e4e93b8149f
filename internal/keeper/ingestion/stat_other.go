//go:build !linux && !darwin

package ingestion

import (
	"os"
	"time"
)

// statTimes returns only the modification time; creation time is not
// portable off linux and darwin, so it stays absent.
func statTimes(info os.FileInfo) (created, modified *time.Time) {
	mod := info.ModTime()
	return nil, &mod
}
