// Package cache maintains the localized on-disk cache directory.
package cache

import (
	"os"
	"time"

	"github.com/dramasan-cli/dramasan/filesystem"
	"github.com/dramasan-cli/dramasan/where"
)

// TTL is the maximum age of a cache artifact before it becomes eligible for pruning.
const TTL = 7 * 24 * time.Hour

// CollectGarbage prunes cache artifacts that have exceeded their TTL.
// Safe to run concurrently with cache reads; pruned entries are simply recomputed on the next access.
func CollectGarbage() {
	_ = filesystem.API().Walk(where.Cache(), func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		if time.Since(info.ModTime()) > TTL {
			_ = filesystem.API().Remove(path)
		}

		return nil
	})
}
