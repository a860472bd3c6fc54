// Package history provides the implementation for tracking and persisting per-episode watch progress.
package history

import (
	"sync"
	"time"

	"github.com/dramasan-cli/dramasan/filesystem"
	"github.com/dramasan-cli/dramasan/log"
	"github.com/dramasan-cli/dramasan/where"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

// cacher provides an abstracted, disk-backed registry for playback progress records.
var cacher = gache.New[Store](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// mu serializes writers. Every write re-reads the persisted store before
// merging so concurrent sessions for different dramas cannot clobber each
// other's records.
var mu sync.Mutex

// now is swappable in tests.
var now = func() int64 { return time.Now().UnixMilli() }

// Get returns the complete persisted history store.
// Read failures (missing file, corrupt payload) degrade to an empty store:
// playback is never blocked by history problems.
func Get() Store {
	cached, expired, err := cacher.Get()
	if err != nil {
		log.Warnf("history read failed, treating as empty: %v", err)
		return make(Store)
	}
	if expired || cached == nil {
		return make(Store)
	}
	return cached
}

// Of returns the history for a single drama, if any exists.
func Of(contentID string) mo.Option[*ContentHistory] {
	if h, ok := Get()[contentID]; ok {
		return mo.Some(h)
	}
	return mo.None[*ContentHistory]()
}

// Progress returns the saved record for one episode of a drama, if any.
func Progress(contentID, episodeID string) mo.Option[*ProgressRecord] {
	if h, ok := Get()[contentID]; ok {
		if record, ok := h.Episodes[episodeID]; ok {
			return mo.Some(record)
		}
	}
	return mo.None[*ProgressRecord]()
}

// Put upserts the progress record for (contentID, episodeID), recomputes the
// completion percentage, bumps the drama's last-watched pointer, and persists
// the whole store. Write failures are logged and swallowed.
func Put(contentID, episodeID string, currentTime, duration float64) {
	mu.Lock()
	defer mu.Unlock()

	// Merge against the latest persisted state, not a cached snapshot.
	store := Get()

	content, ok := store[contentID]
	if !ok {
		content = &ContentHistory{Episodes: make(map[string]*ProgressRecord)}
		store[contentID] = content
	}
	if content.Episodes == nil {
		content.Episodes = make(map[string]*ProgressRecord)
	}

	var percent float64
	if duration > 0 {
		percent = currentTime / duration * 100
	}

	stamp := now()
	content.Episodes[episodeID] = &ProgressRecord{
		CurrentTime: currentTime,
		Duration:    duration,
		Percent:     percent,
		UpdatedAt:   stamp,
	}

	// The pointer always reflects the most recently active episode,
	// not only episode switches.
	content.LastWatchedEpisodeID = episodeID
	content.LastUpdated = stamp

	if err := cacher.Set(store); err != nil {
		log.Warnf("history write failed: %v", err)
	}
}

// Label records the display title for a drama so history listings can render
// it without a catalog round trip. A missing entry is created lazily on the
// first progress write, so labeling an unknown drama is a no-op.
func Label(contentID, title string) {
	mu.Lock()
	defer mu.Unlock()

	store := Get()
	content, ok := store[contentID]
	if !ok {
		return
	}

	content.Title = title
	if err := cacher.Set(store); err != nil {
		log.Warnf("history write failed: %v", err)
	}
}

// Remove permanently deletes the full history of a single drama.
func Remove(contentID string) {
	mu.Lock()
	defer mu.Unlock()

	store := Get()
	delete(store, contentID)
	if err := cacher.Set(store); err != nil {
		log.Warnf("history write failed: %v", err)
	}
}

// Clear permanently deletes the entire watch history.
func Clear() {
	mu.Lock()
	defer mu.Unlock()

	if err := cacher.Set(make(Store)); err != nil {
		log.Warnf("history write failed: %v", err)
	}
}
