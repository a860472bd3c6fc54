package history

import (
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Store is the full persisted history state, keyed by content id.
type Store map[string]*ContentHistory

// ProgressRecord is the saved playback position of one episode.
type ProgressRecord struct {
	// Playback position in seconds.
	CurrentTime float64 `json:"current_time"`
	// Total media duration in seconds.
	Duration float64 `json:"duration"`
	// Completion percentage, 0-100. Always currentTime/duration*100 when
	// duration is known, 0 otherwise.
	Percent float64 `json:"percent"`
	// Unix milliseconds of the last write.
	UpdatedAt int64 `json:"updated_at"`
}

// ContentHistory aggregates everything remembered about one drama.
type ContentHistory struct {
	// Display title, recorded on session start for history listings.
	Title string `json:"title,omitempty"`
	// Episode most recently written to, regardless of completion.
	LastWatchedEpisodeID string `json:"last_watched_episode_id"`
	// Unix milliseconds of the last write for this drama.
	LastUpdated int64 `json:"last_updated"`
	// Per-episode progress records.
	Episodes map[string]*ProgressRecord `json:"episodes"`
}

// Entry pairs a content id with its history for listing purposes.
type Entry struct {
	ContentID string
	*ContentHistory
}

func (e Entry) String() string {
	title := e.Title
	if title == "" {
		title = e.ContentID
	}
	return fmt.Sprintf("%s : %s", title, e.LastWatchedEpisodeID)
}

// Entries returns all history entries ordered by recency, newest first.
// Used by the "continue watching" entry point.
func Entries() []Entry {
	entries := lo.MapToSlice(Get(), func(id string, h *ContentHistory) Entry {
		return Entry{ContentID: id, ContentHistory: h}
	})

	slices.SortFunc(entries, func(a, b Entry) int {
		switch {
		case a.LastUpdated > b.LastUpdated:
			return -1
		case a.LastUpdated < b.LastUpdated:
			return 1
		default:
			return 0
		}
	})

	return entries
}
