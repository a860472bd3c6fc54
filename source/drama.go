// Package source defines the domain models and interfaces for drama discovery and media resolution.
package source

import (
	"github.com/samber/mo"
)

// Drama represents a single show discovered through the catalog.
type Drama struct {
	// Catalog-assigned stable content id.
	ID string `json:"id"`
	// Display title.
	Title string `json:"title"`
	// Total number of episodes the catalog reports.
	EpisodeCount int `json:"episode_count"`
	// Synopsis text.
	Introduction string `json:"introduction"`
	// Genre/theme tags.
	Tags []string `json:"tags"`

	// Cover image URL. Catalog records frequently omit one of the two
	// cover fields, so absence is explicit rather than an empty string.
	Cover mo.Option[string] `json:"cover"`

	// Episodes associated with this drama. Populated only when necessary.
	Episodes []*Episode `json:"episodes,omitempty"`
}

func (d *Drama) String() string {
	return d.Title
}

// CoverURL returns the cover image URL or an empty string when the catalog supplied none.
func (d *Drama) CoverURL() string {
	return d.Cover.OrElse("")
}
