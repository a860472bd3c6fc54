// Package source defines the domain models and interfaces for drama discovery and media resolution.
package source

import (
	"fmt"
	"strings"
)

// Transport identifies how a media source is delivered to the player.
type Transport int

const (
	// TransportProgressive is a single range-addressable media file.
	TransportProgressive Transport = iota
	// TransportSegmented is a manifest referencing many small media chunks.
	TransportSegmented
)

func (t Transport) String() string {
	if t == TransportSegmented {
		return "segmented"
	}
	return "progressive"
}

// ContentType returns the MIME type the player should assume for this transport.
func (t Transport) ContentType() string {
	if t == TransportSegmented {
		return "application/x-mpegURL"
	}
	return "video/mp4"
}

// Mirror is one CDN's copy of an episode with its quality variants.
type Mirror struct {
	// CDN host identifier.
	Domain string `json:"domain"`
	// Whether the catalog marks this mirror as the primary one.
	Default bool `json:"default"`
	// Quality variants, one MediaSource per encoded rendition.
	Variants []*MediaSource `json:"variants"`
}

// MediaSource represents a single candidate playable URL.
// Immutable once resolved for an episode.
type MediaSource struct {
	// Direct URL to the stream/file.
	URL string `json:"url"`
	// Numeric quality rank (e.g. 1080, 720). Higher is better.
	Quality int `json:"quality"`
}

// Transport classifies the source by its URL shape: manifest-style URLs
// (.m3u8/.m3u) are segmented, everything else is a progressive file.
func (s *MediaSource) Transport() Transport {
	if IsSegmentedURL(s.URL) {
		return TransportSegmented
	}
	return TransportProgressive
}

// String returns the quality label or URL for display.
func (s *MediaSource) String() string {
	if s.Quality > 0 {
		return fmt.Sprintf("%dp", s.Quality)
	}
	return s.URL
}

// IsSegmentedURL reports whether a URL points at a segmented-transport manifest.
func IsSegmentedURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.Contains(lower, ".m3u8") || strings.Contains(lower, ".m3u")
}

// IsSegmentedContentType reports whether an explicit content-type marker denotes segmented transport.
func IsSegmentedContentType(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "mpegurl")
}
