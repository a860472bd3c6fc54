// Package source defines the domain models and interfaces for drama discovery and media resolution.
package source

import "github.com/samber/mo"

// Catalog defines the required capabilities of a remote drama catalog backend.
type Catalog interface {
	// Name returns the unique identifier for the catalog backend.
	Name() string

	// Trending retrieves the currently trending dramas.
	Trending() ([]*Drama, error)

	// Latest retrieves the most recently published dramas.
	Latest() ([]*Drama, error)

	// ForYou retrieves the personalized recommendation listing.
	ForYou() ([]*Drama, error)

	// Vip retrieves the premium catalog listing.
	Vip() ([]*Drama, error)

	// Random retrieves an arbitrary selection of dramas.
	Random() ([]*Drama, error)

	// Search executes a query against the catalog to discover matching dramas.
	Search(query string) ([]*Drama, error)

	// EpisodesOf retrieves the complete ordered episode list for a drama.
	EpisodesOf(contentID string) ([]*Episode, error)

	// DetailOf resolves full drama metadata for a content id, optionally aided by a title hint.
	// An absent result is not an error: the caller decides how to render a missing drama.
	DetailOf(contentID string, titleHint string) (mo.Option[*Drama], error)
}
