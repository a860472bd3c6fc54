// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Catalog Access - these keys govern communication with the remote drama catalog API.
const (
	CatalogBaseURL = "catalog.base_url"
	CatalogTimeout = "catalog.timeout_seconds"
)

// History Tracking - these keys configure the persistence of playback progress records.
const (
	HistorySaveOnWatch = "history.save_on_watch"
)

// Search Interaction - these keys define the behavior of catalog search and discovery.
const (
	SearchLimit                = "search.limit"
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Media Playback - these keys maintain the state and configuration for playback sessions.
const (
	Player                       = "player.default"
	PlaybackAutoplay             = "playback.autoplay"
	PlaybackCompletionPercentage = "playback.completion_percentage"
)

// Range Relay - these keys configure the embedded media relay server.
const (
	RelayAddress   = "relay.address"
	RelayPublicURL = "relay.public_url"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
