// Package relay implements a stateless streaming proxy for range-addressable media.
//
// Media origins are frequently geo-restricted or intolerant of browser-origin
// requests; the relay fetches on the player's behalf, forwarding only a
// safelisted header set in each direction and streaming the body through
// without ever buffering a whole file.
package relay

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dramasan-cli/dramasan/log"
	"github.com/dramasan-cli/dramasan/network"
)

// forwardedRequestHeaders is the only set of inbound headers passed to the origin.
var forwardedRequestHeaders = []string{"Range", "User-Agent", "Accept", "Referer"}

// forwardedResponseHeaders are copied verbatim from the origin when present.
var forwardedResponseHeaders = []string{"Content-Length", "Content-Range", "Accept-Ranges", "Content-Encoding"}

// Handler relays media bytes from an upstream origin. It holds no state
// between requests; concurrent requests are fully independent.
type Handler struct {
	client *http.Client
}

// NewHandler creates a relay handler backed by the shared network client.
func NewHandler() *Handler {
	return &Handler{client: network.Client}
}

// NewHandlerWithClient creates a relay handler with a custom HTTP client.
func NewHandlerWithClient(client *http.Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	// Tying the upstream request to the inbound context cancels the origin
	// fetch as soon as the player disconnects.
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		log.Errorf("relay: bad target %q: %v", target, err)
		http.Error(w, "internal relay error", http.StatusInternalServerError)
		return
	}

	for _, name := range forwardedRequestHeaders {
		if value := r.Header.Get(name); value != "" {
			req.Header.Set(name, value)
		}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		log.Errorf("relay: upstream fetch failed: %v", err)
		http.Error(w, "internal relay error", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	// Retry policy belongs to the player, not the relay: a failing origin is
	// reported as-is so the caller can pick a different mirror.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		http.Error(w, fmt.Sprintf("failed to fetch media: %s", resp.Status), resp.StatusCode)
		return
	}

	header := w.Header()
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	header.Set("Content-Type", contentType)
	header.Set("Access-Control-Allow-Origin", "*")

	for _, name := range forwardedResponseHeaders {
		if value := resp.Header.Get(name); value != "" {
			header.Set(name, value)
		}
	}

	// Status passthrough: a ranged request's 206 must reach the player intact.
	w.WriteHeader(resp.StatusCode)

	// Stream the body through; backpressure propagates from the client's read
	// rate to the origin fetch. A copy error here usually just means the
	// player seeked and dropped the connection.
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Debugf("relay: stream interrupted: %v", err)
	}
}

// ProxyURL builds the relay URL that serves the given media target.
func ProxyURL(publicURL, target string) string {
	return fmt.Sprintf("%s/proxy?url=%s", publicURL, url.QueryEscape(target))
}
