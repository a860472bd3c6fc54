package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dramasan-cli/dramasan/log"
)

// embedded is the process-wide relay instance the interactive flow starts on
// demand. Progressive media is unplayable without a reachable relay, so the
// watch flow cannot rely on the standalone serve command being up.
var embedded struct {
	sync.Mutex
	server *Server
	base   string
}

// Ensure lazily starts the in-process relay on the given address and returns
// the base URL media requests should be routed through. Calls after the first
// return the running instance.
func Ensure(address string) (string, error) {
	embedded.Lock()
	defer embedded.Unlock()

	if embedded.server != nil {
		return embedded.base, nil
	}

	// Bind before returning so the caller never hands the engine a URL
	// nothing listens on.
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return "", fmt.Errorf("relay listen on %s: %w", address, err)
	}

	server := NewServer(listener.Addr().String())
	go func() {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("embedded relay stopped: %v", err)
		}
	}()

	embedded.server = server
	embedded.base = "http://" + listener.Addr().String()
	return embedded.base, nil
}

// Stop shuts the embedded relay down, giving in-flight streams a moment to
// drain. A no-op when Ensure never ran.
func Stop() {
	embedded.Lock()
	server := embedded.server
	embedded.server = nil
	embedded.base = ""
	embedded.Unlock()

	if server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Warnf("embedded relay shutdown: %v", err)
	}
}
