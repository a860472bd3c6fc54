package relay

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/dramasan-cli/dramasan/log"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Server hosts the relay endpoint over HTTP.
type Server struct {
	httpServer *http.Server
}

// NewServer wires the relay handler into a router with request logging and
// permissive CORS, which the player context requires to read the stream.
func NewServer(address string) *Server {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	r.Handle("/proxy", NewHandler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    address,
			Handler: corsHandler.Handler(r),
		},
	}
}

// ListenAndServe blocks serving relay traffic until the server is shut down.
func (s *Server) ListenAndServe() error {
	log.Infof("relay listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Serve blocks serving relay traffic on an already bound listener.
func (s *Server) Serve(listener net.Listener) error {
	log.Infof("relay listening on %s", listener.Addr())
	return s.httpServer.Serve(listener)
}

// Shutdown drains in-flight streams and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// loggingMiddleware records method, path, status, and duration for every request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		log.Infof("%s %s -> %d (%s)", r.Method, r.URL.Path, wrapped.status, time.Since(start))
	})
}

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
