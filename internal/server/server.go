package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

// Server owns the HTTP listener for the bridge.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
}

const (
	maxHeaderBytes    = 1 << 16
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
)

// newHTTPServer has no WriteTimeout: /ws connections stay open for as long as the client reads.
func newHTTPServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// normalizeAddr accepts "80", ":80" or "host:80".
func normalizeAddr(port string) string {
	if port == "" {
		return ":80"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

// Listen binds the port so the caller can log the real address before serving.
func (s *Server) Listen(port string, handler http.Handler) (net.Addr, error) {
	ln, err := net.Listen("tcp", normalizeAddr(port))
	if err != nil {
		return nil, err
	}
	s.listener = ln
	s.httpServer = newHTTPServer(handler)
	return ln.Addr(), nil
}

// Serve blocks until Shutdown. A clean shutdown returns nil.
func (s *Server) Serve() error {
	if s.httpServer == nil {
		return errors.New("server: Serve called before Listen")
	}
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
