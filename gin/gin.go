// Package gin serves a [pusula.Recommender] over HTTP using the Gin web
// framework.
//
// POST /api/recommend accepts a request document and streams the
// recommender's raw text back as text/plain, flushing every chunk as it
// arrives. The response is never buffered or reinterpreted: clients
// decode it with [pusula.Decoder].
package gin

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/pusula"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	defaultMaxBodyBytes = 10 << 20 // 10 MiB
	shutdownTimeout     = 5 * time.Second
)

// Server is an HTTP server in front of a [pusula.Recommender].
type Server struct {
	recommender    pusula.Recommender
	engine         *gin.Engine
	httpServer     *http.Server
	listener       net.Listener
	log            zerolog.Logger
	maxBodyBytes   int64
	allowedOrigins []string
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithMaxBodyBytes limits the size of request bodies. Default is 10 MiB.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBodyBytes = n }
}

// WithAllowedOrigins sets the origins allowed by CORS. "*" allows any
// origin and is the default.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// NewServer creates a Server with its routes and middleware registered.
func NewServer(r pusula.Recommender, opts ...Option) *Server {
	s := &Server{
		recommender:    r,
		log:            zerolog.Nop(),
		maxBodyBytes:   defaultMaxBodyBytes,
		allowedOrigins: []string{"*"},
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With().Str("component", "server").Logger()

	s.engine = gin.New()
	s.engine.Use(
		s.recovery(),
		requestID(),
		s.requestLogger(),
		cors(s.allowedOrigins),
	)
	s.engine.GET("/healthz", handleHealth)
	api := s.engine.Group("/api", bodyLimit(s.maxBodyBytes))
	api.POST("/recommend", s.handleRecommend)
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Open binds addr and begins serving in a goroutine. It returns once the
// listener is bound.
func (s *Server) Open(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("gin: listen %s: %w", addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("server error")
		}
	}()
	s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
	return nil
}

// Addr returns the bound address, or "" before Open.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts the server down, waiting for in-flight streams
// up to a fixed deadline.
func (s *Server) Close() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("gin: shutdown: %w", err)
	}
	return nil
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
