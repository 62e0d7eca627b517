// internal/server/server.go
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tamzrod/deskheight/internal/pipeline"
	"github.com/tamzrod/deskheight/internal/stream"
)

const shutdownTimeout = 5 * time.Second

// HeightPath serves the latest reading as JSON.
const HeightPath = "/height"

// HeightSource provides the latest reading.
type HeightSource interface {
	Latest() (pipeline.Latest, bool)
}

// Config selects the routes to mount.
type Config struct {
	Listen      string
	MetricsPath string
	StreamPath  string // empty disables the stream
}

// Deps are the handlers behind the routes. Metrics and Bus are optional.
type Deps struct {
	Metrics http.Handler
	Height  HeightSource
	Bus     *stream.Bus
}

// Server is the desk's HTTP surface.
type Server struct {
	cfg    Config
	log    zerolog.Logger
	router *gin.Engine
}

func New(cfg Config, deps Deps, log zerolog.Logger) (*Server, error) {
	if cfg.Listen == "" {
		return nil, errors.New("server: listen address required")
	}
	if deps.Height == nil {
		return nil, errors.New("server: height source required")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))

	r.GET(HeightPath, heightHandler(deps.Height))

	if deps.Metrics != nil && cfg.MetricsPath != "" {
		r.GET(cfg.MetricsPath, gin.WrapH(deps.Metrics))
	}
	if deps.Bus != nil && cfg.StreamPath != "" {
		r.GET(cfg.StreamPath, gin.WrapH(stream.Handler(deps.Bus, log)))
	}

	return &Server{cfg: cfg, log: log, router: r}, nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.log.Info().Str("listen", ln.Addr().String()).Msg("http server started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func heightHandler(src HeightSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		latest, ok := src.Latest()
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":  "no height reported yet",
				"health": latest.Health,
			})
			return
		}
		c.JSON(http.StatusOK, latest)
	}
}
