// Package server is the HTTP front end: it accepts schedule uploads, runs the
// analysis per upload session and serves the generated workbooks.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	"github.com/ukaji3/turni-go/internal/config"
	"github.com/ukaji3/turni-go/pkg/turni/cache"
	"github.com/ukaji3/turni-go/pkg/turni/metrics"
	"github.com/ukaji3/turni-go/pkg/turni/parser"
)

// Server is the upload/download HTTP server.
type Server struct {
	cfg      *config.Config
	router   *gin.Engine
	sessions *sessionStore
	cache    *cache.Cache
	logger   *zap.Logger
	metrics  *metrics.Recorder
}

// New creates a Server. The upload directory is created if missing.
func New(cfg *config.Config, logger *zap.Logger, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		return nil, err
	}

	docCache := cache.New(parser.ReadDocument)
	s := &Server{
		cfg:      cfg,
		router:   gin.New(),
		sessions: newSessionStore(cfg.SessionTTL, docCache.InvalidateDir),
		cache:    docCache,
		logger:   logger.Named("server"),
		metrics:  recorder,
	}
	s.router.MaxMultipartMemory = 8 << 20
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	s.router.POST("/upload", s.upload)
	s.router.GET("/download/:session/:file", s.download)
	s.router.POST("/cleanup/:session", s.cleanup)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on cfg.Addr until ctx is cancelled. At most cfg.MaxConnections
// connections are served at once; zero means no limit.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	if s.cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
