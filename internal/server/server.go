// Package server exposes preferences and reconciled views over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"viewsync/internal/catalog"
	"viewsync/internal/preference"
)

const timeFormat = time.RFC3339Nano

var defaultTrustedProxies = []string{"127.0.0.1"}

type Options struct {
	Prefs     *preference.Client
	Catalog   *catalog.Catalog
	Namespace string
	Logger    *zap.Logger
	// TrustedProxies defaults to loopback only.
	TrustedProxies []string
}

type Server struct {
	engine *gin.Engine
	logger *zap.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := newMetrics()

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), m.middleware())
	proxies := opts.TrustedProxies
	if proxies == nil {
		proxies = defaultTrustedProxies
	}
	if err := router.SetTrustedProxies(proxies); err != nil {
		logger.Warn("failed to set trusted proxies", zap.Strings("proxies", proxies), zap.Error(err))
	}

	router.GET("/metrics", m.handler())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &Handler{
		Prefs:     opts.Prefs,
		Catalog:   opts.Catalog,
		Namespace: opts.Namespace,
		Logger:    logger,
	}
	h.RegisterRoutes(router.Group("/v1"))

	return &Server{engine: router, logger: logger}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API listening", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}
