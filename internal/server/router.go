// Package server exposes the latest scan over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shazow/wifichan/internal/metrics"
	"github.com/shazow/wifichan/internal/monitor"
)

// Source provides the scan served by the API.
type Source interface {
	Snapshot() (monitor.Snapshot, bool)
}

// SetupRouter returns the API router. collector may be nil, in which case
// /metrics is not served.
func SetupRouter(source Source, collector *metrics.Collector) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	h := &handler{source: source}

	router := gin.New()
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "healthy",
			})
		})
		v1.GET("/access-points", h.AccessPoints)
		v1.GET("/channels", h.Channels)
		v1.GET("/channels/best", h.BestChannels)
	}

	if collector != nil {
		router.GET("/metrics", gin.WrapH(collector.Handler()))
	}
	return router
}

// Serve runs the router on addr until ctx is done.
func Serve(ctx context.Context, addr string, router http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"client_ip", c.ClientIP(),
			"duration", time.Since(start),
		)
	}
}

func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
