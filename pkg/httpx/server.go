package httpx

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/awjames6875/shipflow/pkg/log"
	"github.com/awjames6875/shipflow/pkg/version"
)

// HTTP holds the http server configuration.
type HTTP struct {
	Host            string
	Port            int
	Mode            string
	ContextPath     string
	PProf           bool
	ExposeMetrics   bool
	AccessLog       bool
	ReadTimeout     int
	WriteTimeout    int
	IdleTimeout     int
	ShutdownTimeout int
}

func (h *HTTP) SetDefaults() {
	if h.Host == "" {
		h.Host = "0.0.0.0"
	}
	if h.Port == 0 {
		h.Port = 8080
	}
	if h.Mode == "" {
		h.Mode = gin.ReleaseMode
	}
	if h.ContextPath == "" {
		h.ContextPath = "/api/v1"
	}
	if h.ReadTimeout == 0 {
		h.ReadTimeout = 60
	}
	if h.WriteTimeout == 0 {
		// long enough for a synchronous full pipeline run
		h.WriteTimeout = 1800
	}
	if h.IdleTimeout == 0 {
		h.IdleTimeout = 120
	}
	if h.ShutdownTimeout == 0 {
		h.ShutdownTimeout = 10
	}
}

// RegisterFunc mounts application routes on the context path group.
type RegisterFunc func(r *gin.RouterGroup)

// NewEngine builds the gin engine with recovery, access log, health,
// version, metrics and pprof endpoints, then mounts application routes
// under the context path.
func NewEngine(cfg HTTP, register RegisterFunc) *gin.Engine {
	gin.SetMode(cfg.Mode)

	r := gin.New()
	r.Use(gin.Recovery())

	if cfg.AccessLog {
		r.Use(gin.LoggerWithFormatter(AccessLogFormat))
	}

	if cfg.PProf {
		pprof.Register(r, "/debug/pprof")
	}

	if cfg.ExposeMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, version.GetVersion())
	})

	if register != nil {
		register(r.Group(cfg.ContextPath))
	}

	return r
}

// NewHTTP starts the server in the background and returns a shutdown
// function.
func NewHTTP(cfg HTTP, handler http.Handler) func() {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	go func() {
		log.Infof("http server start at %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*time.Duration(cfg.ShutdownTimeout))
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf("http server shutdown: %v", err)
			return
		}
		log.Info("http server exit")
	}
}
