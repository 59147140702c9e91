package admin

import (
	"net/http"
	"time"

	"github.com/danmuck/echoctl/internal/echo"
	"github.com/danmuck/echoctl/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// StatsSource exposes connection-outcome counters for the /stats route.
type StatsSource interface {
	Stats() echo.Stats
}

// Plane is the optional HTTP ops surface. It runs on its own address and
// never touches per-connection state of the echo core.
type Plane struct {
	ID       string
	Addr     string
	Appeared time.Time

	router *gin.Engine
	stats  StatsSource
}

func Appear(id, addr string, stats StatsSource, corsOrigins []string) *Plane {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(id))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	return &Plane{
		ID:       id,
		Addr:     addr,
		Appeared: time.Now(),
		router:   r,
		stats:    stats,
	}
}

func (p *Plane) HTTPRouter() *gin.Engine {
	return p.router
}

func (p *Plane) RegisterRoutes() {
	p.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(p.Appeared).String(),
			"service": p.ID,
			"version": "0.0.1",
		})
	})

	p.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  time.Since(p.Appeared).String(),
			"service": p.ID,
			"version": "0.0.1",
		})
	})

	p.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	p.router.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": p.ID,
			"stats":   p.stats.Stats(),
		})
	})
}

func (p *Plane) Serve() error {
	p.RegisterRoutes()
	return p.router.Run(p.Addr)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
