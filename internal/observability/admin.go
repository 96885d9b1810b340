package observability

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	HealthPath  = "/health"
	MetricsPath = "/metrics"
)

// StatusFunc reports extra health fields.
type StatusFunc func() gin.H

// NewAdminRouter builds the health and metrics surface for a demo process.
func NewAdminRouter(node string, corsOrigins []string, logger zerolog.Logger, status StatusFunc) *gin.Engine {
	RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	startedAt := time.Now()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestObserver(node, logger))
	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	r.GET(HealthPath, func(c *gin.Context) {
		body := gin.H{
			"status":  "ok",
			"node":    node,
			"uptime":  time.Since(startedAt).String(),
			"service": "zmqkit",
		}
		if status != nil {
			for k, v := range status() {
				body[k] = v
			}
		}
		c.JSON(http.StatusOK, body)
	})
	r.GET(MetricsPath, gin.WrapH(promhttp.Handler()))
	return r
}
