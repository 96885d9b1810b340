package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danmuck/zmqkit/internal/config"
	"github.com/danmuck/zmqkit/internal/managed"
	"github.com/danmuck/zmqkit/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const adminShutdownTimeout = 2 * time.Second

// startAdmin serves health and metrics on cfg.Admin.Addr until the returned
// stop func runs. It is a no-op when no address is configured.
func startAdmin(g *errgroup.Group, cfg config.ZguideConfig, zctx *managed.Context) (stop func()) {
	if cfg.Admin.Addr == "" {
		return func() {}
	}
	router := observability.NewAdminRouter(cfg.Name, cfg.Admin.CorsOrigins, log.Logger, func() gin.H {
		return gin.H{
			"sockets": zctx.Len(),
			"closed":  zctx.Closed(),
		}
	})
	srv := &http.Server{
		Addr:              cfg.Admin.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Go(func() error {
		log.Info().Str("addr", cfg.Admin.Addr).Msg("admin listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), adminShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("admin shutdown failed")
		}
	}
}
