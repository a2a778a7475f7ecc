// Package app wires configuration, storage and transport into a running store.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/aura-store/internal/api"
	"github.com/MikeMC777/aura-store/internal/auth"
	"github.com/MikeMC777/aura-store/internal/cart"
	"github.com/MikeMC777/aura-store/internal/config"
	"github.com/MikeMC777/aura-store/internal/db"
	"github.com/MikeMC777/aura-store/internal/healthsrv"
	"github.com/MikeMC777/aura-store/internal/media"
	"github.com/MikeMC777/aura-store/internal/order"
	"github.com/MikeMC777/aura-store/internal/product"
	"github.com/MikeMC777/aura-store/internal/user"
)

// Database is satisfied by *db.Postgres.
type Database interface {
	Conn() *pgxpool.Pool
	Close()
}

// Bootstrap holds the external connections Run makes before serving.
type Bootstrap struct {
	ConnectDB    func(ctx context.Context, dsn string) (Database, error)
	ConnectMedia func(ctx context.Context, cfg config.Cloudinary) (media.Store, error)
	Listen       func(network, addr string) (net.Listener, error)
}

// Production connects to PostgreSQL, Cloudinary and the OS network stack.
func Production() Bootstrap {
	return Bootstrap{
		ConnectDB: func(ctx context.Context, dsn string) (Database, error) {
			pg, err := db.Connect(ctx, dsn)
			if err != nil {
				return nil, err
			}
			return pg, nil
		},
		ConnectMedia: func(ctx context.Context, cfg config.Cloudinary) (media.Store, error) {
			c, err := media.Connect(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		Listen: net.Listen,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// cfg.ShutdownTimeout. Nothing is bound until the database and the image store
// are reachable.
func Run(ctx context.Context, cfg config.Config, b Bootstrap) error {
	database, err := b.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer database.Close()

	store, err := b.ConnectMedia(ctx, cfg.Cloudinary)
	if err != nil {
		return fmt.Errorf("image store: %w", err)
	}

	pool := database.Conn()
	products := product.NewPGRepo(pool)

	var ready atomic.Bool
	router, err := api.NewRouter(api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		TrustedProxies: cfg.TrustedProxies,
	}, api.Deps{
		Users:    user.NewService(user.NewPGRepo(pool), user.Admin{Email: cfg.AdminEmail, Password: cfg.AdminPassword}),
		Products: products,
		Carts:    cart.NewPGRepo(pool),
		Orders:   order.NewService(order.NewPGRepo(pool), products, cfg.DeliveryFee),
		Media:    store,
		Tokens:   auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL),
		Ready:    &ready,
	})
	if err != nil {
		return err
	}

	lis, err := b.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr(), err)
	}

	var health *healthsrv.Server
	if cfg.GRPCHealthAddr != "" {
		hl, err := b.Listen("tcp", cfg.GRPCHealthAddr)
		if err != nil {
			_ = lis.Close()
			return fmt.Errorf("listen %s: %w", cfg.GRPCHealthAddr, err)
		}
		health = healthsrv.New()
		go func() {
			if err := health.Serve(hl); err != nil {
				log.Error().Err(err).Msg("grpc health serve error")
			}
		}()
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", lis.Addr().String()).Msg("Server started")
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ready.Store(true)
	if health != nil {
		health.SetServing(true)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown requested")
	case serveErr = <-errCh:
		log.Error().Err(serveErr).Msg("http serve error")
	}

	ready.Store(false)
	if health != nil {
		health.SetServing(false)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(stopCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown timeout, closing connections")
		_ = srv.Close()
	}
	if health != nil {
		health.Stop(stopCtx)
	}
	log.Info().Msg("server stopped")
	return serveErr
}
