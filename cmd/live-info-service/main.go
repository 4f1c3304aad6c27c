package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	liveinfo "github.com/jackhudsonnnn/p2picks-resolution-engine/internal/live-info/http"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/betrepo"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/gamestate"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/progress"
	sharedcache "github.com/jackhudsonnnn/p2picks-resolution-engine/internal/shared/cache"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/shared/config"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/shared/db"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/shared/logger"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/shared/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	repo := betrepo.NewPostgres(pg)
	store := progress.NewRedisStore(redisClient, cfg.ProgressTTL)
	provider := gamestate.NewRedisProvider(redisClient)

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           liveinfo.NewServer(log, repo, store, provider).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("live-info listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http serve", zap.Error(err))
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("live-info-service stopped")
}
