package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/betrepo"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/engine"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/feed"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/gamestate"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/modes"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/progress"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/resolution/wash"
	sharedcache "github.com/jackhudsonnnn/p2picks-resolution-engine/internal/shared/cache"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/shared/config"
	"github.com/jackhudsonnnn/p2picks-resolution-engine/internal/shared/db"
	sharedkafka "github.com/jackhudsonnnn/p2picks-resolution-engine/internal/shared/kafka"
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

	// Dependências compartilhadas: Postgres (apostas) e Redis (progresso + snapshots)
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
	washer := wash.NewService(log, repo, store)

	// Métricas Prometheus compartilhadas entre os kernels (label por modo)
	evaluated := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "resolution_evaluations_total", Help: "avaliações de apostas concluídas"}, []string{"mode"})
	resolved := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "resolution_outcomes_total", Help: "resoluções commitadas"}, []string{"mode"})
	washed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "resolution_washes_total", Help: "apostas anuladas por motivo"}, []string{"mode", "reason"})
	baselines := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "resolution_baselines_total", Help: "baselines capturados"}, []string{"mode"})
	coalesced := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "resolution_coalesced_updates_total", Help: "updates colapsados no mesmo passe"}, []string{"mode"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "resolution_errors_total", Help: "erros por estágio"}, []string{"mode", "stage"})
	prometheus.MustRegister(evaluated, resolved, washed, baselines, coalesced, errorsBy)

	// Servidor HTTP para métricas e health check
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Um kernel por modo, cada um com seus próprios readers Kafka (consumer
	// group independente: o change feed carrega todos os modos)
	var kernels []*engine.Kernel
	for _, modeKey := range cfg.ModeKeys {
		ev, err := modes.Get(modeKey)
		if err != nil {
			log.Fatal("unknown mode", zap.String("mode", modeKey), zap.Error(err))
		}

		group := cfg.ConsumerGroup + "-" + modeKey
		changes := feed.NewKafkaChangeFeed(sharedkafka.NewReader(cfg.KafkaBrokers, cfg.TopicWagerChanges, group))
		updates := feed.NewKafkaUpdateFeed(sharedkafka.NewReader(cfg.KafkaBrokers, cfg.TopicGameUpdates, group))

		k := engine.New(log, ev, repo, store, provider, washer, changes, updates, engine.Metrics{
			OnEvaluated: func() { evaluated.WithLabelValues(modeKey).Inc() },
			OnResolved:  func() { resolved.WithLabelValues(modeKey).Inc() },
			OnWashed:    func(reason string) { washed.WithLabelValues(modeKey, reason).Inc() },
			OnBaseline:  func() { baselines.WithLabelValues(modeKey).Inc() },
			OnCoalesced: func() { coalesced.WithLabelValues(modeKey).Inc() },
			OnError:     func(stage string) { errorsBy.WithLabelValues(modeKey, stage).Inc() },
		})

		if err := k.Start(ctx); err != nil {
			log.Fatal("kernel start", zap.String("mode", modeKey), zap.Error(err))
		}
		kernels = append(kernels, k)

		defer changes.Close()
		defer updates.Close()
	}

	// Varredura periódica de reconciliação além da sincronização de startup:
	// repara baselines perdidos por restart do Redis ou TTL expirado
	sched := cron.New()
	for _, k := range kernels {
		k := k
		if _, err := sched.AddFunc(cfg.ResyncSpec, func() {
			rctx, rcancel := context.WithTimeout(context.Background(), time.Minute)
			defer rcancel()
			if err := k.Resync(rctx); err != nil {
				log.Warn("scheduled resync failed", zap.Error(err))
			}
		}); err != nil {
			log.Fatal("cron schedule", zap.Error(err))
		}
	}
	sched.Start()
	defer sched.Stop()

	log.Info("resolution-worker started",
		zap.Strings("modes", cfg.ModeKeys),
		zap.String("changes", cfg.TopicWagerChanges),
		zap.String("updates", cfg.TopicGameUpdates),
	)

	<-ctx.Done()

	for _, k := range kernels {
		k.Stop()
	}
	log.Info("resolution-worker stopped")
}
