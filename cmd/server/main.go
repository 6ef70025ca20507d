// Command server runs the geovote vote-ingestion service: the voting API,
// the fraud review workbench, and the realtime result stream.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"geovote/internal/aggregate"
	aggregatemetrics "geovote/internal/aggregate/metrics"
	"geovote/internal/auth"
	"geovote/internal/challenge"
	"geovote/internal/fraud"
	fraudhandler "geovote/internal/fraud/handler"
	fraudmetrics "geovote/internal/fraud/metrics"
	"geovote/internal/identity"
	"geovote/internal/iplookup"
	"geovote/internal/match"
	"geovote/internal/pattern"
	"geovote/internal/platform/config"
	"geovote/internal/platform/httpserver"
	"geovote/internal/platform/logger"
	platformmetrics "geovote/internal/platform/metrics"
	"geovote/internal/platform/postgres"
	platformredis "geovote/internal/platform/redis"
	ratelimitmetrics "geovote/internal/ratelimit/metrics"
	ratelimitmw "geovote/internal/ratelimit/middleware"
	ratelimitservice "geovote/internal/ratelimit/service"
	memorystore "geovote/internal/ratelimit/store/memory"
	redisstore "geovote/internal/ratelimit/store/redis"
	"geovote/internal/realtime"
	realtimemetrics "geovote/internal/realtime/metrics"
	transporthttp "geovote/internal/transport/http"
	"geovote/internal/vote"
	votehandler "geovote/internal/vote/handler"
	votemetrics "geovote/internal/vote/metrics"
	"geovote/pkg/requestcontext"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Durable store. Voting cannot run without it: aggregates, votes,
	// fraud events and match rows all live here.
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if pool == nil {
		return errors.New("DATABASE_URL is required")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	// Counting store. Optional: without Redis the limiter and tracker run
	// on in-process state and the read cache is disabled, which is fine
	// for a single instance and for development.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		log.Warn("redis not configured, using in-memory counting stores")
	}

	hasher, err := identity.NewHasher(cfg.Identity.HashKey)
	if err != nil {
		return fmt.Errorf("identity: %w", err)
	}

	// Admission control.
	var counters ratelimitservice.CounterStore
	if redisClient != nil {
		counters = redisstore.New(redisClient.Client)
	} else {
		counters = memorystore.New()
	}
	limiter, err := ratelimitservice.New(counters,
		ratelimitservice.WithLogger(log),
		ratelimitservice.WithMetrics(ratelimitmetrics.New()),
	)
	if err != nil {
		return fmt.Errorf("ratelimit: %w", err)
	}

	// Pattern tracking.
	var patternStore pattern.Store
	if redisClient != nil {
		patternStore = pattern.NewRedisStore(redisClient.Client)
	} else {
		patternStore = pattern.NewInMemoryStore()
	}
	tracker, err := pattern.NewTracker(patternStore, pattern.WithLogger(log))
	if err != nil {
		return fmt.Errorf("pattern: %w", err)
	}

	// IP enrichment, optional.
	var resolver iplookup.Resolver
	if cfg.GeoIP.DBPath != "" {
		maxmind, err := iplookup.NewMaxMindResolver(cfg.GeoIP.DBPath)
		if err != nil {
			return fmt.Errorf("geoip: %w", err)
		}
		defer maxmind.Close()
		resolver = maxmind
	}

	// Fraud engine and its audit trail.
	fm := fraudmetrics.New()
	engineOpts := []fraud.EngineOption{
		fraud.WithLogger(log),
		fraud.WithMetrics(fm),
	}
	if resolver != nil {
		engineOpts = append(engineOpts, fraud.WithResolver(resolver))
	}
	engine, err := fraud.NewEngine(tracker, engineOpts...)
	if err != nil {
		return fmt.Errorf("fraud engine: %w", err)
	}

	var publisher fraud.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := fraud.NewKafkaPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	fraudService, err := fraud.NewService(engine, fraud.NewPostgresStore(pool), publisher, log, fm)
	if err != nil {
		return fmt.Errorf("fraud service: %w", err)
	}

	// Aggregate counters behind the short-TTL cache.
	aggregateOpts := []aggregate.ServiceOption{
		aggregate.WithLogger(log),
		aggregate.WithMetrics(aggregatemetrics.New()),
	}
	if redisClient != nil {
		aggregateOpts = append(aggregateOpts, aggregate.WithCache(aggregate.NewRedisCache(redisClient.Client)))
	}
	aggregateService, err := aggregate.NewService(aggregate.NewPostgresStore(pool), aggregateOpts...)
	if err != nil {
		return fmt.Errorf("aggregate service: %w", err)
	}

	gate, err := match.NewGate(match.NewPostgresStore(pool), log)
	if err != nil {
		return fmt.Errorf("match gate: %w", err)
	}

	// Realtime fan-out.
	hub, err := realtime.NewHub(aggregateService,
		realtime.WithLogger(log),
		realtime.WithMetrics(realtimemetrics.New()),
		realtime.WithMaxConnsPerIP(cfg.Realtime.MaxConnsPerIP),
	)
	if err != nil {
		return fmt.Errorf("realtime hub: %w", err)
	}

	// The vote pipeline itself.
	pipelineOpts := []vote.Option{
		vote.WithLogger(log),
		vote.WithMetrics(votemetrics.New()),
		vote.WithBroadcaster(hub),
	}
	if cfg.Challenge.VerifyURL != "" {
		verifier, err := challenge.NewHTTPVerifier(cfg.Challenge.VerifyURL, cfg.Challenge.Secret,
			challenge.WithTimeout(cfg.Challenge.Timeout),
			challenge.WithLogger(log),
		)
		if err != nil {
			return fmt.Errorf("challenge: %w", err)
		}
		pipelineOpts = append(pipelineOpts, vote.WithVerifier(verifier))
	} else {
		log.Warn("challenge verifier not configured, verification-required matches will pass all tokens")
		pipelineOpts = append(pipelineOpts, vote.WithVerifier(challenge.AlwaysPass{}))
	}
	if resolver != nil {
		pipelineOpts = append(pipelineOpts, vote.WithResolver(resolver))
	}
	pipeline, err := vote.NewService(gate, limiter, hasher, tracker, fraudService, vote.NewPostgresStore(pool), aggregateService, pipelineOpts...)
	if err != nil {
		return fmt.Errorf("vote pipeline: %w", err)
	}

	jwtService := auth.NewJWTService(cfg.Auth.JWTSigningKey, "geovote", "geovote-review")

	apiLimiter := ratelimitmw.New(limiter, func(ctx context.Context) string {
		return hasher.HashIP(requestcontext.ClientIP(ctx))
	}, log)

	router := transporthttp.NewRouter(transporthttp.Deps{
		Logger:         log,
		Metrics:        platformmetrics.New(),
		TokenValidator: jwtService,
		VoteHandler:    votehandler.New(pipeline, aggregateService, log),
		FraudHandler:   fraudhandler.New(fraudService, log),
		WSHandler:      realtime.NewHandler(hub, log),
		APILimiter:     apiLimiter,
	})

	server := httpserver.New(cfg.HTTP.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		err := realtime.NewStatsWorker(hub, aggregateService, cfg.Realtime.StatsInterval, log).Run(groupCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	group.Go(func() error {
		if err := hub.Run(groupCtx); errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}
