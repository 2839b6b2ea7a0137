package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/config"
	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/database"
	httpapi "github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/http"
	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/logger"
	mqttbridge "github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/mqtt"
	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/repository"
	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/service"
	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "phms-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var kv store.KV = store.NewRedisKV(redisClient)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory token store", zap.Error(err))
		kv = store.NewMemoryKV()
	}
	resolver := service.NewTokenResolver(kv, log)

	// Dev bootstrap: DEV_TOKEN=<token>:<owner-uuid> provisions one
	// usable bearer token so the write path works without a full auth
	// service in front.
	if seed := os.Getenv("DEV_TOKEN"); seed != "" {
		if token, owner, ok := splitSeed(seed); ok {
			if err := resolver.RegisterToken(context.Background(), token, owner, 0); err != nil {
				log.Warn("Failed to seed dev token", zap.Error(err))
			}
		}
	}

	var db *sql.DB
	var repo repository.ReadingsRepository
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			repo = repository.NewPostgresReadingsRepo(db)
			log.Info("DB enabled for phms-data")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory store", zap.Error(err))
		}
	}
	if repo == nil {
		repo = repository.NewMemoryReadingsRepo()
	}

	ingest := service.NewIngestService(repo, log)
	query := service.NewQueryService(repo, service.GuestReadPolicy(cfg.GuestReadPolicy), log)

	sim := service.NewSimulator()
	var upstream service.UpstreamFeeds
	if cfg.Upstream.ChannelID != "" {
		upstream = service.NewThingSpeakClient(cfg.Upstream.BaseURL, cfg.Upstream.ChannelID, cfg.Upstream.ReadKey, log)
	}
	live := service.NewLiveFeedService(upstream, sim, log)

	handler := httpapi.NewSensorDataHandler(ingest, query, live, resolver, log)
	router := httpapi.NewRouter(log)
	router.RegisterSensorDataRoutes(handler)

	var mqttClient *mqttbridge.Client
	if cfg.MQTT.Enabled {
		bridge := mqttbridge.NewDeviceBridge(ingest, resolver, log)
		if c, err := mqttbridge.NewClient(&cfg.MQTT, log); err == nil {
			mqttClient = c
			if err := c.Subscribe(cfg.MQTT.Topic, cfg.MQTT.QoS, bridge.HandleMessage); err != nil {
				log.Warn("MQTT subscribe failed", zap.Error(err))
			}
		} else {
			log.Warn("MQTT enabled but connection failed", zap.Error(err))
		}
	}

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		log.Error("HTTP server exited", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if mqttClient != nil {
		mqttClient.Close()
	}
	_ = redisClient.Close()
	if db != nil {
		_ = db.Close()
	}
}

func splitSeed(seed string) (token, owner string, ok bool) {
	for i := 0; i < len(seed); i++ {
		if seed[i] == ':' {
			return seed[:i], seed[i+1:], i > 0 && i < len(seed)-1
		}
	}
	return "", "", false
}
