package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gametracker/library-service/internal/app/library/catalog"
	"gametracker/library-service/internal/app/library/config"
	"gametracker/library-service/internal/app/library/entity"
	"gametracker/library-service/internal/app/library/handler"
	"gametracker/library-service/internal/app/library/infrastructure"
	"gametracker/library-service/internal/app/library/infrastructure/messaging"
	"gametracker/library-service/internal/app/library/processor"
	"gametracker/library-service/internal/app/library/query"
	"gametracker/library-service/internal/app/library/repository"
	"gametracker/library-service/internal/app/library/service"
	"gametracker/library-service/internal/app/library/store"
	"gametracker/pkg/logger"
)

const serviceName = "library-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Log.Level)

	if cfg.Log.LogstashAddr != "" {
		conn, err := logger.InitLogstash(cfg.Log.LogstashAddr, serviceName, cfg.Log.Level)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			defer conn.Close()
			logger.Info().Str("logstash_addr", cfg.Log.LogstashAddr).Msg("Connected to Logstash")
		}
	}

	seed, err := loadSeed(cfg.Library.SeedFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load seed catalog")
	}

	entityStore, err := store.NewEntityStore(seed, store.WithCurrentUser(cfg.Library.CurrentUserID))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize entity store")
	}
	facade := query.NewFacade(entityStore, cfg.Library.QueryLatency)
	logger.Info().
		Int("games", len(entityStore.ListGames())).
		Str("user_id", entityStore.CurrentUserID()).
		Dur("query_latency", facade.Latency()).
		Msg("Entity store ready")

	redisClient, err := repository.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")

	preferenceRepo := repository.NewPreferenceRepository(redisClient, cfg.Redis.KeyPrefix)
	reportRepo := repository.NewReportRepository(redisClient, cfg.Redis.KeyPrefix, cfg.Report.TTL)
	preferenceService := service.NewPreferenceService(preferenceRepo)
	reportService := service.NewReportService(entityStore, reportRepo)

	publisher := newPublisher(cfg.Kafka)
	defer publisher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	forwarder := service.NewEventForwarder(entityStore, publisher, cfg.Library.EventBuffer)
	if err := forwarder.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start event forwarder")
	}

	scheduler := processor.NewCronScheduler(reportService)
	if err := scheduler.Start(ctx, cfg.Report.Schedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}

	theme, err := preferenceService.Theme(ctx, entityStore.CurrentUserID())
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load theme preference, using default")
		theme = service.DefaultTheme
	}
	logger.Info().Str("theme", string(theme)).Msg("Theme preference loaded")

	facade.GetGames(ctx).OnComplete(func(games []entity.Game) {
		event := logger.Info().
			Int("games", len(games)).
			Strs("genres", catalog.Genres(games))
		if ranked := catalog.FilterGames(games, catalog.Filter{SortBy: catalog.SortByRating}); len(ranked) > 0 {
			event = event.Str("top_rated", ranked[0].Title)
		}
		event.Msg("Catalog loaded")
	})

	unsubscribeLibrary := watchLibrary(entityStore)
	defer unsubscribeLibrary()

	healthHandler := handler.NewHealthCheckHandler(redisClient, entityStore)
	router := handler.SetupRoutes(healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Library Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Library Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	scheduler.Stop()
	forwarder.Stop()
	cancel()

	logger.Info().Msg("Library Service stopped gracefully")
}

func loadSeed(path string) (store.Seed, error) {
	if path == "" {
		return store.DefaultSeed()
	}
	logger.Info().Str("path", path).Msg("Loading seed catalog from file")
	return store.LoadSeedFile(path)
}

func newPublisher(cfg config.KafkaConfig) infrastructure.MessagePublisher {
	if !cfg.Enabled {
		logger.Info().Msg("Kafka disabled, review events are written to the log")
		return messaging.NewLogPublisher()
	}

	producer := messaging.NewKafkaProducer(messaging.ProducerConfig{
		Brokers:         cfg.Brokers,
		Topic:           cfg.Topic,
		WriteTimeout:    cfg.WriteTimeout,
		AutoCreateTopic: cfg.AutoCreateTopic,
	})
	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("Initialized Kafka producer")
	return producer
}

// watchLibrary пишет в журнал состав библиотеки после каждого изменения статусов
func watchLibrary(s *store.EntityStore) func() {
	userID := s.CurrentUserID()
	return s.SubscribeStatuses(func(statuses []entity.StatusEntry) {
		mine := make([]entity.StatusEntry, 0, len(statuses))
		for _, st := range statuses {
			if st.UserID == userID {
				mine = append(mine, st)
			}
		}
		grouped := catalog.GroupByStatus(s.ListGames(), mine)
		event := logger.Debug()
		for _, status := range entity.PlayStatuses {
			event = event.Int(string(status), len(grouped[status]))
		}
		event.Msg("Library updated")
	})
}
