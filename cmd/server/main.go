package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formpulse/internal/cache"
	"formpulse/internal/config"
	"formpulse/internal/logger"
	"formpulse/internal/repository"
	"formpulse/internal/service"
	"formpulse/internal/transport/rest"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	cfg := config.Load()
	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	// External stores come up in any order in compose; retry the pings.
	pingMongo := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return mongoClient.Ping(pingCtx, nil)
	}
	if err := backoff.Retry(pingMongo, connectBackoff()); err != nil {
		log.WithError(err).Fatal("failed to ping MongoDB")
	}
	log.Info("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	pingRedis := func() error {
		_, err := rdb.Ping(ctx).Result()
		return err
	}
	if err := backoff.Retry(pingRedis, connectBackoff()); err != nil {
		log.WithError(err).Fatal("failed to ping Redis")
	}
	log.Info("connected to Redis")

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	formRepo := repository.NewFormRepo(db)
	responseRepo := repository.NewResponseRepo(db)

	// Initialize cache
	analyticsCache := cache.NewAnalyticsCache(cache.NewRedisStore(rdb), log)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	formSvc := service.NewFormService(formRepo, responseRepo, analyticsCache)
	responseSvc := service.NewResponseService(formRepo, responseRepo, analyticsCache)
	analyticsSvc := service.NewAnalyticsService(formRepo, responseRepo, analyticsCache)

	// Create router with container
	container := &rest.Container{
		AuthService:      authSvc,
		FormService:      formSvc,
		ResponseService:  responseSvc,
		AnalyticsService: analyticsSvc,
	}
	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("ListenAndServe")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}

func connectBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 30 * time.Second
	return b
}
