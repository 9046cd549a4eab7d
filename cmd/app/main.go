package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/cruisebooking/api"
	"github.com/Domenick1991/cruisebooking/config"
	"github.com/Domenick1991/cruisebooking/internal/auth"
	"github.com/Domenick1991/cruisebooking/internal/bootstrap"
	"github.com/Domenick1991/cruisebooking/internal/cache"
	"github.com/Domenick1991/cruisebooking/internal/kafka"
	"github.com/Domenick1991/cruisebooking/internal/logging"
	"github.com/Domenick1991/cruisebooking/internal/media"
	"github.com/Domenick1991/cruisebooking/internal/seed"
	"github.com/Domenick1991/cruisebooking/internal/service/booking"
	"github.com/Domenick1991/cruisebooking/internal/service/cruises"
	"github.com/Domenick1991/cruisebooking/internal/service/users"
	"github.com/Domenick1991/cruisebooking/internal/ticket"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(os.Stdout, cfg.Log.Level).With("service", "cruisebooking")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer stores.Close()

	probes := map[string]bootstrap.Probe{}
	if stores.Ping != nil {
		probes["postgres"] = stores.Ping
	}

	var (
		revocations auth.RevocationStore = cache.NewMemoryRevocations()
		cruiseCache cruises.CruiseCache
	)
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Catalog.CacheTTL())
		revocations = redisCache
		cruiseCache = redisCache
		probes["redis"] = redisCache.Ping
	}

	bookingOpts := []booking.BookingServiceOption{booking.WithLogger(logger.With("component", "booking"))}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, logger.With("component", "kafka"))
		defer producer.Close()
		bookingOpts = append(bookingOpts, booking.WithEvents(producer, cfg.Kafka.BookingTopic, cfg.Kafka.NotificationsTopic))
		probes["kafka"] = producer.CheckConnection
	}

	var images api.ImageUploader
	if cfg.S3.Bucket != "" {
		store, err := media.NewImageStore(ctx, cfg.S3)
		if err != nil {
			log.Fatalf("init image storage: %v", err)
		}
		images = store
	}

	userService := users.NewUserService(stores.Users, logger.With("component", "users"))
	cruiseService := cruises.NewCruiseService(stores.Cruises, cruiseCache, logger.With("component", "cruises"))
	bookingService := booking.NewBookingService(stores.Bookings, stores.Cruises, bookingOpts...)

	if cfg.Seed.Enabled {
		if err := seed.Run(ctx, stores.Users, stores.Cruises, logger); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), revocations)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(logger.With("component", "http"), tokens.Identify,
		api.NewCruiseHandler(cruiseService, images),
		api.NewBookingHandler(bookingService),
		api.NewTicketHandler(bookingService, cruiseService, userService, ticket.NewRenderer(cfg.Auth.JWTSecret)),
		api.NewUserHandler(userService, tokens, api.NewRateLimiter(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.Burst)),
	)

	if err := bootstrap.Run(ctx, cfg, router, probes, logger); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
