package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	config "github.com/maheshrc27/postflow-studio/configs"
	"github.com/maheshrc27/postflow-studio/internal/api"
	"github.com/maheshrc27/postflow-studio/internal/api/handlers"
	"github.com/maheshrc27/postflow-studio/internal/api/middleware"
	"github.com/maheshrc27/postflow-studio/internal/cache"
	job "github.com/maheshrc27/postflow-studio/internal/jobs"
	"github.com/maheshrc27/postflow-studio/internal/remote"
	"github.com/maheshrc27/postflow-studio/internal/repository"
	"github.com/maheshrc27/postflow-studio/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	defaultZone, _ := time.LoadLocation(cfg.DefaultTimeZone)

	var rdb *redis.Client
	flash := cache.NewMemoryFlashStore()
	if cfg.RedisURI != "" {
		rdb, err = cache.NewRedisClient(context.Background(), cfg.RedisURI)
		if err != nil {
			log.Fatalf("Redis is unreachable: %v", err)
		}
		flash = cache.NewRedisFlashStore(rdb)
	}

	client := remote.NewClient(remote.Options{
		BaseURL:   cfg.APIBaseURL,
		UploadURL: cfg.Storage.UploadURL,
		Timeout:   cfg.RequestTimeout,
	})

	app := api.NewApp()

	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + handlers.HeaderTimeZone,
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(client)
	postRepo := repository.NewPostRepository(client)
	socialAccountRepo := repository.NewSocialAccountRepository(client)
	mediaAssetRepo := repository.NewMediaAssetRepository()
	subscriptionRepo := repository.NewSubscriptionRepository(client)
	collectionRepo := repository.NewCollectionRepository(client)

	gate := service.NewConfirmGate(cfg.ConfirmTTL)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo, collectionRepo)
	platformService := service.NewPlatformService(socialAccountRepo, gate)
	callbackService := service.NewCallbackService(flash)
	mediaService := service.NewMediaService(client, mediaAssetRepo, cfg.Storage.Folder, cfg.UploadConcurrency)
	postService := service.NewPostService(postRepo, gate)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo)
	dispatcher := service.NewPublishDispatcher(service.DefaultPublishers(client)...)

	drafts := service.NewDraftRegistry(service.ComposerDeps{
		Media:       mediaService,
		Dispatcher:  dispatcher,
		Schedule:    postService,
		Billing:     subscriptionService,
		DefaultZone: defaultZone,
	}, cfg.DraftIdleTTL)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	api.RegisterRoutes(app, api.Handlers{
		Auth:     handlers.NewAuthHandler(*cfg, authService),
		Platform: handlers.NewPlatformHandler(platformService, callbackService, *cfg),
		User:     handlers.NewUserHandler(userService, callbackService, subscriptionService),
		Media:    handlers.NewMediaHandler(mediaService),
		Draft:    handlers.NewDraftHandler(drafts, platformService, mediaService, *cfg),
		Post:     handlers.NewPostHandler(postService, *cfg),
	}, authMiddleware)

	// cron jobs
	sweepJob := job.NewSweepJob(map[string]job.Sweeper{
		"confirmations": job.SweeperFunc(func(context.Context) int { return gate.Sweep() }),
		"drafts":        drafts,
	})

	c := cron.New()
	if _, err := sweepJob.Schedule(c, cfg.SweepSchedule); err != nil {
		log.Fatalf("Invalid SWEEP_SCHEDULE %q: %v", cfg.SweepSchedule, err)
	}
	c.Start()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, c, rdb)
}

func closeRedis(rdb *redis.Client) {
	if rdb == nil {
		return
	}
	fmt.Fprint(os.Stdout, "Closing redis connection... ")
	if err := rdb.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close redis: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, c *cron.Cron, rdb *redis.Client) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	<-c.Stop().Done()
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeRedis(rdb)
	log.Println("Server shutdown complete.")
}
