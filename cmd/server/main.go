package main

import (
	"context"
	"log"
	"time"

	"github.com/formforge/backend/internal/config"
	"github.com/formforge/backend/internal/entity"
	"github.com/formforge/backend/internal/server"
	"github.com/formforge/backend/pkg/database"
	"github.com/formforge/backend/pkg/response"
	"github.com/formforge/backend/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	response.SetDevMode(cfg.IsDevelopment())

	store := database.NewSupervisor(database.Options{
		DSN:         cfg.DatabaseURL,
		FallbackDSN: cfg.FallbackDatabaseURL,
		MaxAttempts: cfg.DBMaxAttempts,
		Backoff:     cfg.DBRetryBackoff,
	})
	if err := store.Connect(); err != nil {
		// The server still starts; repositories answer 503 until the retry
		// loop below gets a connection.
		log.Printf("database unavailable at startup: %v", err)
		go retryConnect(store)
	} else if err := migrate(store); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	deps := server.Deps{
		Store:       store,
		RedisClient: newRedisClient(cfg.RedisURL),
		MeiliClient: newMeiliClient(cfg),
	}

	avatars, err := storage.NewCloudinaryStorage(cfg.CloudinaryUploadFolder)
	if err != nil {
		log.Printf("cloudinary disabled: %v", err)
	} else {
		deps.Avatars = avatars
	}

	srv := server.NewServer(cfg, deps)
	log.Printf("listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func retryConnect(store *database.Supervisor) {
	for {
		time.Sleep(30 * time.Second)
		if err := store.Connect(); err != nil {
			log.Printf("database reconnect failed: %v", err)
			continue
		}
		if err := migrate(store); err != nil {
			log.Printf("migration after reconnect failed: %v", err)
		}
		return
	}
}

func migrate(store *database.Supervisor) error {
	db, err := store.DB()
	if err != nil {
		return err
	}
	return db.AutoMigrate(
		&entity.User{},
		&entity.Form{},
		&entity.Response{},
	)
}

func newRedisClient(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("REDIS_URL not set, public form caching disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, caching disabled: %v", err)
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unreachable, caching disabled: %v", err)
		return nil
	}
	return client
}

func newMeiliClient(cfg *config.Config) meilisearch.ServiceManager {
	if cfg.MeiliSearchHost == "" {
		log.Println("MEILISEARCH_HOST not set, form search disabled")
		return nil
	}
	return meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
}
