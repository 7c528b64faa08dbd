package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/princinho/urbanthreads/auth"
	"github.com/princinho/urbanthreads/checkout"
	"github.com/princinho/urbanthreads/config"
	"github.com/princinho/urbanthreads/controllers"
	"github.com/princinho/urbanthreads/database"
	"github.com/princinho/urbanthreads/shop"
	"github.com/princinho/urbanthreads/telemetry"
	"github.com/princinho/urbanthreads/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelExporter, cfg.OTelEndpoint, cfg.ServiceName)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	storage, users, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStorage()
	log.Printf("Storage driver: %s", cfg.StorageDriver)

	samples, err := shop.SampleProducts()
	if err != nil {
		log.Fatal(err)
	}
	catalog, err := shop.OpenCatalog(ctx, storage, samples)
	if err != nil {
		log.Fatal(err)
	}

	authService := auth.NewService(users, auth.Config{Secret: cfg.JWTSecret, AccessTTL: cfg.AccessTTL})
	if cfg.AdminPasswd != "" {
		if err := authService.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPasswd); err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("ADMIN_PASSWORD not set, skipping admin seeding")
	}

	images, closeImages, err := openImageStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeImages()

	app := &controllers.App{
		Sessions:         shop.NewSessions(catalog, storage, cfg.MaxSessions),
		Checkouts:        checkout.NewRegistry(cfg.MaxSessions, checkout.WithOrderDelay(cfg.OrderDelay)),
		Auth:             authService,
		Images:           images,
		ImageValidator:   utils.NewImageValidator(cfg.MaxUploadSizeMB),
		MaxProductImages: cfg.MaxProductImages,
		SuggestDelay:     cfg.SuggestDelay,
		SecureCookies:    cfg.SecureCookies,
	}
	origins := cfg.Origins()
	log.Printf("Allowed origins: %v", origins)
	router := controllers.NewRouter(app, controllers.RouterConfig{
		AllowedOrigins: origins,
		AdminEmail:     cfg.AdminEmail,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           telemetry.Handler(router, cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}

// openStorage picks the key-value backend for snapshots. Accounts are kept in
// the same backend; only the memory driver loses them on restart.
func openStorage(ctx context.Context, cfg *config.Config) (database.LocalStorage, auth.UserStore, func(), error) {
	switch cfg.StorageDriver {
	case "mongo":
		client, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, nil, err
		}
		users := database.NewMongoUsers(client.Database(cfg.DatabaseName))
		if err := users.EnsureIndexes(ctx); err != nil {
			return nil, nil, nil, err
		}
		storage := database.NewMongoStorage(database.OpenCollection(client, cfg.DatabaseName, "local_storage"))
		return storage, users, func() { _ = client.Disconnect(context.Background()) }, nil
	case "redis":
		storage, err := database.NewRedisStorage(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, nil, err
		}
		return storage, storage.Users(), closer(storage), nil
	case "sqlite":
		storage, err := database.OpenSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		users, err := storage.Users(ctx)
		if err != nil {
			_ = storage.Close()
			return nil, nil, nil, err
		}
		return storage, users, closer(storage), nil
	default:
		return database.NewMemoryStorage(), auth.NewMemoryUserStore(), func() {}, nil
	}
}

func openImageStore(ctx context.Context, cfg *config.Config) (utils.ImageStore, func(), error) {
	switch cfg.ImageStore {
	case "r2":
		r2, err := utils.NewR2Client(ctx, utils.R2Config{
			Bucket:       cfg.R2Bucket,
			AccessKey:    cfg.R2AccessKeyID,
			SecretKey:    cfg.R2SecretAccessKey,
			Endpoint:     cfg.R2Endpoint,
			PublicDomain: cfg.R2PublicDomain,
		})
		if err != nil {
			return nil, nil, err
		}
		return r2, func() {}, nil
	case "gcs":
		gcs, err := utils.NewGCSStore(ctx, cfg.GCSBucket, cfg.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return gcs, closer(gcs), nil
	default:
		return utils.NoImageStore{}, func() {}, nil
	}
}

func closer(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Printf("close: %v", err)
		}
	}
}
