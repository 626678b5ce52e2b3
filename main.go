package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"student-marks-go/config"
	"student-marks-go/db"
	"student-marks-go/handlers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: failed to load .env file: %v", err)
		log.Println("Continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	// The dataset is loaded once, before the server accepts connections
	dataset := db.LoadDataset(db.ResolveDataPath(cfg.DataFile))

	cache, closeCache := initializeCache(ctx, cfg)
	defer closeCache()

	apiHandler := handlers.NewAPIHandler(dataset, cache)
	router := handlers.NewRouter(apiHandler)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Starting server on %s", cfg.Server.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

// initializeCache connects to Redis when caching is enabled. The service runs
// without a cache when Redis is unreachable.
func initializeCache(ctx context.Context, cfg *config.Config) (*db.MarksCache, func()) {
	noop := func() {}
	if !cfg.Cache.Enabled {
		log.Println("Marks cache disabled by configuration")
		return nil, noop
	}

	client, err := db.InitializeRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Printf("Warning: %v. Continuing without marks cache.", err)
		return nil, noop
	}

	return db.NewMarksCache(client, cfg.Cache.Prefix, cfg.Cache.TTL), func() {
		if err := client.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
