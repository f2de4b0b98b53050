package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/application/analysis"
	"github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/config"
	domain "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/domain/analysis"
	aiopenai "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/infra/ai/openai"
	memorydb "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/infra/db/memory"
	mysqldb "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/infra/db/mysql"
	postgresdb "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/infra/db/postgres"
	"github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/infra/httpserver"
	minioStore "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/infra/storage"
	"github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// init repo
	var repo domain.Repository
	checkers := map[string]middleware.HealthChecker{}
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqldb.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		repo = mysqldb.NewAnalysisRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "postgres":
		db, err := postgresdb.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		repo = postgresdb.NewAnalysisRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "memory":
		repo = memorydb.NewAnalysisRepository()
	default:
		log.Fatalf("unknown database driver: %s", cfg.Database.Driver)
	}

	// init stats, warm up from existing records
	stats := appanalysis.NewStatsAggregator()
	if err := stats.Rebuild(ctx, repo); err != nil {
		log.Fatalf("stats rebuild error: %v", err)
	}

	// init image archive (optional)
	var archive appanalysis.ImageArchive
	if cfg.ArchiveEnabled() {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		archive = store
	}

	// init vision client
	if cfg.OpenAI.APIKey == "" {
		log.Fatalf("openai api key is not configured")
	}
	visionClient := aiopenai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)

	// init service
	svc := &appanalysis.Service{
		Repo:         repo,
		Vision:       visionClient,
		Stats:        stats,
		Archive:      archive,
		Clock:        appanalysis.SystemClock{},
		Retries:      cfg.Analysis.Retries,
		RetryBackoff: cfg.RetryBackoff(),
		ModelTimeout: cfg.ModelTimeout(),
	}

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(svc, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
