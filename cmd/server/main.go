package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/eduplay/internal/api"
	"github.com/vytor/eduplay/internal/config"
	"github.com/vytor/eduplay/internal/db"
	"github.com/vytor/eduplay/internal/jobs"
	"github.com/vytor/eduplay/internal/logger"
	"github.com/vytor/eduplay/internal/pdfservice"
	"github.com/vytor/eduplay/internal/quiz"
	"github.com/vytor/eduplay/internal/repository/sqlite"
	"github.com/vytor/eduplay/internal/services"
	"github.com/vytor/eduplay/internal/storage"
	"github.com/vytor/eduplay/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("EduPlay Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("pdf_service_url=%s", cfg.PDFServiceURL)
	log.Debug("storage_backend=%s", cfg.StorageBackend)
	log.Debug("tab_storage_ttl=%s", cfg.TabStorageTTL)
	log.Debug("session_ttl=%s", cfg.SessionTTL)
	log.Debug("worker_count=%d", cfg.WorkerCount)
	log.Debug("queue_size=%d", cfg.QueueSize)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tab storage. Only the SQLite table needs an explicit purge; Redis
	// expires keys itself and memory dies with the process.
	var (
		tabStore storage.Store
		purger   worker.TabPurger
	)
	switch cfg.StorageBackend {
	case config.StorageRedis:
		client, err := storage.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Error("failed to connect to redis at %s: %v", cfg.RedisAddr, err)
			os.Exit(1)
		}
		defer client.Close()
		tabStore = storage.NewRedisStore(client, cfg.TabStorageTTL)
	case config.StorageMemory:
		tabStore = storage.NewMemory()
	default:
		tabRepo := sqlite.NewTabStorageRepository(database.DB)
		tabStore = tabRepo
		purger = tabRepo
	}
	log.Info("tab storage backend: %s", cfg.StorageBackend)

	pdfClient := pdfservice.New(cfg.PDFServiceURL, pdfservice.WithTimeout(cfg.PDFServiceTimeout))
	exportService := services.NewExportService(pdfClient)

	pool := worker.NewPool(cfg.WorkerCount, cfg.QueueSize)
	resultRepo := sqlite.NewResultRepository(database.DB)
	jobQueue := jobs.NewWorkerQueue(pool, resultRepo, purger, exportService, cfg.TabStorageTTL)

	quizService := services.NewQuizService(
		quiz.NewGenerator(quiz.NewSeededRand(0)), cfg.QuestionsPerSession, jobQueue)

	srv := &api.Server{
		QuizService: quizService,
		PrintableService: services.NewPrintableService(
			tabStore, quiz.NewPrintableGenerator(quiz.NewSeededRand(0)), exportService,
			services.PrintableConfig{
				WatermarkPath: cfg.WatermarkPath,
				PublicOrigin:  cfg.PublicOrigin,
			}),
		ExportService: exportService,
		ResultService: services.NewResultService(resultRepo),
		Jobs:          jobQueue,
		DB:            database,
		PublicOrigin:  cfg.PublicOrigin,
		AssetsDir:     cfg.AssetsDir,
	}

	pool.Start(ctx)
	go schedulePurge(ctx, jobQueue, purgeTargets{
		sessions:   quizService,
		sessionTTL: cfg.SessionTTL,
		tabs:       purger != nil,
	}, cfg.PurgeInterval)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Workers must exit before the deferred database close.
	log.Debug("stopping worker pool")
	pool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("EduPlay Server Stopped")
	log.Info("===========================================")
}

type purgeTargets struct {
	sessions   worker.SessionPurger
	sessionTTL time.Duration
	// tabs is set when the tab storage backend needs explicit purging.
	tabs bool
}

// schedulePurge enqueues the idle session purge, and the tab storage purge
// when needed, every interval until ctx ends.
func schedulePurge(ctx context.Context, queue jobs.JobQueue, targets purgeTargets, interval time.Duration) {
	log := logger.Default().WithPrefix("purge")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := queue.EnqueueSessionPurge(targets.sessions, targets.sessionTTL); err != nil {
				log.Warn("failed to enqueue session purge: %v", err)
			}
			if !targets.tabs {
				continue
			}
			if err := queue.EnqueuePurge(); err != nil {
				log.Warn("failed to enqueue tab storage purge: %v", err)
			}
		}
	}
}
