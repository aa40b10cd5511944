package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"docvault/internal/config"
	"docvault/internal/http"
	"docvault/internal/repository/postgres"
	"docvault/internal/search"
	"docvault/internal/service"
	"docvault/internal/storage/blob"
	"docvault/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Missing .env is fine; real deployments inject environment directly.
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("DEBUG") != "")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("service exited", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(ctx, &cfg.Database); err != nil {
		return err
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	blobs, err := blob.NewS3Store(&cfg.AWS)
	if err != nil {
		return err
	}

	index, err := search.NewElastic(&cfg.Search)
	if err != nil {
		return err
	}
	// Schema creation is best effort: a down engine degrades search
	// freshness, never startup.
	if err := index.EnsureSchema(ctx); err != nil {
		log.Warn("search schema setup failed", zap.Error(err))
	}

	indexer := service.NewIndexer(index, log, cfg.App.IndexQueueSize)
	defer indexer.Close()

	svc := service.NewFileService(
		postgres.NewFileRepository(db),
		postgres.NewVersionRepository(db),
		postgres.NewShareRepository(db),
		postgres.NewFolderRepository(db),
		blobs,
		index,
		indexer,
		log,
		cfg.App.MaxUploadSize,
	)

	server := http.NewServer(&http.ServerDependencies{
		Config:   cfg,
		Files:    svc,
		Versions: svc,
		Shares:   svc,
		Searcher: svc,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info("server started", zap.String("port", cfg.Server.Port))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
