package main

import (
	"StudySync/internal/chat"
	"StudySync/internal/config"
	"StudySync/internal/handlers"
	"StudySync/internal/middleware"
	"StudySync/internal/repo"
	"StudySync/internal/repo/gormrepo"
	"StudySync/internal/repo/memory"
	"StudySync/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.NewConfig()

	// создаём регистратор zap с уровнем из конфигурации
	zcfg := zap.NewDevelopmentConfig()
	if lvl, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zcfg.Level = lvl
	}
	logger, err := zcfg.Build()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := openStorage(cfg)
	if err != nil {
		sugar.Fatalw("failed to initialize storage", "backend", cfg.StorageBackend, "error", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			sugar.Errorw("Failed to close storage", "error", err)
		}
	}()

	userService := service.NewUserService(store)
	h := handlers.NewHandler(handlers.Services{
		Users:     userService,
		Documents: service.NewDocumentService(store, userService, sugar),
		Decks:     service.NewDeckService(store, userService, sugar),
		Threads:   service.NewThreadService(store, userService),
		Chat:      service.NewChatService(chat.NewMatcher(chat.DefaultTable())),
	}, sugar, cfg)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sugar.Infow("Starting server",
		"addr", srv.Addr,
		"storage", cfg.StorageBackend,
		"EnableHTTPS", cfg.EnableHTTPS,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()
		sugar.Infow("Shutting down server")
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		sugar.Errorw("Server failed", "error", err)
	}
}

// openStorage выбирает хранилище; бэкенды не смешиваются во время работы.
func openStorage(cfg *config.Config) (repo.Storage, error) {
	if cfg.StorageBackend == config.BackendMemory {
		return memory.New(), nil
	}
	dsn := cfg.DatabaseDSN
	if dsn == "" {
		dsn = gormrepo.DefaultSQLiteDSN
	}
	s, err := gormrepo.Open(dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}
