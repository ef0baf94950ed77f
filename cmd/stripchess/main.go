package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/park285/stripchess/internal/adminhttp"
	"github.com/park285/stripchess/internal/archive"
	appcfg "github.com/park285/stripchess/internal/config"
	"github.com/park285/stripchess/internal/msgcat"
	"github.com/park285/stripchess/internal/obslog"
	"github.com/park285/stripchess/internal/protocol"
	"github.com/park285/stripchess/internal/session"
	"go.uber.org/zap"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := session.Options{
		TimeControl: cfg.TimeControl,
		GamesDir:    cfg.GamesDir,
		Logger:      obslog.Named("session"),
	}

	var store *session.RedisStore
	if cfg.RedisURL != "" {
		store, err = session.DialRedisStore(ctx, cfg.RedisURL, time.Duration(cfg.SessionTTLSec)*time.Second)
		if err != nil {
			log.Fatalf("redis init error: %v", err)
		}
		defer func() { _ = store.Close() }()
		opts.Store = store
	}

	var games adminhttp.GameLister
	if cfg.DatabaseURL != "" {
		repo, err := archive.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("archive init error: %v", err)
		}
		defer func() { _ = repo.Close() }()
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("archive schema error: %v", err)
		}
		opts.Archive = repo
		games = repo
	} else {
		mem := archive.NewMemory()
		opts.Archive = mem
		games = mem
	}

	ctrl := session.NewController(opts)
	if restored, err := ctrl.Restore(ctx); err != nil {
		logger.Warn("session_restore_skipped", zap.Error(err))
	} else if !restored {
		logger.Info("session_new", zap.String("session_id", ctrl.Snapshot().ID))
	}

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		log.Fatalf("messages init error: %v", err)
	}

	responder := &protocol.DialResponder{Addr: cfg.ResponseAddr, DialTimeout: cfg.DialTimeout}
	plog := obslog.Named("protocol")
	srv := protocol.NewServer(protocol.NewHandler(ctrl, responder, plog), protocol.ServerOptions{
		BufferSize:  cfg.CommandBufferSize,
		ReadTimeout: cfg.ReadTimeout,
		Logger:      plog,
	})
	errCh := make(chan error, 2)
	go func() {
		if err := srv.ListenAndServe(ctx, cfg.CommandAddr); err != nil {
			errCh <- err
		}
	}()

	var admin *adminhttp.Server
	if cfg.AdminAddr != "" {
		aopts := adminhttp.Options{Catalog: cat, Logger: obslog.Named("admin"), Games: games}
		if store != nil {
			aopts.Records = store
		}
		admin = adminhttp.New(ctrl, aopts)
		go func() {
			if err := admin.ListenAndServe(cfg.AdminAddr); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown_signal")
	case err := <-errCh:
		logger.Error("listener_error", zap.Error(err))
	}
	stop()

	if admin != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := admin.Shutdown(sctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("admin_shutdown_error", zap.Error(err))
		}
		cancel()
	}
}
