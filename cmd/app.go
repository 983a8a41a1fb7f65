package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"servicedesk/api"
	"servicedesk/config"
	"servicedesk/infrastructure/persistence/gormstore"
	"servicedesk/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// App HTTP 服务与可选的进程内 outbox worker
type App struct {
	config *config.Config
	router *api.Router
	server *http.Server
	worker *gormstore.OutboxWorker
	db     *gorm.DB
}

// Run 阻塞直到 ctx 取消或任一组件失败，随后优雅关闭
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening",
			zap.String("addr", a.server.Addr),
			zap.String("health", "/health"))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.worker != nil {
		g.Go(func() error {
			logger.Info("Outbox worker started",
				zap.Duration("poll_interval", a.config.Worker.PollInterval),
				zap.Int("batch_size", a.config.Worker.BatchSize))
			return a.worker.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.close()
	logger.Info("Server stopped")
	return err
}

func (a *App) close() {
	if a.db == nil {
		return
	}
	if err := gormstore.Close(a.db); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}
}

// Handler 供测试直接驱动路由
func (a *App) Handler() http.Handler {
	return a.router.GetEngine()
}
