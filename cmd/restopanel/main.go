// Package main запускает HTTP-сервер панели управления рестораном.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/restopanel-system/internal/backend"
	"github.com/mmeshcher/restopanel-system/internal/config"
	"github.com/mmeshcher/restopanel-system/internal/handler"
	"github.com/mmeshcher/restopanel-system/internal/middleware"
	"github.com/mmeshcher/restopanel-system/internal/service"
	"github.com/mmeshcher/restopanel-system/internal/session"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}
	if cfg.BackendAddress == "" {
		sugar.Fatalw("configuration error", "error", "backend address is required")
	}

	client := backend.NewClient(cfg.BackendAddress)
	sessions := session.NewStore()

	orders := service.NewOrders(client)
	menu := service.NewMenu(client)
	auth := service.NewAuth(client, sessions)
	staff := service.NewStaff(client)
	restaurants := service.NewRestaurants(client, sessions, logger)

	authMiddleware := middleware.NewAuthMiddleware(sessions)
	h := handler.NewHandler(orders, menu, auth, staff, restaurants, logger, authMiddleware)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Фоновая очистка просроченных сессий
	sessions.StartCleanup(ctx, time.Minute)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting restopanel server", "addr", cfg.RunAddress, "backend", cfg.BackendAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
