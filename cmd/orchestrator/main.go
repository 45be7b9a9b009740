package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"github.com/JoeShih716/go-k8s-score-server/internal/app/orchestrator"
	"github.com/JoeShih716/go-k8s-score-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-score-server/internal/di"
	"github.com/JoeShih716/go-k8s-score-server/internal/kit/bootstrap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. 初始化 App (載入 Config, Logger)
	app := bootstrap.NewApp("score-orchestrator")
	cfg := app.Config
	ctx := context.Background()

	slog.InfoContext(ctx, "Initializing dependencies concurrently...")

	// 2. 並行初始化資源 (Redis, MySQL)
	var (
		directory      ports.SessionDirectory
		history        ports.SessionHistory
		closeDirectory func()
		closeHistory   func()
	)
	initGroup, initCtx := errgroup.WithContext(ctx)
	initGroup.Go(func() error {
		var err error
		directory, closeDirectory, err = di.ProvideSessionDirectory(initCtx, cfg)
		return err
	})
	initGroup.Go(func() error {
		var err error
		history, closeHistory, err = di.ProvideSessionHistory(cfg)
		return err
	})
	if err := initGroup.Wait(); err != nil {
		slog.Error("Dependency initialization failed", "error", err)
		if closeDirectory != nil {
			closeDirectory()
		}
		if closeHistory != nil {
			closeHistory()
		}
		os.Exit(1)
	}

	// 3. 組裝 Orchestrator
	sessionsCtx, cancelSessions := context.WithCancel(ctx)
	poolSize := cfg.Game.PortRangeEnd - cfg.Game.PortRangeStart + 1
	health := orchestrator.NewHealth(poolSize)
	orch := di.ProvideOrchestrator(sessionsCtx, cfg, directory, history, health.SetCapacity, app.Logger)

	controlAddr := net.JoinHostPort(cfg.App.Host, strconv.Itoa(cfg.App.ControlPort))
	controlServer := &http.Server{
		Addr:              controlAddr,
		Handler:           orchestrator.NewHandler(orch, di.ProvideWSSConfig(cfg), app.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := grpc.NewServer(
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	)
	health.Register(grpcServer)
	reflection.Register(grpcServer)

	// 4. 啟動服務
	app.Run(func(runCtx context.Context) error {
		g, gctx := errgroup.WithContext(runCtx)

		g.Go(func() error {
			lis, err := net.Listen("tcp", controlAddr)
			if err != nil {
				return fmt.Errorf("failed to listen control port: %w", err)
			}
			slog.Info("Control endpoint listening", "addr", controlAddr,
				"ports", fmt.Sprintf("%d-%d", cfg.Game.PortRangeStart, cfg.Game.PortRangeEnd))
			if err := controlServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		if cfg.App.HealthPort > 0 {
			g.Go(func() error {
				healthAddr := net.JoinHostPort(cfg.App.Host, strconv.Itoa(cfg.App.HealthPort))
				lis, err := net.Listen("tcp", healthAddr)
				if err != nil {
					return fmt.Errorf("failed to listen health port: %w", err)
				}
				slog.Info("gRPC health listening", "addr", healthAddr)
				return grpcServer.Serve(lis)
			})
		}

		g.Go(func() error {
			orch.RunReclaimer(gctx)
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			grpcServer.GracefulStop()
			return controlServer.Shutdown(shutdownCtx)
		})

		return g.Wait()
	}, func() {
		health.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := orch.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Sessions did not stop in time", "error", err)
		}
		cancelSessions()

		closeDirectory()
		closeHistory()
	})
}
