package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/JoeShih716/go-k8s-score-server/internal/app/orchestrator"
	"github.com/JoeShih716/go-k8s-score-server/internal/app/session"
	"github.com/JoeShih716/go-k8s-score-server/internal/config"
	"github.com/JoeShih716/go-k8s-score-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-score-server/pkg/wss"
)

// ProvideWSSConfig 將設定檔轉換為 wss.Config
func ProvideWSSConfig(cfg *config.Config) *wss.Config {
	return &wss.Config{
		AllowedOrigins:  cfg.WSS.AllowedOrigins,
		ReadBufferSize:  cfg.WSS.ReadBufferSize,
		WriteBufferSize: cfg.WSS.WriteBufferSize,
		WriteWait:       time.Duration(cfg.WSS.WriteWaitSec) * time.Second,
		PongWait:        time.Duration(cfg.WSS.PongWaitSec) * time.Second,
		MaxMessageSize:  cfg.WSS.MaxMessageSize,
	}
}

// ProvideSessionConfig 回傳每局 Session 共用的啟動參數 (Port / ID / Goal 由 Orchestrator 填入)
func ProvideSessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		Host:          cfg.App.Host,
		AdvertiseHost: cfg.App.AdvertiseHost,
		QueueSize:     cfg.Game.MaxPlayers,
		FeedCapacity:  cfg.Game.FeedCapacity,
		ReapInterval:  cfg.Game.ReapInterval(),
		IdleTimeout:   cfg.Game.IdleTimeout(),
		WSS:           ProvideWSSConfig(cfg),
	}
}

// ProvideOrchestrator 組裝 Orchestrator
//
// 參數:
//
//	ctx: context.Context - 所有 Session 的父 context
//	cfg: *config.Config - 設定
//	dir: ports.SessionDirectory - Session 公告
//	hist: ports.SessionHistory - Session 紀錄
//	onCapacity: func(int) - 可用 Port 數變動時的通知 (可為 nil)
//	logger: *slog.Logger - 日誌
func ProvideOrchestrator(
	ctx context.Context,
	cfg *config.Config,
	dir ports.SessionDirectory,
	hist ports.SessionHistory,
	onCapacity func(int),
	logger *slog.Logger,
) *orchestrator.Orchestrator {
	advertise := cfg.App.AdvertiseHost
	if advertise == "" {
		advertise = "localhost"
	}

	return orchestrator.New(ctx, orchestrator.Config{
		DefaultGoal:     cfg.Game.DefaultGoal,
		AdvertiseHost:   advertise,
		ReclaimInterval: cfg.Game.ReclaimInterval(),
	}, orchestrator.Deps{
		Spawner: orchestrator.SupervisorSpawner{
			Base: ProvideSessionConfig(cfg),
			Deps: session.Deps{Directory: dir, Logger: logger},
		},
		Pool:       orchestrator.NewPortPool(cfg.Game.PortRangeStart, cfg.Game.PortRangeEnd),
		Directory:  dir,
		History:    hist,
		Logger:     logger,
		OnCapacity: onCapacity,
	})
}
