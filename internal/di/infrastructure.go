package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JoeShih716/go-k8s-score-server/internal/config"
	"github.com/JoeShih716/go-k8s-score-server/internal/core/ports"
	persistence "github.com/JoeShih716/go-k8s-score-server/internal/infrastructure/persistence/mysql"
	"github.com/JoeShih716/go-k8s-score-server/internal/infrastructure/noop"
	registry "github.com/JoeShih716/go-k8s-score-server/internal/infrastructure/service_discovery/redis"
	mysqlpkg "github.com/JoeShih716/go-k8s-score-server/pkg/mysql"
	pkgRedis "github.com/JoeShih716/go-k8s-score-server/pkg/redis"
)

// ProvideSessionDirectory 依設定建立 Session Directory
// redis.enabled 為 false 時回傳 noop 實作。
//
// 回傳值:
//
//	ports.SessionDirectory: Directory 實作
//	func(): 釋放資源
//	error: Redis 連線失敗時回傳
func ProvideSessionDirectory(ctx context.Context, cfg *config.Config) (ports.SessionDirectory, func(), error) {
	if !cfg.Redis.Enabled {
		slog.Info("Redis disabled, session directory not published")
		return noop.Directory{}, func() {}, nil
	}

	client, err := pkgRedis.NewClient(ctx, pkgRedis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("redis init failed: %w", err)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			slog.Warn("Failed to close redis client", "error", err)
		}
	}
	return registry.NewDirectory(client, cfg.Redis.LeaseTTL()), cleanup, nil
}

// ProvideSessionHistory 依設定建立 Session History 並建立資料表
// mysql.enabled 為 false 時回傳 noop 實作。
func ProvideSessionHistory(cfg *config.Config) (ports.SessionHistory, func(), error) {
	if !cfg.MySQL.Enabled {
		slog.Info("MySQL disabled, session history not recorded")
		return noop.History{}, func() {}, nil
	}

	client, err := mysqlpkg.NewClient(mysqlpkg.Config{
		Host:     cfg.MySQL.Host,
		Port:     cfg.MySQL.Port,
		User:     cfg.MySQL.User,
		Password: cfg.MySQL.Password,
		DBName:   cfg.MySQL.DBName,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("mysql init failed: %w", err)
	}

	repo := persistence.NewSessionRepository(client)
	if err := repo.Migrate(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("mysql migrate failed: %w", err)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			slog.Warn("Failed to close mysql client", "error", err)
		}
	}
	return repo, cleanup, nil
}
