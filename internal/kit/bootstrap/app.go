package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JoeShih716/go-k8s-score-server/internal/config"
)

// App 封裝了應用程式的基礎組件
type App struct {
	Name   string
	Config *config.Config
	Logger *slog.Logger
}

// NewApp 建立一個新的應用程式實例
//
// 1. 載入 .env (若存在)
// 2. 初始化 Default Logger
// 3. 載入 Config (config.yaml + Env Override)
func NewApp(appName string) *App {
	// 1. .env 只用於本機開發，檔案不存在時略過
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env", "error", err)
	}

	// 2. 初始化基礎 Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 3. 載入設定
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 4. 根據環境重新配置 Logger
	logger = slog.New(NewHandler(cfg.App.Env, os.Stdout)).With("app", appName)
	slog.SetDefault(logger) // 更新 Default Logger

	return &App{
		Name:   appName,
		Config: cfg,
		Logger: logger,
	}
}

// NewHandler 依執行環境選擇 slog Handler
// Production -> JSON (Structured Logging)
// Others     -> Text (Readable)
func NewHandler(env string, w io.Writer) slog.Handler {
	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(w, nil)
	case "dev", "local":
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	default:
		return slog.NewTextHandler(w, nil)
	}
}

// Run 啟動應用程式並等待停止信號
//
// startFunc: 啟動服務的邏輯 (Blocking operation)，收到停止信號時 ctx 會被取消
// cleanupFunc: 收到停止信號或啟動失敗後的清理邏輯
func (a *App) Run(startFunc func(ctx context.Context) error, cleanupFunc func()) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 背景啟動服務
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("Starting service", "env", a.Config.App.Env)
		errCh <- startFunc(ctx)
	}()

	// 等待停止信號或服務異常結束
	exitCode := 0
	select {
	case <-ctx.Done():
		a.Logger.Info("Shutting down service...")
		// startFunc 需在 ctx 取消後自行返回
		if err := <-errCh; err != nil {
			a.Logger.Warn("Service stopped with error", "error", err)
		}
	case err := <-errCh:
		if err != nil {
			a.Logger.Error("Service startup failed", "error", err)
			exitCode = 1
		}
	}
	stop()

	if cleanupFunc != nil {
		cleanupFunc()
	}
	a.Logger.Info("Service exited")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
