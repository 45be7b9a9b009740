package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JoeShih716/go-k8s-score-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-score-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-score-server/internal/core/room"
	"github.com/JoeShih716/go-k8s-score-server/internal/engine"
	"github.com/JoeShih716/go-k8s-score-server/pkg/wss"
)

// Config 一局 Session 的啟動參數
type Config struct {
	SessionID     string // 空值時自動產生 UUID
	Host          string // 綁定的 host，空值代表所有介面
	Port          int    // 0 代表由系統分配 (測試用)
	AdvertiseHost string // 對外公告的 host，空值時使用 Host
	Goal          int

	QueueSize    int
	FeedCapacity int

	ReapInterval time.Duration
	IdleTimeout  time.Duration

	WSS *wss.Config
}

// Deps Session 的外部依賴
type Deps struct {
	Directory ports.SessionDirectory // 可為 nil
	Logger    *slog.Logger
}

// Supervisor 管理一局遊戲的完整生命週期：
// listener、accept loop、Actor、閒置回收，以及所有連線的 Bridge。
type Supervisor struct {
	id        string
	port      int
	addr      string
	endpoint  string
	goal      int
	createdAt time.Time

	cfg    Config
	deps   Deps
	logger *slog.Logger

	actor    *engine.Actor
	listener net.Listener
	httpSrv  *http.Server

	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	stopping bool
	reason   string
	bridges  sync.WaitGroup
}

// 確保 Supervisor 實現了 room.SessionHandle 介面
var _ room.SessionHandle = (*Supervisor)(nil)

// Start 綁定 Port 並啟動一局 Session
// 綁定失敗時直接回傳錯誤，不會留下任何 goroutine。
//
// 參數:
//
//	ctx: context.Context - 父 context，取消時 Session 結束
//	cfg: Config - 啟動參數
//	deps: Deps - 外部依賴
//
// 回傳值:
//
//	*Supervisor: 執行中的 Session
//	error: 綁定失敗時回傳
func Start(ctx context.Context, cfg Config, deps Deps) (*Supervisor, error) {
	if cfg.ReapInterval <= 0 {
		cfg.ReapInterval = DefaultReapInterval
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.New().String()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	lis, err := net.Listen("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
	if err != nil {
		return nil, fmt.Errorf("bind session port %d: %w", cfg.Port, err)
	}
	port := lis.Addr().(*net.TCPAddr).Port

	advertise := cfg.AdvertiseHost
	if advertise == "" {
		advertise = cfg.Host
	}
	if advertise == "" {
		advertise = "localhost"
	}

	logger := deps.Logger.With("component", "session", "session_id", cfg.SessionID, "port", port)
	sctx, cancel := context.WithCancel(ctx)

	s := &Supervisor{
		id:        cfg.SessionID,
		port:      port,
		addr:      lis.Addr().String(),
		endpoint:  net.JoinHostPort(advertise, strconv.Itoa(port)),
		goal:      cfg.Goal,
		createdAt: time.Now(),
		cfg:       cfg,
		deps:      deps,
		logger:    logger,
		actor: engine.NewActor(cfg.Goal, engine.Options{
			QueueSize:    cfg.QueueSize,
			FeedCapacity: cfg.FeedCapacity,
		}, logger),
		listener: lis,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	s.httpSrv = &http.Server{
		Handler:           wss.NewServer(cfg.WSS, func(conn *wss.Conn) { s.handleConn(sctx, conn) }, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(sctx)
	g.Go(func() error {
		return s.actor.Run(gctx)
	})
	g.Go(func() error {
		if err := s.httpSrv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve session: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		s.reap(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// http.Server.Close 不會關閉已 Hijack 的 WebSocket，Bridge 會自行隨 ctx 關閉
		return s.httpSrv.Close()
	})

	go s.wait(ctx, g)

	logger.Info("Session started", "goal", cfg.Goal, "endpoint", s.endpoint)
	return s, nil
}

func (s *Supervisor) wait(parent context.Context, g *errgroup.Group) {
	err := g.Wait()

	s.mu.Lock()
	s.stopping = true
	s.mu.Unlock()
	s.bridges.Wait()

	switch {
	case err != nil:
		s.logger.Error("Session failed", "error", err)
		s.setReason(domain.CloseReasonFailed)
	case parent.Err() != nil:
		s.setReason(domain.CloseReasonShutdown)
	default:
		s.setReason(domain.CloseReasonStopped)
	}
	s.cancel()

	s.logger.Info("Session closed", "reason", s.Reason(), "peak_players", s.actor.PeakPlayers())
	close(s.done)
}

func (s *Supervisor) handleConn(ctx context.Context, conn *wss.Conn) {
	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()
		return
	}
	s.bridges.Add(1)
	s.mu.Unlock()
	defer s.bridges.Done()

	if err := NewBridge(conn, s.actor, s.logger).Serve(ctx); err != nil {
		s.logger.Warn("Connection closed with error", "addr", conn.RemoteAddr(), "error", err)
		return
	}
	s.logger.Debug("Connection closed", "addr", conn.RemoteAddr())
}

// reap 定期取樣玩家數，閒置超過 IdleTimeout 時結束 Session
func (s *Supervisor) reap(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.ReapInterval)
	defer ticker.Stop()

	tracker := newIdleTracker(s.cfg.IdleTimeout, s.createdAt)
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			players := s.actor.Players()
			s.heartbeat(ctx, players)
			if tracker.observe(players, now) {
				s.logger.Info("Session idle, shutting down", "idle_timeout", s.cfg.IdleTimeout)
				s.finish(domain.CloseReasonIdle)
				return
			}
		}
	}
}

func (s *Supervisor) heartbeat(ctx context.Context, players int) {
	if s.deps.Directory == nil {
		return
	}
	if err := s.deps.Directory.Heartbeat(ctx, s.id, players); err != nil && ctx.Err() == nil {
		s.logger.Warn("Session heartbeat failed", "error", err)
	}
}

func (s *Supervisor) finish(reason string) {
	s.setReason(reason)
	s.cancel()
}

// setReason 只保留第一個結束原因
func (s *Supervisor) setReason(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reason == "" {
		s.reason = reason
	}
}

// ID 回傳 Session ID
func (s *Supervisor) ID() string { return s.id }

// Port 回傳綁定的 Port
func (s *Supervisor) Port() int { return s.port }

// Addr 回傳 listener 的實際位址
func (s *Supervisor) Addr() string { return s.addr }

// Endpoint 回傳對外公告的 host:port
func (s *Supervisor) Endpoint() string { return s.endpoint }

// Goal 回傳目標分數
func (s *Supervisor) Goal() int { return s.goal }

// CreatedAt 回傳建立時間
func (s *Supervisor) CreatedAt() time.Time { return s.createdAt }

// Players 回傳目前玩家數
func (s *Supervisor) Players() int { return s.actor.Players() }

// PeakPlayers 回傳最高同時在線玩家數
func (s *Supervisor) PeakPlayers() int { return s.actor.PeakPlayers() }

// Done 在所有 goroutine 結束後關閉
func (s *Supervisor) Done() <-chan struct{} { return s.done }

// Reason 回傳結束原因
func (s *Supervisor) Reason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Stop 要求 Session 結束
func (s *Supervisor) Stop() {
	s.finish(domain.CloseReasonStopped)
}
