package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-k8s-score-server/internal/app/session"
	"github.com/JoeShih716/go-k8s-score-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-score-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-score-server/internal/core/room"
)

// ErrNoPortAvailable Port Pool 已用盡
var ErrNoPortAvailable = errors.New("no port available")

// SpawnRequest 建立 Session 所需的參數
type SpawnRequest struct {
	SessionID string
	Port      int
	Goal      int
}

// Spawner 負責實際啟動一局 Session (綁定 Port 並開始服務)
type Spawner interface {
	Spawn(ctx context.Context, req SpawnRequest) (room.SessionHandle, error)
}

// SpawnerFunc 讓一般函式實現 Spawner
type SpawnerFunc func(ctx context.Context, req SpawnRequest) (room.SessionHandle, error)

// Spawn 實現 Spawner 介面
func (f SpawnerFunc) Spawn(ctx context.Context, req SpawnRequest) (room.SessionHandle, error) {
	return f(ctx, req)
}

// SupervisorSpawner 以 session.Start 啟動 Session
type SupervisorSpawner struct {
	Base session.Config // Port / SessionID / Goal 之外的共用設定
	Deps session.Deps
}

// Spawn 實現 Spawner 介面
func (s SupervisorSpawner) Spawn(ctx context.Context, req SpawnRequest) (room.SessionHandle, error) {
	cfg := s.Base
	cfg.SessionID = req.SessionID
	cfg.Port = req.Port
	cfg.Goal = req.Goal
	return session.Start(ctx, cfg, s.Deps)
}

// Config Orchestrator 設定
type Config struct {
	DefaultGoal     int           // 請求未指定 goal 時使用
	AdvertiseHost   string        // 公告給 Client 的 host
	ReclaimInterval time.Duration // 定期回收的間隔，0 代表只在存取時回收
}

// Deps Orchestrator 的外部依賴
type Deps struct {
	Spawner   Spawner
	Pool      *PortPool
	Directory ports.SessionDirectory // 可為 nil
	History   ports.SessionHistory   // 可為 nil
	Logger    *slog.Logger

	// OnCapacity 在可用 Port 數變動後被呼叫 (鎖外)
	OnCapacity func(available int)
}

// Created CreateGame 的結果
type Created struct {
	SessionID string
	Port      int
	Goal      int
	Endpoint  string
}

// SessionInfo 一局執行中 Session 的摘要
type SessionInfo struct {
	SessionID string
	Port      int
	Goal      int
	Players   int
	Endpoint  string
	CreatedAt time.Time
}

type entry struct {
	port      int
	handle    room.SessionHandle
	endpoint  string
	createdAt time.Time
}

// Orchestrator 依需求建立 Session，並回收已結束 Session 的 Port。
// Port Pool 與 registry 只在 mu 保護下存取；Directory / History 等副作用在鎖外執行。
type Orchestrator struct {
	ctx    context.Context // Session 的父 context
	cfg    Config
	deps   Deps
	logger *slog.Logger

	mu       sync.Mutex
	pool     *PortPool
	sessions map[int]*entry

	notifyMu sync.Mutex // 序列化 OnCapacity，必須在 mu 之前取得
}

// New 建立 Orchestrator
//
// 參數:
//
//	ctx: context.Context - 所有 Session 的父 context，取消時全部 Session 結束
//	cfg: Config - 設定
//	deps: Deps - 外部依賴 (Spawner 與 Pool 為必要)
func New(ctx context.Context, cfg Config, deps Deps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Orchestrator{
		ctx:      ctx,
		cfg:      cfg,
		deps:     deps,
		logger:   deps.Logger.With("component", "orchestrator"),
		pool:     deps.Pool,
		sessions: make(map[int]*entry),
	}
}

// CreateGame 建立一局新的 Session
//
// 參數:
//
//	ctx: context.Context - 請求的 context (只用於 Directory / History 呼叫)
//	goal: int - 目標分數，<= 0 時使用 DefaultGoal
//
// 回傳值:
//
//	Created: 新 Session 的 Port 與 ID
//	error: Port 用盡時回傳 ErrNoPortAvailable；所有可用 Port 都綁定失敗時回傳最後一次的原因
func (o *Orchestrator) CreateGame(ctx context.Context, goal int) (Created, error) {
	if goal <= 0 {
		goal = o.cfg.DefaultGoal
	}

	o.mu.Lock()
	reclaimed := o.reclaimLocked()

	// 綁定失敗的 Port 會被降到 stack 底部，每個可用 Port 最多嘗試一次
	attempts := o.pool.Available()
	if attempts == 0 {
		o.mu.Unlock()
		o.afterReclaim(ctx, reclaimed)
		o.notifyCapacity()
		o.logger.Warn("CreateGame rejected: no port available")
		return Created{}, ErrNoPortAvailable
	}

	var (
		id     string
		port   int
		handle room.SessionHandle
		err    error
	)
	for i := 0; i < attempts; i++ {
		port, _ = o.pool.Acquire()
		id = uuid.New().String()
		handle, err = o.deps.Spawner.Spawn(o.ctx, SpawnRequest{SessionID: id, Port: port, Goal: goal})
		if err == nil {
			break
		}
		o.pool.Demote(port)
		o.logger.Error("Failed to spawn session", "port", port, "error", err)
		err = fmt.Errorf("spawn session on port %d: %w", port, err)
	}
	if err != nil {
		o.mu.Unlock()
		o.afterReclaim(ctx, reclaimed)
		o.notifyCapacity()
		return Created{}, err
	}

	// Spawner 可能使用自訂的 ID
	id = handle.ID()
	e := &entry{
		port:      port,
		handle:    handle,
		endpoint:  net.JoinHostPort(o.cfg.AdvertiseHost, strconv.Itoa(port)),
		createdAt: time.Now(),
	}
	o.sessions[port] = e
	available := o.pool.Available()
	o.mu.Unlock()

	o.afterReclaim(ctx, reclaimed)
	o.afterCreate(ctx, e, goal)
	o.notifyCapacity()

	o.logger.Info("Game created", "session_id", id, "port", port, "goal", goal, "available_ports", available)
	return Created{SessionID: id, Port: port, Goal: goal, Endpoint: e.endpoint}, nil
}

// Reclaim 移除已結束的 Session 並歸還 Port
//
// 回傳值:
//
//	int: 本次回收的 Session 數
func (o *Orchestrator) Reclaim() int {
	o.mu.Lock()
	reclaimed := o.reclaimLocked()
	o.mu.Unlock()

	if len(reclaimed) > 0 {
		o.afterReclaim(o.ctx, reclaimed)
		o.notifyCapacity()
	}
	return len(reclaimed)
}

// Sessions 列出執行中的 Session (依 Port 排序)
func (o *Orchestrator) Sessions() []SessionInfo {
	o.mu.Lock()
	reclaimed := o.reclaimLocked()
	infos := make([]SessionInfo, 0, len(o.sessions))
	for _, e := range o.sessions {
		infos = append(infos, SessionInfo{
			SessionID: e.handle.ID(),
			Port:      e.port,
			Goal:      e.handle.Goal(),
			Players:   e.handle.Players(),
			Endpoint:  e.endpoint,
			CreatedAt: e.createdAt,
		})
	}
	o.mu.Unlock()

	if len(reclaimed) > 0 {
		o.afterReclaim(o.ctx, reclaimed)
		o.notifyCapacity()
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Port < infos[j].Port })
	return infos
}

// Available 回傳目前可用的 Port 數
func (o *Orchestrator) Available() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pool.Available()
}

// RunReclaimer 定期回收已結束的 Session，直到 ctx 結束
// ReclaimInterval 為 0 時直接回傳。
func (o *Orchestrator) RunReclaimer(ctx context.Context) {
	if o.cfg.ReclaimInterval <= 0 {
		return
	}
	ticker := time.NewTicker(o.cfg.ReclaimInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := o.Reclaim(); n > 0 {
				o.logger.Debug("Periodic reclaim", "reclaimed", n)
			}
		}
	}
}

// Shutdown 停止所有 Session 並等待結束
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	handles := make([]room.SessionHandle, 0, len(o.sessions))
	for _, e := range o.sessions {
		handles = append(handles, e.handle)
	}
	o.mu.Unlock()

	for _, h := range handles {
		h.Stop()
	}
	for _, h := range handles {
		select {
		case <-h.Done():
		case <-ctx.Done():
			return fmt.Errorf("wait for session %s: %w", h.ID(), ctx.Err())
		}
	}

	// 記錄結束事件 (o.ctx 可能已取消，改用呼叫端的 ctx)
	o.mu.Lock()
	reclaimed := o.reclaimLocked()
	o.mu.Unlock()
	o.afterReclaim(ctx, reclaimed)

	o.logger.Info("All sessions stopped", "count", len(handles))
	return nil
}

// reclaimLocked 必須在持有 mu 時呼叫
func (o *Orchestrator) reclaimLocked() []*entry {
	var reclaimed []*entry
	for port, e := range o.sessions {
		if !room.Finished(e.handle) {
			continue
		}
		delete(o.sessions, port)
		o.pool.Release(port)
		reclaimed = append(reclaimed, e)
	}
	return reclaimed
}

func (o *Orchestrator) afterCreate(ctx context.Context, e *entry, goal int) {
	id := e.handle.ID()
	if o.deps.Directory != nil {
		lease := &domain.SessionLease{
			SessionID: id,
			Port:      e.port,
			Endpoint:  e.endpoint,
			Goal:      goal,
			CreatedAt: e.createdAt,
		}
		if err := o.deps.Directory.Register(ctx, lease); err != nil {
			o.logger.Warn("Failed to register session", "session_id", id, "error", err)
		}
	}
	if o.deps.History != nil {
		record := &domain.SessionRecord{
			ID:        id,
			Port:      e.port,
			Goal:      goal,
			CreatedAt: e.createdAt,
		}
		if err := o.deps.History.RecordOpened(ctx, record); err != nil {
			o.logger.Warn("Failed to record session opened", "session_id", id, "error", err)
		}
	}
}

func (o *Orchestrator) afterReclaim(ctx context.Context, reclaimed []*entry) {
	for _, e := range reclaimed {
		id := e.handle.ID()
		o.logger.Info("Session reclaimed", "session_id", id, "port", e.port, "reason", e.handle.Reason())

		if o.deps.Directory != nil {
			if err := o.deps.Directory.Deregister(ctx, id); err != nil {
				o.logger.Warn("Failed to deregister session", "session_id", id, "error", err)
			}
		}
		if o.deps.History != nil {
			err := o.deps.History.RecordClosed(ctx, id, time.Now(), e.handle.PeakPlayers(), e.handle.Reason())
			if err != nil {
				o.logger.Warn("Failed to record session closed", "session_id", id, "error", err)
			}
		}
	}
}

// notifyCapacity 依序通知最新的可用 Port 數
// 通知彼此序列化，且每次都重新讀取，最後一次通知一定反映最新狀態。
func (o *Orchestrator) notifyCapacity() {
	if o.deps.OnCapacity == nil {
		return
	}
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()
	o.deps.OnCapacity(o.Available())
}
