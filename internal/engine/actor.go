package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/JoeShih716/go-k8s-score-server/internal/core/domain"
)

// ErrActorStopped Actor 已經結束，不再接受事件
var ErrActorStopped = errors.New("session actor stopped")

// 預設值 (對應 MAX_PLAYER_COUNT / MAX_GAME_COUNT)
const (
	DefaultQueueSize    = 10
	DefaultFeedCapacity = 16
)

// Options Actor 的容量設定
type Options struct {
	QueueSize    int // inbound queue 容量，滿了 Submit 會阻塞
	FeedCapacity int // 每個訂閱者的快照緩衝
}

// Actor 是一局遊戲唯一的寫入者。
// GameState 與 identity map 只在 Run 的 goroutine 內被讀寫，因此不需要鎖；
// 其他 goroutine 只透過 inbound queue 送事件、透過 Feed 讀快照。
type Actor struct {
	inbound chan Event
	feed    *Feed
	done    chan struct{}
	logger  *slog.Logger

	// 以下只有 Run goroutine 會碰
	state      domain.GameState
	identities map[string]string // connection address -> player name

	// 由 Actor 寫入，供 reaper 讀取
	players atomic.Int64
	peak    atomic.Int64
}

// NewActor 建立 Session Actor (尚未啟動，需呼叫 Run)
//
// 參數:
//
//	goal: int - 目標分數
//	opts: Options - 容量設定，0 值使用預設
//	logger: *slog.Logger - 日誌
func NewActor(goal int, opts Options, logger *slog.Logger) *Actor {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.FeedCapacity <= 0 {
		opts.FeedCapacity = DefaultFeedCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Actor{
		inbound:    make(chan Event, opts.QueueSize),
		feed:       NewFeed(opts.FeedCapacity),
		done:       make(chan struct{}),
		logger:     logger.With("component", "actor"),
		state:      domain.NewGameState(goal),
		identities: make(map[string]string),
	}
}

// Run 依序處理 inbound 事件直到 ctx 結束
// 每處理完一個事件就發佈一份完整快照。結束時關閉 Feed。
func (a *Actor) Run(ctx context.Context) error {
	defer close(a.done)
	defer a.feed.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-a.inbound:
			a.apply(ev)
			a.publish()
		}
	}
}

// Submit 將事件放入 inbound queue
// Queue 滿了會阻塞 (backpressure)，直到有空間、ctx 結束或 Actor 停止。
func (a *Actor) Submit(ctx context.Context, ev Event) error {
	select {
	case <-a.done:
		return ErrActorStopped
	default:
	}

	select {
	case a.inbound <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-a.done:
		return ErrActorStopped
	}
}

// Subscribe 訂閱快照 Feed
func (a *Actor) Subscribe() *Subscription {
	return a.feed.Subscribe()
}

// Feed 回傳快照 Feed
func (a *Actor) Feed() *Feed {
	return a.feed
}

// Done 在 Run 結束後關閉
func (a *Actor) Done() <-chan struct{} {
	return a.done
}

// Players 回傳目前登記在 identity map 的玩家數
func (a *Actor) Players() int {
	return int(a.players.Load())
}

// PeakPlayers 回傳同時在線的最高玩家數
func (a *Actor) PeakPlayers() int {
	return int(a.peak.Load())
}

func (a *Actor) apply(ev Event) {
	switch e := ev.(type) {
	case Join:
		if _, joined := a.identities[e.Address]; joined {
			// 一條連線只能擁有一個身分，斷線時才能完整清理
			a.logger.Debug("Join ignored: connection already joined", "addr", e.Address, "player", e.PlayerName)
			return
		}
		if !a.state.AddPlayer(e.PlayerName) {
			a.logger.Debug("Join ignored: name taken", "addr", e.Address, "player", e.PlayerName)
			return
		}
		a.identities[e.Address] = e.PlayerName
		a.logger.Info("Player joined", "addr", e.Address, "player", e.PlayerName, "count", len(a.identities))

	case Disconnect:
		name, ok := a.identities[e.Address]
		if !ok {
			return
		}
		delete(a.identities, e.Address)
		a.state.RemovePlayer(name)
		a.logger.Info("Player left", "addr", e.Address, "player", name, "count", len(a.identities))

	case PointEvent:
		if !a.state.SetPoints(e.PlayerName, e.NewPoints) {
			a.logger.Debug("PointEvent ignored: unknown player", "player", e.PlayerName)
		}

	default:
		a.logger.Warn("Unknown event type", "event", ev)
	}

	n := int64(len(a.identities))
	a.players.Store(n)
	if n > a.peak.Load() {
		a.peak.Store(n)
	}
}

func (a *Actor) publish() {
	a.state.Version++
	a.feed.Publish(a.state.Clone())
}
