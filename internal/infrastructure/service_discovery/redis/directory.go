package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/JoeShih716/go-k8s-score-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-score-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-score-server/pkg/redis"
)

const (
	// Key Pattern: scoreboard:sessions -> Set of Session IDs
	KeySessionSet = "scoreboard:sessions"
	// Key Pattern: scoreboard:session:{SessionID} -> SessionLease (JSON)
	KeyLease = "scoreboard:session:%s"
	// ChannelEvents Session 開啟 / 結束事件的 Pub/Sub 頻道
	ChannelEvents = "scoreboard:events"

	DefaultTTL = 90 * time.Second
)

// Event types
const (
	EventOpened = "opened"
	EventClosed = "closed"
)

// SessionEvent 發佈到 ChannelEvents 的訊息
type SessionEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Port      int    `json:"port,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"`
}

// Store Directory 需要的 Redis 操作 (*redis.Client 實現了此介面)
type Store interface {
	SetStruct(ctx context.Context, key string, value any, expiration ...time.Duration) error
	GetStruct(ctx context.Context, key string, dest any) error
	Del(ctx context.Context, keys ...string) error
	SAdd(ctx context.Context, key string, members ...any) error
	SRem(ctx context.Context, key string, members ...any) error
	SMembers(ctx context.Context, key string) ([]string, error)
	Publish(ctx context.Context, channel string, message any) error
}

// Directory 以 Redis 租約公告目前活著的 Session
// 租約 TTL 由 Heartbeat 延長；Orchestrator 異常結束時租約會自然過期。
type Directory struct {
	rds Store
	ttl time.Duration
}

var (
	_ ports.SessionDirectory = (*Directory)(nil)
	_ Store                  = (*redis.Client)(nil)
)

// NewDirectory 建立 Redis Session Directory，ttl <= 0 時使用 DefaultTTL
func NewDirectory(rds Store, ttl time.Duration) *Directory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Directory{rds: rds, ttl: ttl}
}

// Register 公告一個新的 Session
func (d *Directory) Register(ctx context.Context, lease *domain.SessionLease) error {
	// 1. 儲存 Lease
	leaseKey := fmt.Sprintf(KeyLease, lease.SessionID)
	if err := d.rds.SetStruct(ctx, leaseKey, lease, d.ttl); err != nil {
		return fmt.Errorf("failed to set lease: %w", err)
	}

	// 2. 加入 Session 集合 (方便列表)
	if err := d.rds.SAdd(ctx, KeySessionSet, lease.SessionID); err != nil {
		return fmt.Errorf("failed to add to session set: %w", err)
	}

	// 3. 通知訂閱者
	d.publish(ctx, SessionEvent{
		Type:      EventOpened,
		SessionID: lease.SessionID,
		Port:      lease.Port,
		Endpoint:  lease.Endpoint,
	})
	return nil
}

// Heartbeat 更新在線人數並延長租約
// 租約已過期時回傳 ports.ErrLeaseExpired
func (d *Directory) Heartbeat(ctx context.Context, sessionID string, players int) error {
	leaseKey := fmt.Sprintf(KeyLease, sessionID)

	var lease domain.SessionLease
	if err := d.rds.GetStruct(ctx, leaseKey, &lease); err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ports.ErrLeaseExpired, sessionID)
		}
		return err
	}

	// 續命
	lease.Players = players
	return d.rds.SetStruct(ctx, leaseKey, &lease, d.ttl)
}

// Deregister 主動移除 Session 公告
func (d *Directory) Deregister(ctx context.Context, sessionID string) error {
	leaseKey := fmt.Sprintf(KeyLease, sessionID)
	if err := d.rds.Del(ctx, leaseKey); err != nil {
		return fmt.Errorf("failed to delete lease: %w", err)
	}
	if err := d.rds.SRem(ctx, KeySessionSet, sessionID); err != nil {
		return fmt.Errorf("failed to remove from session set: %w", err)
	}

	d.publish(ctx, SessionEvent{Type: EventClosed, SessionID: sessionID})
	return nil
}

// List 列出所有仍有效的 Session (依 Port 排序)
// 集合中租約已過期的成員會順便被清掉
func (d *Directory) List(ctx context.Context) ([]*domain.SessionLease, error) {
	ids, err := d.rds.SMembers(ctx, KeySessionSet)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	leases := make([]*domain.SessionLease, 0, len(ids))
	for _, id := range ids {
		var lease domain.SessionLease
		err := d.rds.GetStruct(ctx, fmt.Sprintf(KeyLease, id), &lease)
		if errors.Is(err, redis.ErrKeyNotFound) {
			slog.Info("Removing expired session lease", "session_id", id)
			_ = d.rds.SRem(ctx, KeySessionSet, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		leases = append(leases, &lease)
	}

	sort.Slice(leases, func(i, j int) bool { return leases[i].Port < leases[j].Port })
	return leases, nil
}

func (d *Directory) publish(ctx context.Context, ev SessionEvent) {
	if err := d.rds.Publish(ctx, ChannelEvents, ev); err != nil {
		slog.Warn("Failed to publish session event", "type", ev.Type, "session_id", ev.SessionID, "error", err)
	}
}
