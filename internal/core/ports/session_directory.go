package ports

import (
	"context"

	"github.com/JoeShih716/go-k8s-score-server/internal/core/domain"
)

// SessionDirectory 對外公告目前活著的 Session (供監控 / 大廳列表使用)
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_session_directory.go -package=mock_ports github.com/JoeShih716/go-k8s-score-server/internal/core/ports SessionDirectory
type SessionDirectory interface {
	// Register 公告一個新的 Session
	Register(ctx context.Context, lease *domain.SessionLease) error

	// Heartbeat 更新 Session 的在線人數並延長租約
	Heartbeat(ctx context.Context, sessionID string, players int) error

	// Deregister 移除 Session 公告
	Deregister(ctx context.Context, sessionID string) error

	// List 列出所有仍有效的 Session
	List(ctx context.Context) ([]*domain.SessionLease, error)
}
