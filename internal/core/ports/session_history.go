package ports

import (
	"context"
	"time"

	"github.com/JoeShih716/go-k8s-score-server/internal/core/domain"
)

// SessionHistory 記錄 Session 的開啟與結束 (稽核用，不保存遊戲狀態)
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_session_history.go -package=mock_ports github.com/JoeShih716/go-k8s-score-server/internal/core/ports SessionHistory
type SessionHistory interface {
	// RecordOpened 記錄 Session 建立
	RecordOpened(ctx context.Context, record *domain.SessionRecord) error

	// RecordClosed 記錄 Session 結束
	RecordClosed(ctx context.Context, sessionID string, closedAt time.Time, peakPlayers int, reason string) error

	// GetByID 取得一筆紀錄，找不到回傳 ErrSessionNotFound
	GetByID(ctx context.Context, sessionID string) (*domain.SessionRecord, error)
}
