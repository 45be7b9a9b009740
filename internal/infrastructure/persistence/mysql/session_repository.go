package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/JoeShih716/go-k8s-score-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-score-server/internal/core/ports"
	mysqlpkg "github.com/JoeShih716/go-k8s-score-server/pkg/mysql"
)

// ensure interface compliance
var _ ports.SessionHistory = (*SessionRepository)(nil)

// SessionRepository 實作 ports.SessionHistory
type SessionRepository struct {
	client *mysqlpkg.Client
}

// NewSessionRepository 建立 MySQL Repository
func NewSessionRepository(client *mysqlpkg.Client) *SessionRepository {
	return &SessionRepository{
		client: client,
	}
}

// Migrate 建立 session_records 資料表
func (r *SessionRepository) Migrate() error {
	return r.client.AutoMigrate(&domain.SessionRecord{})
}

// RecordOpened 新增一筆 Session 紀錄
func (r *SessionRepository) RecordOpened(ctx context.Context, record *domain.SessionRecord) error {
	if err := r.client.DB().WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("insert session record %s: %w", record.ID, err)
	}
	return nil
}

// RecordClosed 寫入 Session 結束時間、最高人數與原因
func (r *SessionRepository) RecordClosed(ctx context.Context, sessionID string, closedAt time.Time, peakPlayers int, reason string) error {
	err := r.client.DB().WithContext(ctx).
		Model(&domain.SessionRecord{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"closed_at":    closedAt,
			"peak_players": peakPlayers,
			"close_reason": reason,
		}).Error
	if err != nil {
		return fmt.Errorf("close session record %s: %w", sessionID, err)
	}
	return nil
}

// GetByID 根據 Session ID 取得紀錄
func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*domain.SessionRecord, error) {
	var record domain.SessionRecord
	err := r.client.DB().WithContext(ctx).Where("id = ?", sessionID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrSessionNotFound
		}
		return nil, err
	}
	return &record, nil
}
