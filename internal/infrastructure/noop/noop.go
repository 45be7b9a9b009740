// Package noop 提供未啟用 Redis / MySQL 時使用的空實作
package noop

import (
	"context"
	"time"

	"github.com/JoeShih716/go-k8s-score-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-score-server/internal/core/ports"
)

var (
	_ ports.SessionDirectory = Directory{}
	_ ports.SessionHistory   = History{}
)

// Directory 不公告任何 Session
type Directory struct{}

func (Directory) Register(context.Context, *domain.SessionLease) error { return nil }
func (Directory) Heartbeat(context.Context, string, int) error { return nil }
func (Directory) Deregister(context.Context, string) error { return nil }
func (Directory) List(context.Context) ([]*domain.SessionLease, error) { return nil, nil }

// History 不記錄任何紀錄
type History struct{}

func (History) RecordOpened(context.Context, *domain.SessionRecord) error { return nil }
func (History) RecordClosed(context.Context, string, time.Time, int, string) error {
	return nil
}
func (History) GetByID(context.Context, string) (*domain.SessionRecord, error) {
	return nil, ports.ErrSessionNotFound
}
