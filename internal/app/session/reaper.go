package session

import "time"

// 閒置回收的預設值
const (
	DefaultReapInterval = 30 * time.Second
	DefaultIdleTimeout  = 20 * time.Minute
)

// idleTracker 依照每次取樣的玩家數判斷 Session 是否閒置過久。
// 剛建立的 Session 視為 0 人，閒置時間從建立時開始算。
type idleTracker struct {
	timeout   time.Duration
	idle      bool
	idleSince time.Time
}

func newIdleTracker(timeout time.Duration, createdAt time.Time) *idleTracker {
	return &idleTracker{
		timeout:   timeout,
		idle:      true,
		idleSince: createdAt,
	}
}

// observe 記錄一次取樣，回傳是否已閒置超過 timeout
func (t *idleTracker) observe(players int, now time.Time) bool {
	if players > 0 {
		t.idle = false
		return false
	}
	if !t.idle {
		t.idle = true
		t.idleSince = now
		return false
	}
	return now.Sub(t.idleSince) >= t.timeout
}
