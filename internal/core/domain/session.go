package domain

import "time"

// SessionLease 是 Session Directory 中對外公告的一局遊戲資訊。
// 只描述「目前有哪些 Session 活著、連到哪裡」，不包含遊戲狀態。
type SessionLease struct {
	SessionID string    `json:"session_id"`
	Port      int       `json:"port"`
	Endpoint  string    `json:"endpoint"` // host:port，Client 直接連線的位址
	Goal      int       `json:"goal"`
	Players   int       `json:"players"`
	CreatedAt time.Time `json:"created_at"`
}

// Close reasons
const (
	CloseReasonIdle     = "idle"
	CloseReasonStopped  = "stopped"
	CloseReasonShutdown = "shutdown"
	CloseReasonFailed   = "failed"
)

// SessionRecord 記錄一局遊戲的生命週期 (稽核用)。
// 這不是遊戲狀態的持久化，重啟後不會用來恢復任何 Session。
type SessionRecord struct {
	ID          string     `gorm:"primaryKey;size:36"`
	Port        int        `gorm:"not null"`
	Goal        int        `gorm:"not null"`
	PeakPlayers int        `gorm:"not null;default:0"`
	CreatedAt   time.Time  `gorm:"not null"`
	ClosedAt    *time.Time // nil 代表尚未結束
	CloseReason string     `gorm:"size:32"`
}

// TableName 指定 gorm 使用的資料表名稱
func (SessionRecord) TableName() string {
	return "session_records"
}
