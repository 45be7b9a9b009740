package wss

import "time"

// Config WebSocket 伺服器的設定參數
type Config struct {
	AllowedOrigins  []string      // 允許的跨域來源，"*" 代表全部允許；空值只允許同源
	ReadBufferSize  int           // 讀取緩衝大小 (bytes)
	WriteBufferSize int           // 寫入緩衝大小 (bytes)
	WriteWait       time.Duration // 單次寫入的最長等待時間
	PongWait        time.Duration // 等待 Pong 的最長時間，0 代表不設讀取期限
	PingPeriod      time.Duration // Ping 的間隔，0 時依 PongWait 自動計算
	MaxMessageSize  int64         // 單則訊息大小上限，0 代表不限制
}

// DefaultConfig 回傳一組可直接使用的預設值
func DefaultConfig() *Config {
	return &Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		WriteWait:       10 * time.Second,
		PongWait:        60 * time.Second,
		MaxMessageSize:  4096,
	}
}

func (c *Config) pingPeriod() time.Duration {
	if c.PingPeriod > 0 {
		return c.PingPeriod
	}
	if c.PongWait > 0 {
		return (c.PongWait * 9) / 10
	}
	return 0
}
