package wss

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed 連線已被對方或本地關閉
var ErrClosed = errors.New("wss: connection closed")

// Conn 封裝一條 gorilla WebSocket 連線。
// ReadMessage 只能由一個 goroutine 呼叫；WriteText 與 Close 可並行呼叫。
type Conn struct {
	ws         *websocket.Conn
	cfg        *Config
	remoteAddr string

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

func newConn(ws *websocket.Conn, cfg *Config) *Conn {
	c := &Conn{
		ws:         ws,
		cfg:        cfg,
		remoteAddr: ws.RemoteAddr().String(),
		done:       make(chan struct{}),
	}

	if cfg.MaxMessageSize > 0 {
		ws.SetReadLimit(cfg.MaxMessageSize)
	}
	if cfg.PongWait > 0 {
		_ = ws.SetReadDeadline(time.Now().Add(cfg.PongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(cfg.PongWait))
		})
	}
	if period := cfg.pingPeriod(); period > 0 {
		go c.pingLoop(period)
	}
	return c
}

// RemoteAddr 回傳 socket 對端的真實位址 (host:port)
func (c *Conn) RemoteAddr() string {
	return c.remoteAddr
}

// ReadMessage 阻塞讀取下一則資料訊息
//
// 回傳值:
//
//	[]byte: 訊息內容 (text 或 binary frame)
//	error: 連線關閉時回傳包含 ErrClosed 的錯誤
func (c *Conn) ReadMessage() ([]byte, error) {
	_, data, err := c.ws.ReadMessage()
	if err == nil {
		return data, nil
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) || errors.Is(err, net.ErrClosed) {
		return nil, fmt.Errorf("%w: %v", ErrClosed, err)
	}
	select {
	case <-c.done:
		return nil, fmt.Errorf("%w: %v", ErrClosed, err)
	default:
	}
	return nil, err
}

// WriteText 寫出一則文字訊息
func (c *Conn) WriteText(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	if c.cfg.WriteWait > 0 {
		_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Close 送出 close frame 並關閉底層連線，可重複呼叫
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		deadline := time.Now().Add(time.Second)
		if c.cfg.WriteWait > 0 {
			deadline = time.Now().Add(c.cfg.WriteWait)
		}
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		err = c.ws.Close()
	})
	return err
}

// Done 在 Close 被呼叫後關閉
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

func (c *Conn) pingLoop(period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(period)
			if c.cfg.WriteWait > 0 {
				deadline = time.Now().Add(c.cfg.WriteWait)
			}
			if err := c.ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
