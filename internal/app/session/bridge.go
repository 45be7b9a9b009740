package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/JoeShih716/go-k8s-score-server/internal/engine"
	"github.com/JoeShih716/go-k8s-score-server/internal/protocol"
	"github.com/JoeShih716/go-k8s-score-server/pkg/wss"
)

// Conn 是 Bridge 需要的連線能力 (*wss.Conn 實現了此介面)
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteText(data []byte) error
	RemoteAddr() string
	Close() error
}

// Bridge 連接一條 WebSocket 與 Session Actor。
// 讀寫兩個方向各自一個 goroutine，任一方向結束都會帶著另一方向一起結束。
type Bridge struct {
	conn   Conn
	actor  *engine.Actor
	sub    *engine.Subscription
	addr   string
	logger *slog.Logger
}

// NewBridge 建立 Bridge，並立即訂閱快照 (之後發佈的快照都會送到這條連線)
func NewBridge(conn Conn, actor *engine.Actor, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	addr := conn.RemoteAddr()
	return &Bridge{
		conn:   conn,
		actor:  actor,
		sub:    actor.Subscribe(),
		addr:   addr,
		logger: logger.With("component", "bridge", "addr", addr),
	}
}

// Serve 阻塞直到連線結束
//
// 參數:
//
//	ctx: context.Context - Session 的 context，取消時連線會被關閉
//
// 回傳值:
//
//	error: 正常關閉回傳 nil；協議錯誤或寫入失敗時回傳原因 (由呼叫端記錄)
func (b *Bridge) Serve(ctx context.Context) error {
	defer b.sub.Close()

	bctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(bctx)
	g.Go(func() error {
		defer cancel()
		return b.readLoop(gctx)
	})
	g.Go(func() error {
		defer cancel()
		return b.writeLoop(gctx)
	})
	g.Go(func() error {
		// 讀取端只能靠關閉連線來解除阻塞
		<-gctx.Done()
		_ = b.conn.Close()
		return nil
	})
	err := g.Wait()

	// 不論結束原因為何都送出 Disconnect；未加入過的連線在 Actor 端是 no-op
	if subErr := b.actor.Submit(ctx, engine.Disconnect{Address: b.addr}); subErr != nil &&
		!errors.Is(subErr, engine.ErrActorStopped) && ctx.Err() == nil {
		b.logger.Warn("Failed to submit disconnect", "error", subErr)
	}
	return err
}

func (b *Bridge) readLoop(ctx context.Context) error {
	for {
		msg, err := b.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, wss.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		ev, err := protocol.DecodeClientEvent(msg)
		if err != nil {
			return fmt.Errorf("protocol error: %w", err)
		}
		// Client 宣稱的位址不可信，一律以 socket 真實位址為準
		if join, ok := ev.(engine.Join); ok {
			join.Address = b.addr
			ev = join
		}

		if err := b.actor.Submit(ctx, ev); err != nil {
			if ctx.Err() != nil || errors.Is(err, engine.ErrActorStopped) {
				return nil
			}
			return fmt.Errorf("submit: %w", err)
		}
	}
}

func (b *Bridge) writeLoop(ctx context.Context) error {
	var lagged uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot, ok := <-b.sub.C():
			if !ok {
				// Actor 已結束
				return nil
			}
			if n := b.sub.Lagged(); n > lagged {
				b.logger.Warn("Subscriber lagged, snapshots skipped", "skipped", n-lagged)
				lagged = n
			}

			payload, err := protocol.EncodeGameState(snapshot)
			if err != nil {
				return fmt.Errorf("encode snapshot: %w", err)
			}
			if err := b.conn.WriteText(payload); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("write: %w", err)
			}
		}
	}
}
