package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/JoeShih716/go-k8s-score-server/internal/protocol"
	"github.com/JoeShih716/go-k8s-score-server/pkg/wss"
)

// requestTimeout 單一控制請求中 Directory / History 呼叫的時限
const requestTimeout = 5 * time.Second

// Handler 控制通道：Client 透過此 WebSocket 請求建立遊戲
type Handler struct {
	orch   *Orchestrator
	logger *slog.Logger
}

// NewHandler 建立控制通道的 http.Handler
//
// 參數:
//
//	orch: *Orchestrator - 處理請求的 Orchestrator
//	cfg: *wss.Config - WebSocket 設定，nil 時使用預設
//	logger: *slog.Logger - 日誌
func NewHandler(orch *Orchestrator, cfg *wss.Config, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		orch:   orch,
		logger: logger.With("component", "control_handler"),
	}
	return wss.NewServer(cfg, h.serveConn, logger)
}

func (h *Handler) serveConn(conn *wss.Conn) {
	h.logger.Debug("Control connection opened", "addr", conn.RemoteAddr())
	for {
		msg, err := conn.ReadMessage()
		if err != nil {
			if !errors.Is(err, wss.ErrClosed) {
				h.logger.Warn("Control connection read failed", "addr", conn.RemoteAddr(), "error", err)
			}
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		reply := h.Handle(ctx, msg)
		cancel()

		if err := conn.WriteText(reply); err != nil {
			h.logger.Warn("Control connection write failed", "addr", conn.RemoteAddr(), "error", err)
			return
		}
	}
}

// Handle 處理一則控制訊息並回傳要送回的內容
// 格式錯誤的訊息會得到 error 回應，連線保持開啟。
func (h *Handler) Handle(ctx context.Context, msg []byte) []byte {
	req, err := protocol.DecodeControl(msg)
	if err != nil {
		return protocol.EncodeError(protocol.ActionError, err.Error())
	}

	switch req.Action {
	case protocol.ActionCreateGame:
		return h.createGame(ctx, req)
	case protocol.ActionListGames:
		return h.listGames()
	default:
		return protocol.EncodeError(protocol.ActionError, protocol.ErrUnknownAction.Error())
	}
}

func (h *Handler) createGame(ctx context.Context, req protocol.ControlRequest) []byte {
	created, err := h.orch.CreateGame(ctx, req.Goal)

	if req.Literal {
		if err != nil {
			return []byte(protocol.UnavailableText)
		}
		return []byte(strconv.Itoa(created.Port))
	}

	if err != nil {
		if errors.Is(err, ErrNoPortAvailable) {
			return protocol.EncodeError(protocol.ActionCreateGame, protocol.UnavailableCode)
		}
		return protocol.EncodeError(protocol.ActionCreateGame, "session start failed")
	}

	reply, err := protocol.EncodeResponse(protocol.ActionCreateGame, protocol.CreateGameResp{
		Port:      created.Port,
		SessionID: created.SessionID,
		Goal:      created.Goal,
	})
	if err != nil {
		h.logger.Error("Failed to encode create_game reply", "error", err)
		return protocol.EncodeError(protocol.ActionCreateGame, "internal error")
	}
	return reply
}

func (h *Handler) listGames() []byte {
	sessions := h.orch.Sessions()
	games := make([]protocol.GameInfo, 0, len(sessions))
	for _, s := range sessions {
		games = append(games, protocol.GameInfo{
			SessionID: s.SessionID,
			Port:      s.Port,
			Goal:      s.Goal,
			Players:   s.Players,
		})
	}

	reply, err := protocol.EncodeResponse(protocol.ActionListGames, games)
	if err != nil {
		h.logger.Error("Failed to encode list_games reply", "error", err)
		return protocol.EncodeError(protocol.ActionListGames, "internal error")
	}
	return reply
}
