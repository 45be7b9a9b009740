package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/JoeShih716/go-k8s-score-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-score-server/internal/engine"
)

var (
	ErrInvalidJSON    = errors.New("invalid json envelope")
	ErrUnknownAction  = errors.New("unknown action")
	ErrInvalidPayload = errors.New("invalid payload")
)

// DecodeClientEvent 將 Client 送到 Session 的訊息解析成 Actor 事件
//
// 參數:
//
//	msg: []byte - 原始文字訊息
//
// 回傳值:
//
//	engine.Event: engine.Join 或 engine.PointEvent
//	error: 格式錯誤時回傳 (ErrInvalidJSON / ErrUnknownAction / ErrInvalidPayload)
func DecodeClientEvent(msg []byte) (engine.Event, error) {
	var envelope Envelope
	if err := json.Unmarshal(msg, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	switch envelope.Action {
	case ActionJoin:
		var req JoinReq
		if err := decodePayload(envelope.Payload, &req); err != nil {
			return nil, err
		}
		if req.PlayerName == "" {
			return nil, fmt.Errorf("%w: player_name is required", ErrInvalidPayload)
		}
		return engine.Join{Address: req.Address, PlayerName: req.PlayerName}, nil

	case ActionPoint:
		var req PointReq
		if err := decodePayload(envelope.Payload, &req); err != nil {
			return nil, err
		}
		if req.PlayerName == "" {
			return nil, fmt.Errorf("%w: player_name is required", ErrInvalidPayload)
		}
		if req.NewPoints == nil {
			return nil, fmt.Errorf("%w: new_points is required", ErrInvalidPayload)
		}
		return engine.PointEvent{PlayerName: req.PlayerName, NewPoints: *req.NewPoints}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, envelope.Action)
	}
}

// EncodeGameState 將快照編碼成廣播訊息
func EncodeGameState(state domain.GameState) ([]byte, error) {
	players := state.Players
	if players == nil {
		players = []domain.Player{}
	}
	return json.Marshal(Response{
		Action: ActionGameState,
		Data: GameStateMsg{
			Players: players,
			Goal:    state.Goal,
			Version: state.Version,
		},
	})
}

// ControlRequest 解析後的 Orchestrator 請求
type ControlRequest struct {
	Action  Action
	Goal    int
	Literal bool // 使用純文字 token 的舊式請求，回應也要用純文字
}

// DecodeControl 解析送到 Orchestrator 的請求
// 接受純文字 "CreateGame" 或 JSON Envelope。
func DecodeControl(msg []byte) (ControlRequest, error) {
	trimmed := bytes.TrimSpace(msg)
	if string(trimmed) == CreateGameToken {
		return ControlRequest{Action: ActionCreateGame, Literal: true}, nil
	}

	var envelope Envelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return ControlRequest{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	switch envelope.Action {
	case ActionCreateGame:
		var req CreateGameReq
		if len(envelope.Payload) > 0 {
			if err := decodePayload(envelope.Payload, &req); err != nil {
				return ControlRequest{}, err
			}
		}
		if req.Goal < 0 {
			return ControlRequest{}, fmt.Errorf("%w: goal must not be negative", ErrInvalidPayload)
		}
		return ControlRequest{Action: ActionCreateGame, Goal: req.Goal}, nil
	case ActionListGames:
		return ControlRequest{Action: ActionListGames}, nil
	default:
		return ControlRequest{}, fmt.Errorf("%w: %q", ErrUnknownAction, envelope.Action)
	}
}

// EncodeResponse 編碼成功回應
func EncodeResponse(action Action, data any) ([]byte, error) {
	return json.Marshal(Response{Action: action, Data: data})
}

// EncodeError 編碼錯誤回應
func EncodeError(action Action, msg string) []byte {
	// Response 只含字串欄位，Marshal 不會失敗
	b, _ := json.Marshal(Response{Action: action, Error: msg})
	return b
}

func decodePayload(raw json.RawMessage, dest any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidPayload)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
