package protocol

import (
	"encoding/json"

	"github.com/JoeShih716/go-k8s-score-server/internal/core/domain"
)

// Action 定義指令代碼 (使用 string 方便前端對接)
type Action string

const (
	ActionJoin       Action = "join"        // 加入遊戲 (Client -> Session)
	ActionPoint      Action = "point"       // 設定分數 (Client -> Session)
	ActionGameState  Action = "game_state"  // 狀態快照 (Session -> Client)
	ActionCreateGame Action = "create_game" // 建立遊戲 (Client -> Orchestrator)
	ActionListGames  Action = "list_games"  // 列出遊戲 (Client -> Orchestrator)
	ActionError      Action = "error"       // 無法辨識的請求
)

// Control 協議的純文字 token
const (
	CreateGameToken = "CreateGame"
	UnavailableText = "Unavailable"
	UnavailableCode = "unavailable"
)

// Envelope 基礎封包結構 (所有請求的外層包裝)
type Envelope struct {
	Action  Action          `json:"action"`            // 指令代碼
	Payload json.RawMessage `json:"payload,omitempty"` // 具體請求內容
}

// Response 通用回應結構 (所有回應的外層包裝)
type Response struct {
	Action Action `json:"action"`          // 對應的指令代碼
	Data   any    `json:"data,omitempty"`  // 成功時的資料
	Error  string `json:"error,omitempty"` // 失敗時的錯誤訊息
}

// JoinReq 加入請求
// Address 即使 Client 有填也會被伺服器覆寫。
type JoinReq struct {
	PlayerName string `json:"player_name"`
	Address    string `json:"address,omitempty"`
}

// PointReq 設定分數請求
type PointReq struct {
	PlayerName string `json:"player_name"`
	NewPoints  *int   `json:"new_points"`
}

// GameStateMsg 廣播給 Client 的快照
type GameStateMsg struct {
	Players []domain.Player `json:"players"`
	Goal    int             `json:"goal"`
	Version uint64          `json:"version"`
}

// CreateGameReq 建立遊戲請求
type CreateGameReq struct {
	Goal int `json:"goal,omitempty"`
}

// CreateGameResp 建立遊戲回應
type CreateGameResp struct {
	Port      int    `json:"port"`
	SessionID string `json:"session_id"`
	Goal      int    `json:"goal"`
}

// GameInfo 列表中的單局資訊
type GameInfo struct {
	SessionID string `json:"session_id"`
	Port      int    `json:"port"`
	Goal      int    `json:"goal"`
	Players   int    `json:"players"`
}
