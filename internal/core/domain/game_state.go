package domain

// Player 代表一局遊戲中的一位玩家。
// 玩家以 Name 作為識別 (大小寫敏感，同一局內唯一)。
type Player struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// GameState 代表一局遊戲的完整狀態。
// 只有 Session Actor 持有可變的實體，其他元件只會拿到 Clone() 之後的快照。
type GameState struct {
	Players []Player `json:"players"` // 依加入順序排列
	Goal    int      `json:"goal"`    // 建立 Session 時設定的目標分數，之後不再變動
	Version uint64   `json:"version"` // 每次發佈快照遞增
}

// NewGameState 建立一個沒有玩家的遊戲狀態
//
// 參數:
//
//	goal: int - 目標分數
//
// 回傳值:
//
//	GameState: 初始化後的遊戲狀態
func NewGameState(goal int) GameState {
	return GameState{
		Players: make([]Player, 0),
		Goal:    goal,
	}
}

// AddPlayer 新增一位分數為 0 的玩家到列表尾端
// 若同名玩家已存在則不做任何事。
//
// 參數:
//
//	name: string - 玩家名稱
//
// 回傳值:
//
//	bool: 是否真的新增了玩家
func (g *GameState) AddPlayer(name string) bool {
	if g.indexOf(name) >= 0 {
		return false
	}
	g.Players = append(g.Players, Player{Name: name})
	return true
}

// RemovePlayer 移除第一位同名玩家，找不到時不做任何事
//
// 回傳值:
//
//	bool: 是否真的移除了玩家
func (g *GameState) RemovePlayer(name string) bool {
	idx := g.indexOf(name)
	if idx < 0 {
		return false
	}
	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
	return true
}

// SetPoints 將玩家的總分設為 value (覆寫，不是累加)
// 對不存在的玩家直接忽略。
//
// 回傳值:
//
//	bool: 玩家是否存在
func (g *GameState) SetPoints(name string, value int) bool {
	idx := g.indexOf(name)
	if idx < 0 {
		return false
	}
	g.Players[idx].Points = value
	return true
}

// Player 依名稱取得玩家
func (g *GameState) Player(name string) (Player, bool) {
	idx := g.indexOf(name)
	if idx < 0 {
		return Player{}, false
	}
	return g.Players[idx], true
}

// PlayerCount 回傳目前玩家數量
func (g *GameState) PlayerCount() int {
	return len(g.Players)
}

// Clone 回傳一份與原狀態不共用底層陣列的深拷貝
func (g *GameState) Clone() GameState {
	players := make([]Player, len(g.Players))
	copy(players, g.Players)
	return GameState{
		Players: players,
		Goal:    g.Goal,
		Version: g.Version,
	}
}

func (g *GameState) indexOf(name string) int {
	for i := range g.Players {
		if g.Players[i].Name == name {
			return i
		}
	}
	return -1
}
