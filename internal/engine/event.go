package engine

// Event 是送進 Session Actor inbound queue 的事件。
// 只有已通過 protocol 驗證的事件才會進到這裡。
type Event interface {
	isEvent()
}

// Join 玩家加入。
// Address 由連線層覆寫為真正的 socket peer address，永遠不採信 Client 自填的值。
type Join struct {
	Address    string
	PlayerName string
}

// Disconnect 連線中斷 (由連線層合成，只帶連線位址)
type Disconnect struct {
	Address string
}

// PointEvent 將玩家總分設定為 NewPoints
type PointEvent struct {
	PlayerName string
	NewPoints  int
}

func (Join) isEvent()       {}
func (Disconnect) isEvent() {}
func (PointEvent) isEvent() {}
