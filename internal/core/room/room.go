package room

// SessionHandle 定義了一局執行中遊戲對 Orchestrator 暴露的生命週期介面。
// Orchestrator 只透過此介面觀察與結束 Session，不接觸任何遊戲狀態。
type SessionHandle interface {
	// ID 回傳 Session 的唯一標識符
	//
	// 回傳值:
	//
	//	string: Session ID (UUID)
	ID() string

	// Port 回傳 Session 所綁定的 Port
	//
	// 回傳值:
	//
	//	int: 由 Port Pool 分配的 Port
	Port() int

	// Goal 回傳建立時設定的目標分數
	Goal() int

	// Players 回傳目前已加入的玩家數
	Players() int

	// PeakPlayers 回傳 Session 存活期間同時在線的最高玩家數
	PeakPlayers() int

	// Done 在 Session 完全結束 (listener、actor、所有連線都已停止) 後關閉
	//
	// 回傳值:
	//
	//	<-chan struct{}: 結束信號
	Done() <-chan struct{}

	// Reason 回傳結束原因 (僅在 Done 關閉後有意義)
	Reason() string

	// Stop 要求 Session 結束，不會等待；需等待請監聽 Done()
	Stop()
}

// Finished 非阻塞地檢查 Session 是否已經結束
func Finished(h SessionHandle) bool {
	select {
	case <-h.Done():
		return true
	default:
		return false
	}
}
