package engine

import (
	"sync"
	"sync/atomic"

	"github.com/JoeShih716/go-k8s-score-server/internal/core/domain"
)

// Feed 將 Actor 產生的快照發佈給所有訂閱者。
//
// 每個訂閱者有自己的有界緩衝。Publish 永遠不會阻塞：
// 緩衝滿了就丟掉最舊的一筆再放入新的，因此訂閱者看到的順序
// 與發佈順序一致，只可能跳過中間的快照，不會拿到比手上更舊的資料。
type Feed struct {
	mu       sync.Mutex
	subs     map[*Subscription]struct{}
	capacity int
	closed   bool
}

// Subscription 代表一個快照訂閱
type Subscription struct {
	feed   *Feed
	ch     chan domain.GameState
	lagged atomic.Uint64
	closed bool // guarded by feed.mu
}

// NewFeed 建立快照 Feed
//
// 參數:
//
//	capacity: int - 每個訂閱者的緩衝大小 (<= 0 時視為 1)
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = 1
	}
	return &Feed{
		subs:     make(map[*Subscription]struct{}),
		capacity: capacity,
	}
}

// Subscribe 建立新的訂閱，從下一筆發佈的快照開始接收 (不回放歷史)
// 若 Feed 已關閉，回傳的訂閱 channel 也會是關閉狀態。
func (f *Feed) Subscribe() *Subscription {
	s := &Subscription{
		feed: f,
		ch:   make(chan domain.GameState, f.capacity),
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		s.closed = true
		close(s.ch)
		return s
	}
	f.subs[s] = struct{}{}
	return s
}

// Publish 發佈一筆快照給所有訂閱者
// 呼叫端必須保證傳入的是不會再被修改的副本。
func (f *Feed) Publish(snapshot domain.GameState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}

	for s := range f.subs {
		for {
			select {
			case s.ch <- snapshot:
			default:
				// 緩衝已滿: 丟棄最舊的一筆。只有 Publish 會寫入，
				// 所以丟掉一筆之後下一輪一定放得進去。
				select {
				case <-s.ch:
					s.lagged.Add(1)
				default:
				}
				continue
			}
			break
		}
	}
}

// Subscribers 回傳目前訂閱者數量
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close 關閉 Feed 與所有訂閱的 channel
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for s := range f.subs {
		s.closed = true
		close(s.ch)
		delete(f.subs, s)
	}
}

// C 回傳接收快照的 channel，Feed 或訂閱關閉時會被 close
func (s *Subscription) C() <-chan domain.GameState {
	return s.ch
}

// Lagged 回傳因為跟不上而被丟棄的快照數
func (s *Subscription) Lagged() uint64 {
	return s.lagged.Load()
}

// Close 取消訂閱，可重複呼叫
func (s *Subscription) Close() {
	f := s.feed
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	delete(f.subs, s)
	close(s.ch)
}
