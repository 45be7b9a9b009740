package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-k8s-score-server/internal/core/domain"
)

func snapshot(version uint64) domain.GameState {
	return domain.GameState{Players: []domain.Player{}, Version: version}
}

func TestFeed_LateSubscriberSkipsHistory(t *testing.T) {
	f := NewFeed(4)
	f.Publish(snapshot(1))

	sub := f.Subscribe()
	f.Publish(snapshot(2))

	got := <-sub.C()
	assert.Equal(t, uint64(2), got.Version)
	assert.Len(t, sub.C(), 0)
}

func TestFeed_FanOutPreservesOrder(t *testing.T) {
	f := NewFeed(8)
	a := f.Subscribe()
	b := f.Subscribe()

	for v := uint64(1); v <= 5; v++ {
		f.Publish(snapshot(v))
	}

	for _, sub := range []*Subscription{a, b} {
		for v := uint64(1); v <= 5; v++ {
			got := <-sub.C()
			assert.Equal(t, v, got.Version)
		}
	}
}

func TestFeed_SlowSubscriberDropsOldest(t *testing.T) {
	f := NewFeed(3)
	slow := f.Subscribe()

	// 發佈比緩衝多的快照，Publish 不可阻塞
	for v := uint64(1); v <= 10; v++ {
		f.Publish(snapshot(v))
	}

	assert.Equal(t, uint64(7), slow.Lagged())

	var versions []uint64
	for i := 0; i < 3; i++ {
		versions = append(versions, (<-slow.C()).Version)
	}
	// 只保留最新的三筆且順序不變
	assert.Equal(t, []uint64{8, 9, 10}, versions)
}

func TestFeed_SubscriptionClose(t *testing.T) {
	f := NewFeed(2)
	sub := f.Subscribe()
	require.Equal(t, 1, f.Subscribers())

	sub.Close()
	sub.Close() // 重複關閉不會 panic
	assert.Equal(t, 0, f.Subscribers())

	_, ok := <-sub.C()
	assert.False(t, ok)

	// 取消訂閱後 Publish 不受影響
	f.Publish(snapshot(1))
}

func TestFeed_Close(t *testing.T) {
	f := NewFeed(2)
	sub := f.Subscribe()

	f.Close()
	f.Close()
	_, ok := <-sub.C()
	assert.False(t, ok)

	// 關閉後訂閱會拿到已關閉的 channel
	late := f.Subscribe()
	_, ok = <-late.C()
	assert.False(t, ok)
	late.Close()

	f.Publish(snapshot(1))
	sub.Close()
}
