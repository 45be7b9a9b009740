package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-k8s-score-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-score-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-score-server/pkg/redis"
)

// memStore 以記憶體模擬 Redis
type memStore struct {
	values    map[string][]byte
	ttls      map[string]time.Duration
	sets      map[string]map[string]struct{}
	published []SessionEvent
	failSet   error
}

func newMemStore() *memStore {
	return &memStore{
		values: make(map[string][]byte),
		ttls:   make(map[string]time.Duration),
		sets:   make(map[string]map[string]struct{}),
	}
}

func (m *memStore) SetStruct(_ context.Context, key string, value any, expiration ...time.Duration) error {
	if m.failSet != nil {
		return m.failSet
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = data
	if len(expiration) > 0 {
		m.ttls[key] = expiration[0]
	}
	return nil
}

func (m *memStore) GetStruct(_ context.Context, key string, dest any) error {
	data, ok := m.values[key]
	if !ok {
		return fmt.Errorf("%w: %s", redis.ErrKeyNotFound, key)
	}
	return json.Unmarshal(data, dest)
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
		delete(m.ttls, k)
	}
	return nil
}

func (m *memStore) SAdd(_ context.Context, key string, members ...any) error {
	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	for _, mem := range members {
		set[fmt.Sprint(mem)] = struct{}{}
	}
	return nil
}

func (m *memStore) SRem(_ context.Context, key string, members ...any) error {
	for _, mem := range members {
		delete(m.sets[key], fmt.Sprint(mem))
	}
	return nil
}

func (m *memStore) SMembers(_ context.Context, key string) ([]string, error) {
	out := make([]string, 0, len(m.sets[key]))
	for mem := range m.sets[key] {
		out = append(out, mem)
	}
	return out, nil
}

func (m *memStore) Publish(_ context.Context, _ string, message any) error {
	if ev, ok := message.(SessionEvent); ok {
		m.published = append(m.published, ev)
	}
	return nil
}

func lease(id string, port int) *domain.SessionLease {
	return &domain.SessionLease{
		SessionID: id,
		Port:      port,
		Endpoint:  fmt.Sprintf("localhost:%d", port),
		Goal:      100,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestDirectory_RegisterAndList(t *testing.T) {
	store := newMemStore()
	dir := NewDirectory(store, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, dir.Register(ctx, lease("b", 9101)))
	require.NoError(t, dir.Register(ctx, lease("a", 9100)))

	assert.Equal(t, 30*time.Second, store.ttls[fmt.Sprintf(KeyLease, "a")])

	leases, err := dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, leases, 2)
	assert.Equal(t, "a", leases[0].SessionID)
	assert.Equal(t, "b", leases[1].SessionID)

	require.Len(t, store.published, 2)
	assert.Equal(t, EventOpened, store.published[0].Type)
	assert.Equal(t, 9101, store.published[0].Port)
}

func TestDirectory_Heartbeat(t *testing.T) {
	store := newMemStore()
	dir := NewDirectory(store, 0)
	ctx := context.Background()

	require.NoError(t, dir.Register(ctx, lease("a", 9100)))
	delete(store.ttls, fmt.Sprintf(KeyLease, "a"))

	require.NoError(t, dir.Heartbeat(ctx, "a", 3))
	assert.Equal(t, DefaultTTL, store.ttls[fmt.Sprintf(KeyLease, "a")])

	leases, err := dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, leases, 1)
	assert.Equal(t, 3, leases[0].Players)

	err = dir.Heartbeat(ctx, "missing", 1)
	assert.ErrorIs(t, err, ports.ErrLeaseExpired)
}

func TestDirectory_Deregister(t *testing.T) {
	store := newMemStore()
	dir := NewDirectory(store, 0)
	ctx := context.Background()

	require.NoError(t, dir.Register(ctx, lease("a", 9100)))
	require.NoError(t, dir.Deregister(ctx, "a"))

	leases, err := dir.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, leases)
	assert.Equal(t, EventClosed, store.published[len(store.published)-1].Type)
}

func TestDirectory_ListDropsExpiredMembers(t *testing.T) {
	store := newMemStore()
	dir := NewDirectory(store, 0)
	ctx := context.Background()

	require.NoError(t, dir.Register(ctx, lease("a", 9100)))
	require.NoError(t, dir.Register(ctx, lease("b", 9101)))
	// 模擬租約過期
	delete(store.values, fmt.Sprintf(KeyLease, "b"))

	leases, err := dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, leases, 1)
	assert.Equal(t, "a", leases[0].SessionID)
	assert.NotContains(t, store.sets[KeySessionSet], "b")
}

func TestDirectory_RegisterError(t *testing.T) {
	store := newMemStore()
	store.failSet = errors.New("connection refused")
	dir := NewDirectory(store, 0)

	err := dir.Register(context.Background(), lease("a", 9100))
	assert.ErrorContains(t, err, "connection refused")
	assert.Empty(t, store.published)
}
