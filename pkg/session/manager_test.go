package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tracer/pkg/adapters/memory"
	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/ports"
	"github.com/aretw0/tracer/pkg/session"
)

// slowStore simulates latency to provoke race conditions if locking is missing.
type slowStore struct {
	*memory.Store
}

func (s slowStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Load(ctx, id)
}

func (s slowStore) Save(ctx context.Context, id string, sess *domain.Session) error {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Save(ctx, id, sess)
}

func TestManager_UpdateIsSerialized(t *testing.T) {
	store := slowStore{memory.NewStore()}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	_, err := manager.LoadOrStart(ctx, id, "linear-search", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, id, func(_ context.Context, s *domain.Session) error {
				s.State.LastStep++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sess, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 9, sess.State.LastStep, "no read-modify-write is lost")
}

func TestManager_LoadOrStart(t *testing.T) {
	store := slowStore{memory.NewStore()}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := manager.LoadOrStart(ctx, id, "bst-insert", map[string]any{"values": []any{1}})
			assert.NoError(t, err)
			assert.NotNil(t, sess)
		}()
	}
	wg.Wait()

	sess, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "bst-insert", sess.Exercise)
	assert.Equal(t, -1, sess.State.LastStep)

	_, err = manager.LoadOrStart(ctx, id, "graph-bfs", nil)
	assert.ErrorIs(t, err, session.ErrExerciseMismatch, "a session cannot switch exercise")
}

func TestManager_UpdateFailureIsNotSaved(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()
	_, err := manager.LoadOrStart(ctx, "s", "running-sum", nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = manager.Update(ctx, "s", func(_ context.Context, s *domain.Session) error {
		s.State.LastStep = 4
		return boom
	})
	require.ErrorIs(t, err, boom)

	sess, err := manager.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, -1, sess.State.LastStep)

	_, err = manager.Update(ctx, "missing", func(context.Context, *domain.Session) error { return nil })
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

type countingLocker struct {
	mu    sync.Mutex
	locks int
	ttl   time.Duration
}

func (l *countingLocker) Lock(_ context.Context, _ string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locks++
	l.ttl = ttl
	return func(context.Context) error { return errors.New("already expired") }, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &countingLocker{}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Minute))
	ctx := context.Background()

	sess := domain.NewSession(session.NewID(), "graph-bfs", nil)
	require.NoError(t, manager.Save(ctx, sess))
	require.NoError(t, manager.Delete(ctx, sess.ID), "unlock failures are only logged")

	assert.Equal(t, 2, locker.locks)
	assert.Equal(t, time.Minute, locker.ttl)
}
