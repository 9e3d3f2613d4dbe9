package preference

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"viewsync/internal/domain"
	"viewsync/internal/repository"
	"viewsync/internal/repository/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubRepository wraps the memory repository with call counting, an optional
// gate that holds Set calls, and injectable failures.
type stubRepository struct {
	*memory.PreferenceRepository

	gets    atomic.Int32
	getGate chan struct{}
	getErr  error

	mu      sync.Mutex
	sets    []string
	setGate chan struct{}
	setErr  error
}

func newStubRepository() *stubRepository {
	return &stubRepository{PreferenceRepository: memory.NewPreferenceRepository()}
}

func (s *stubRepository) Get(ctx context.Context, name string) (*domain.Preference, error) {
	s.gets.Add(1)
	if s.getGate != nil {
		<-s.getGate
	}
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.PreferenceRepository.Get(ctx, name)
}

func (s *stubRepository) Set(ctx context.Context, name string, value json.RawMessage) error {
	if s.setGate != nil {
		<-s.setGate
	}
	s.mu.Lock()
	s.sets = append(s.sets, string(value))
	err := s.setErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.PreferenceRepository.Set(ctx, name, value)
}

func (s *stubRepository) setCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sets...)
}

func flush(t *testing.T, c *Client) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Flush(ctx))
}

func TestFetch_AbsentIsNil(t *testing.T) {
	c := NewClient(newStubRepository())

	value, err := c.Fetch(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestFetch_Caches(t *testing.T) {
	repo := newStubRepository()
	require.NoError(t, repo.PreferenceRepository.Set(context.Background(), "p", json.RawMessage(`{"type":"grid"}`)))
	c := NewClient(repo)

	for i := 0; i < 3; i++ {
		value, err := c.Fetch(context.Background(), "p")
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"grid"}`, string(value))
	}
	assert.EqualValues(t, 1, repo.gets.Load())

	c.Invalidate("p")
	_, err := c.Fetch(context.Background(), "p")
	require.NoError(t, err)
	assert.EqualValues(t, 2, repo.gets.Load())
}

func TestFetch_DeduplicatesConcurrentLoads(t *testing.T) {
	repo := newStubRepository()
	repo.getGate = make(chan struct{})
	c := NewClient(repo)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Fetch(context.Background(), "p")
			assert.NoError(t, err)
		}()
	}

	// let the callers pile up on the in-flight load
	time.Sleep(50 * time.Millisecond)
	close(repo.getGate)
	wg.Wait()

	assert.EqualValues(t, 1, repo.gets.Load())
}

func TestFetch_CanceledCallerDoesNotFailSharedLoad(t *testing.T) {
	repo := newStubRepository()
	require.NoError(t, repo.PreferenceRepository.Set(context.Background(), "p", json.RawMessage(`{"type":"grid"}`)))
	repo.getGate = make(chan struct{})
	c := NewClient(repo)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, "p")
		firstErr <- err
	}()

	// the first caller owns the in-flight load before the second joins it
	require.Eventually(t, func() bool { return repo.gets.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		value json.RawMessage
		err   error
	}
	second := make(chan result, 1)
	go func() {
		value, err := c.Fetch(context.Background(), "p")
		second <- result{value, err}
	}()

	// let the second caller join the in-flight load
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(repo.getGate)
	got := <-second
	require.NoError(t, got.err)
	assert.JSONEq(t, `{"type":"grid"}`, string(got.value))
	assert.EqualValues(t, 1, repo.gets.Load())
}

func TestFetch_ErrorsPropagateAndAreNotCached(t *testing.T) {
	repo := newStubRepository()
	repo.getErr = errors.New("connection refused")
	c := NewClient(repo)

	_, err := c.Fetch(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.getErr)

	repo.getErr = nil
	value, err := c.Fetch(context.Background(), "p")
	require.NoError(t, err)
	assert.Nil(t, value)
	assert.EqualValues(t, 2, repo.gets.Load())
}

func TestWrite_IsOptimistic(t *testing.T) {
	repo := newStubRepository()
	repo.setGate = make(chan struct{})
	c := NewClient(repo)

	require.NoError(t, c.Write("p", json.RawMessage(`{"type":"list"}`)))

	value, err := c.Fetch(context.Background(), "p")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"list"}`, string(value))
	assert.EqualValues(t, 0, repo.gets.Load(), "cached write must not hit the repository")

	close(repo.setGate)
	flush(t, c)

	stored, err := repo.PreferenceRepository.Get(context.Background(), "p")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"list"}`, string(stored.Value))
}

func TestWrite_SupersededWritesAreDropped(t *testing.T) {
	repo := newStubRepository()
	repo.setGate = make(chan struct{})
	c := NewClient(repo)

	require.NoError(t, c.Write("p", json.RawMessage(`{"n":1}`)))
	require.NoError(t, c.Write("p", json.RawMessage(`{"n":2}`)))
	require.NoError(t, c.Write("p", json.RawMessage(`{"n":3}`)))

	close(repo.setGate)
	flush(t, c)

	calls := repo.setCalls()
	require.NotEmpty(t, calls)
	assert.Equal(t, `{"n":3}`, calls[len(calls)-1], "the newest write lands last")

	stored, err := repo.PreferenceRepository.Get(context.Background(), "p")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":3}`, string(stored.Value))
}

func TestClear(t *testing.T) {
	repo := newStubRepository()
	require.NoError(t, repo.PreferenceRepository.Set(context.Background(), "p", json.RawMessage(`{}`)))
	c := NewClient(repo)

	require.NoError(t, c.Clear("p"))
	flush(t, c)

	_, err := repo.PreferenceRepository.Get(context.Background(), "p")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	value, err := c.Fetch(context.Background(), "p")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestWrite_FailureReportsAndInvalidates(t *testing.T) {
	repo := newStubRepository()
	repo.setErr = errors.New("disk full")

	var reported atomic.Value
	c := NewClient(repo, WithErrorHandler(func(name string, err error) {
		reported.Store(name)
	}))

	require.NoError(t, c.Write("p", json.RawMessage(`{"type":"grid"}`)))
	flush(t, c)

	assert.Equal(t, "p", reported.Load())

	value, err := c.Fetch(context.Background(), "p")
	require.NoError(t, err)
	assert.Nil(t, value, "a failed write must not stay in the cache")
	assert.EqualValues(t, 1, repo.gets.Load())
}

func TestStore_IsSynchronous(t *testing.T) {
	repo := newStubRepository()
	c := NewClient(repo)

	require.NoError(t, c.Store(context.Background(), "p", json.RawMessage(`{"a":1}`)))

	stored, err := repo.PreferenceRepository.Get(context.Background(), "p")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(stored.Value))

	repo.setErr = errors.New("boom")
	assert.Error(t, c.Store(context.Background(), "p", json.RawMessage(`{"a":2}`)))
}

func TestClose_RejectsWrites(t *testing.T) {
	c := NewClient(newStubRepository())

	require.NoError(t, c.Write("p", json.RawMessage(`{}`)))
	require.NoError(t, c.Close(context.Background()))

	assert.ErrorIs(t, c.Write("p", json.RawMessage(`{}`)), ErrClosed)
	assert.ErrorIs(t, c.Store(context.Background(), "p", nil), ErrClosed)
}

func TestFlush_RespectsContext(t *testing.T) {
	repo := newStubRepository()
	repo.setGate = make(chan struct{})
	c := NewClient(repo)

	require.NoError(t, c.Write("p", json.RawMessage(`{}`)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Flush(ctx), context.DeadlineExceeded)

	close(repo.setGate)
	flush(t, c)
}
