package preference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"viewsync/internal/repository"
)

var ErrClosed = errors.New("preference client is closed")

const (
	defaultWriteTimeout = 10 * time.Second
	defaultFetchTimeout = 10 * time.Second
)

type cacheEntry struct {
	value json.RawMessage // nil when nothing is stored
}

// Client caches preferences in front of a repository. Reads are deduplicated,
// writes are optimistic: the cache changes immediately and the repository
// write happens in the background.
//
// Writes to one name are sequenced. A write that has been superseded by a
// newer write to the same name before it reaches the repository is dropped,
// so a slow stale write never lands after a newer one.
type Client struct {
	repo         repository.PreferenceRepository
	logger       *zap.Logger
	onError      func(name string, err error)
	writeTimeout time.Duration

	flight singleflight.Group

	mu     sync.Mutex
	cache  map[string]cacheEntry
	seq    map[string]uint64
	locks  map[string]*sync.Mutex
	closed bool

	pending sync.WaitGroup
}

type Option func(*Client)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithErrorHandler is called for every background write that fails.
func WithErrorHandler(fn func(name string, err error)) Option {
	return func(c *Client) {
		c.onError = fn
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.writeTimeout = d
		}
	}
}

func NewClient(repo repository.PreferenceRepository, opts ...Option) *Client {
	c := &Client{
		repo:         repo,
		logger:       zap.NewNop(),
		writeTimeout: defaultWriteTimeout,
		cache:        make(map[string]cacheEntry),
		seq:          make(map[string]uint64),
		locks:        make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Repository() repository.PreferenceRepository {
	return c.repo
}

// Fetch returns the stored value, or nil when nothing is stored. Errors from
// the repository are returned as is and are not cached.
func (c *Client) Fetch(ctx context.Context, name string) (json.RawMessage, error) {
	c.mu.Lock()
	if entry, ok := c.cache[name]; ok {
		c.mu.Unlock()
		return bytes.Clone(entry.value), nil
	}
	startSeq := c.seq[name]
	c.mu.Unlock()

	// the load is shared by every caller waiting on name, so it must not die
	// with the first caller's context; each caller only stops waiting on its own
	ch := c.flight.DoChan(name, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultFetchTimeout)
		defer cancel()

		pref, err := c.repo.Get(loadCtx, name)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return json.RawMessage(nil), nil
			}
			return nil, err
		}
		return pref.Value, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to fetch preference %q: %w", name, ctx.Err())
	}
	if res.Err != nil {
		c.logger.Warn("preference fetch failed", zap.String("name", name), zap.Error(res.Err))
		return nil, fmt.Errorf("failed to fetch preference %q: %w", name, res.Err)
	}
	value := res.Val.(json.RawMessage)

	c.mu.Lock()
	// a write issued while fetching is newer than what was read
	if entry, ok := c.cache[name]; ok {
		value = entry.value
	} else if c.seq[name] == startSeq {
		c.cache[name] = cacheEntry{value: bytes.Clone(value)}
	}
	c.mu.Unlock()

	return bytes.Clone(value), nil
}

// Write stores value under name in the background. A nil value clears the
// preference. The cache reflects the write immediately.
func (c *Client) Write(name string, value json.RawMessage) error {
	token, err := c.begin(name, value)
	if err != nil {
		return err
	}

	go func() {
		defer c.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
		defer cancel()

		if err := c.apply(ctx, name, token, value); err != nil && c.onError != nil {
			c.onError(name, err)
		}
	}()

	return nil
}

// Clear removes the preference in the background.
func (c *Client) Clear(name string) error {
	return c.Write(name, nil)
}

// Store writes value and waits for the repository. It is sequenced with the
// background writes to the same name.
func (c *Client) Store(ctx context.Context, name string, value json.RawMessage) error {
	token, err := c.begin(name, value)
	if err != nil {
		return err
	}
	defer c.pending.Done()

	return c.apply(ctx, name, token, value)
}

// Invalidate drops the cached value so the next Fetch reads the repository.
func (c *Client) Invalidate(name string) {
	c.mu.Lock()
	delete(c.cache, name)
	c.mu.Unlock()
}

// Flush waits for every write issued so far.
func (c *Client) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting writes and waits for the ones in flight.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	return c.Flush(ctx)
}

func (c *Client) begin(name string, value json.RawMessage) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrClosed
	}

	c.seq[name]++
	token := c.seq[name]
	c.cache[name] = cacheEntry{value: bytes.Clone(value)}
	if _, ok := c.locks[name]; !ok {
		c.locks[name] = &sync.Mutex{}
	}
	c.pending.Add(1)

	return token, nil
}

func (c *Client) apply(ctx context.Context, name string, token uint64, value json.RawMessage) error {
	c.mu.Lock()
	lock := c.locks[name]
	c.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	if c.superseded(name, token) {
		c.logger.Debug("dropping superseded preference write", zap.String("name", name), zap.Uint64("token", token))
		return nil
	}

	if err := c.repo.Set(ctx, name, value); err != nil {
		c.logger.Error("preference write failed", zap.String("name", name), zap.Uint64("token", token), zap.Error(err))

		c.mu.Lock()
		if c.seq[name] == token {
			delete(c.cache, name)
		}
		c.mu.Unlock()

		return fmt.Errorf("failed to write preference %q: %w", name, err)
	}

	c.logger.Debug("preference written",
		zap.String("name", name),
		zap.Uint64("token", token),
		zap.Bool("cleared", value == nil))
	return nil
}

func (c *Client) superseded(name string, token uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq[name] != token
}
