package cddb

import (
	"context"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hexdisc/cddb/protocol"
)

// Config holds configuration for the pooled client.
type Config struct {
	// MaxSessions is the maximum number of pooled sessions per mirror.
	// Required: must be > 0.
	MaxSessions int32

	// Identity is sent in every handshake. Zero value means
	// DefaultIdentity.
	Identity Identity

	// Dialer is used to establish stream connections. If nil, the
	// default net.Dialer is used.
	Dialer *net.Dialer

	// SelectMirror picks which mirror serves a disc ID. If nil,
	// DefaultMirrorSelector is used.
	SelectMirror MirrorSelector

	// NewCircuitBreaker creates a circuit breaker for a mirror. Called
	// once per mirror address when its pool is created. If nil, no
	// circuit breaker is used.
	NewCircuitBreaker func(addr string) CircuitBreaker

	// Logger traces wire traffic at debug level. Zero value is silent.
	Logger zerolog.Logger

	// for testing purposes only
	constructor func(ctx context.Context, addr string) (*Session, error)
}

// mirrorPool wraps one mirror's session pool with its address.
type mirrorPool struct {
	addr           string
	pool           *sessionPool
	circuitBreaker CircuitBreaker // nil if not configured
}

// Client resolves disc fingerprints against a set of CDDBP mirrors,
// keeping a pool of logged-in sessions per mirror. Unlike a Session, a
// Client is safe for concurrent use: every operation runs on a session
// acquired for that operation alone.
type Client struct {
	mirrors      Mirrors
	selectMirror MirrorSelector
	config       Config

	mu    sync.RWMutex
	pools map[string]*mirrorPool

	stats *clientStatsCollector
}

// NewClient creates a pooled client over the given mirrors.
// For a single server, use: NewClient(MirrorsFromAddr("host:8880"), config)
func NewClient(mirrors Mirrors, config Config) (*Client, error) {
	if len(mirrors.List()) == 0 {
		return nil, ErrNoMirrors
	}

	selectMirror := config.SelectMirror
	if selectMirror == nil {
		selectMirror = DefaultMirrorSelector
	}
	config.Identity = config.Identity.orDefault()

	return &Client{
		mirrors:      mirrors,
		selectMirror: selectMirror,
		config:       config,
		pools:        make(map[string]*mirrorPool),
		stats:        newClientStatsCollector(),
	}, nil
}

// Close destroys all pooled sessions on all mirrors.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, mp := range c.pools {
		mp.pool.Close()
	}
}

// Lookup resolves a fingerprint to a full metadata record in one
// query+read exchange on a single session, taking the first candidate
// when the server returns several. Returns (nil, nil) when the query
// found no match.
func (c *Client) Lookup(ctx context.Context, fp Fingerprint) (*Disc, error) {
	var disc *Disc
	err := c.WithSession(ctx, fp.DiscID, func(sess *Session) error {
		matches, err := sess.Query(ctx, fp)
		c.stats.recordQuery(err == nil && len(matches) > 0)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return nil
		}

		disc, err = sess.Read(ctx, matches[0])
		if err != nil {
			return err
		}
		c.stats.recordRead()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return disc, nil
}

// WithSession runs fn on a pooled, logged-in session of the mirror
// serving discID. The read-after-query contract holds: everything inside
// fn happens on the same session. The session goes back to the pool when
// fn returns, or is torn down when the failure left the connection in a
// state that cannot be trusted.
func (c *Client) WithSession(ctx context.Context, discID string, fn func(*Session) error) error {
	mp, err := c.poolFor(discID)
	if err != nil {
		c.stats.recordError()
		return err
	}

	if mp.circuitBreaker != nil {
		_, err := mp.circuitBreaker.Execute(func() (any, error) {
			return nil, c.withSessionDirect(ctx, mp.pool, fn)
		})
		if err != nil {
			c.stats.recordError()
		}
		return err
	}

	err = c.withSessionDirect(ctx, mp.pool, fn)
	if err != nil {
		c.stats.recordError()
	}
	return err
}

func (c *Client) withSessionDirect(ctx context.Context, pool *sessionPool, fn func(*Session) error) error {
	resource, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}

	err = fn(resource.Value())
	if !resource.Value().Healthy() || protocol.ShouldCloseConnection(err) {
		resource.Destroy()
	} else {
		resource.Release()
	}
	return err
}

// poolFor returns the pool of the mirror serving discID, creating it
// lazily.
func (c *Client) poolFor(discID string) (*mirrorPool, error) {
	list := c.mirrors.List()
	if len(list) == 0 {
		return nil, ErrNoMirrors
	}
	addr := list[c.selectMirror(discID, len(list))%len(list)]

	// Fast path: read lock.
	c.mu.RLock()
	mp, exists := c.pools[addr]
	c.mu.RUnlock()
	if exists {
		return mp, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if mp, exists := c.pools[addr]; exists {
		return mp, nil
	}

	pool, err := c.createPool(addr)
	if err != nil {
		return nil, err
	}

	mp = &mirrorPool{addr: addr, pool: pool}
	if c.config.NewCircuitBreaker != nil {
		mp.circuitBreaker = c.config.NewCircuitBreaker(addr)
	}
	c.pools[addr] = mp
	return mp, nil
}

func (c *Client) createPool(addr string) (*sessionPool, error) {
	construct := c.config.constructor
	if construct == nil {
		construct = c.dialAndLogin
	}

	return newSessionPool(func(ctx context.Context) (*Session, error) {
		return construct(ctx, addr)
	}, c.config.MaxSessions)
}

// dialAndLogin is the default session constructor: connect the stream
// binding and complete the handshake, so pooled sessions are immediately
// queryable.
func (c *Client) dialAndLogin(ctx context.Context, addr string) (*Session, error) {
	sess, err := Dial(ctx, addr, StreamOptions{
		Identity: c.config.Identity,
		Dialer:   c.config.Dialer,
		Logger:   c.config.Logger,
	})
	if err != nil {
		return nil, err
	}
	if err := sess.Login(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

// Stats returns a snapshot of client statistics.
func (c *Client) Stats() ClientStats {
	return c.stats.snapshot()
}

// MirrorPoolStats contains stats for a single mirror pool.
type MirrorPoolStats struct {
	Addr                string
	PoolStats           PoolStats
	CircuitBreakerState string
}

// AllPoolStats returns stats for all mirror pools created so far.
func (c *Client) AllPoolStats() []MirrorPoolStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := make([]MirrorPoolStats, 0, len(c.pools))
	for _, mp := range c.pools {
		s := MirrorPoolStats{
			Addr:      mp.addr,
			PoolStats: mp.pool.Stats(),
		}
		if mp.circuitBreaker != nil {
			s.CircuitBreakerState = mp.circuitBreaker.State().String()
		}
		stats = append(stats, s)
	}
	return stats
}
