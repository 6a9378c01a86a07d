package cddb

import (
	"context"
	"sync/atomic"

	"github.com/jackc/puddle/v2"
)

// PoolStats is a snapshot of one mirror pool's counters.
type PoolStats struct {
	AcquireCount      uint64 // total acquire attempts
	AcquireWaitCount  uint64 // acquires that had to wait
	CreatedSessions   uint64 // total sessions dialed and logged in
	DestroyedSessions uint64 // total sessions torn down
	AcquireErrors     uint64 // failed acquire attempts
	AcquireWaitTimeNs uint64 // total nanoseconds spent waiting

	TotalSessions  int32 // sessions in the pool (active + idle)
	IdleSessions   int32 // idle sessions available
	ActiveSessions int32 // sessions currently in use
}

// sessionPool keeps ready-to-use (dialed and logged-in) sessions for one
// mirror. Backed by puddle; the constructor runs the full connect+login
// sequence so an acquired session is immediately queryable.
type sessionPool struct {
	pool              *puddle.Pool[*Session]
	createdSessions   atomic.Int64
	destroyedSessions atomic.Int64
}

func newSessionPool(constructor func(ctx context.Context) (*Session, error), maxSize int32) (*sessionPool, error) {
	p := &sessionPool{}

	cfg := &puddle.Config[*Session]{
		Constructor: func(ctx context.Context) (*Session, error) {
			sess, err := constructor(ctx)
			if err == nil {
				p.createdSessions.Add(1)
			}
			return sess, err
		},
		Destructor: func(s *Session) {
			p.destroyedSessions.Add(1)
			_ = s.Close()
		},
		MaxSize: maxSize,
	}

	pool, err := puddle.NewPool(cfg)
	if err != nil {
		return nil, err
	}
	p.pool = pool
	return p, nil
}

func (p *sessionPool) Acquire(ctx context.Context) (*puddle.Resource[*Session], error) {
	return p.pool.Acquire(ctx)
}

func (p *sessionPool) Close() {
	p.pool.Close()
}

// Stats converts puddle's counters into a PoolStats snapshot.
func (p *sessionPool) Stats() PoolStats {
	s := p.pool.Stat()

	return PoolStats{
		AcquireCount:      uint64(s.AcquireCount()),
		AcquireWaitCount:  uint64(s.EmptyAcquireCount()),
		CreatedSessions:   uint64(p.createdSessions.Load()),
		DestroyedSessions: uint64(p.destroyedSessions.Load()),
		AcquireErrors:     uint64(s.CanceledAcquireCount()),
		AcquireWaitTimeNs: uint64(s.EmptyAcquireWaitTime().Nanoseconds()),
		TotalSessions:     s.TotalResources(),
		IdleSessions:      s.IdleResources(),
		ActiveSessions:    s.AcquiredResources(),
	}
}
