package cddb

import (
	"context"
	"runtime"
	"time"

	"github.com/hexdisc/cddb/protocol"
)

// quitTimeout bounds the best-effort quit exchange during Close.
const quitTimeout = 2 * time.Second

// State is the position of a session in its lifecycle.
type State int

const (
	// StateDisconnected means the session has no usable transport: it was
	// never connected, or a failed login made the connection unusable.
	StateDisconnected State = iota

	// StateConnected means the transport is established but no commands
	// have been exchanged beyond the greeting.
	StateConnected

	// StateLoggedIn means the handshake succeeded; query and read are
	// available and repeatable.
	StateLoggedIn

	// StateClosed is terminal; every operation fails with
	// ErrSessionClosed.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateLoggedIn:
		return "logged-in"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session drives the CDDBP exchange over one logical connection: login,
// query-by-fingerprint, read-by-match, close. It owns its transport
// exclusively and supports exactly one in-flight request.
//
// A Session is NOT safe to call from two concurrent call sites. This is a
// client contract, not a runtime-enforced guard.
type Session struct {
	transport Transport
	state     State
	cleanup   runtime.Cleanup
}

// NewSession wraps an established transport. The session starts in
// StateConnected; call Login before query or read.
//
// The transport is shut down even when the caller abandons the session
// without closing it: a cleanup attached to the session closes the
// transport when the session becomes unreachable.
func NewSession(t Transport) *Session {
	s := &Session{
		transport: t,
		state:     StateConnected,
	}
	s.cleanup = runtime.AddCleanup(s, func(tr Transport) { tr.Close() }, t)
	return s
}

// Dial connects the persistent stream binding and wraps it in a session.
func Dial(ctx context.Context, addr string, opts StreamOptions) (*Session, error) {
	t, err := DialStream(ctx, addr, opts)
	if err != nil {
		return nil, err
	}
	return NewSession(t), nil
}

// NewHTTPSession wraps the one-shot HTTP binding in a session. Login is a
// no-op pass-through for this binding but still required, so both
// bindings run the same state machine.
func NewHTTPSession(baseURL string, opts HTTPOptions) (*Session, error) {
	t, err := NewHTTPTransport(baseURL, opts)
	if err != nil {
		return nil, err
	}
	return NewSession(t), nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Login performs the binding's handshake. On failure the connection is
// not reusable: the transport is closed and the session drops to
// StateDisconnected, so the caller must build a fresh session.
func (s *Session) Login(ctx context.Context) error {
	switch s.state {
	case StateClosed:
		return ErrSessionClosed
	case StateDisconnected:
		return &protocol.ConnectionError{Op: "login", Err: ErrSessionClosed}
	case StateLoggedIn:
		return nil
	}

	if err := s.transport.Handshake(ctx); err != nil {
		s.transport.Close()
		s.state = StateDisconnected
		return err
	}
	s.state = StateLoggedIn
	return nil
}

// Query resolves a fingerprint into zero or more candidate matches. A
// no-match reply is an empty slice, not an error. Repeatable; the state
// does not change.
func (s *Session) Query(ctx context.Context, fp Fingerprint) ([]Match, error) {
	resp, err := s.exec(ctx, protocol.QueryCommand(fp))
	if err != nil {
		return nil, err
	}
	return protocol.ParseMatches(resp)
}

// Read fetches the full metadata record for one match previously returned
// by Query on this session. When the entry carries no DGENRE field, the
// genre falls back to the match's category.
func (s *Session) Read(ctx context.Context, m Match) (*Disc, error) {
	resp, err := s.exec(ctx, protocol.ReadCommand(m.Category, m.DiscID))
	if err != nil {
		return nil, err
	}
	disc, err := protocol.ParseDisc(resp)
	if err != nil {
		return nil, err
	}
	if disc.Genre == "" {
		disc.Genre = m.Category
	}
	return disc, nil
}

func (s *Session) exec(ctx context.Context, cmd string) (*protocol.Response, error) {
	switch s.state {
	case StateClosed:
		return nil, ErrSessionClosed
	case StateConnected, StateDisconnected:
		return nil, ErrNotLoggedIn
	}

	resp, err := s.transport.Exec(ctx, cmd)
	if err != nil && protocol.ShouldCloseConnection(err) {
		// The transport already shut itself down; reflect that so
		// Healthy() stops offering this session for reuse.
		s.state = StateDisconnected
	}
	return resp, err
}

// Close runs the close handshake (best effort) and releases the
// transport. Terminal and idempotent.
func (s *Session) Close() error {
	if s.state == StateClosed {
		return nil
	}
	if s.state == StateLoggedIn {
		// The server acknowledges with 230 and closes its side; a failure
		// here does not matter, the socket goes away regardless.
		ctx, cancel := context.WithTimeout(context.Background(), quitTimeout)
		_, _ = s.transport.Exec(ctx, protocol.QuitCommand())
		cancel()
	}
	s.state = StateClosed
	s.cleanup.Stop()
	return s.transport.Close()
}

// Healthy reports whether the session can still serve requests. Used by
// the pool to decide between releasing and destroying.
func (s *Session) Healthy() bool {
	return s.state == StateLoggedIn
}
