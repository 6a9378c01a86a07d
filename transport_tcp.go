package cddb

import (
	"bufio"
	"context"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hexdisc/cddb/protocol"
)

// StreamOptions configures the persistent line-stream binding.
type StreamOptions struct {
	// Identity is sent in the hello handshake. Zero value means
	// DefaultIdentity.
	Identity Identity

	// ProtoLevel is requested after the handshake. Zero means
	// protocol.DefaultProtoLevel (6, which enables DYEAR/DGENRE).
	ProtoLevel int

	// Dialer is used to establish the connection. If nil, a default
	// net.Dialer is used.
	Dialer *net.Dialer

	// Logger traces wire traffic at debug level. Zero value is silent.
	Logger zerolog.Logger
}

// StreamTransport is the persistent socket binding: one ordered byte
// connection carrying the whole exchange, with login as a protocol-level
// handshake over the stream.
type StreamTransport struct {
	addr     string
	identity Identity
	proto    int
	log      zerolog.Logger

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	closed bool
}

var _ Transport = (*StreamTransport)(nil)

// DialStream connects to a CDDBP server and consumes its greeting banner.
// A 43x greeting means the server refused the connection; that is
// reported as a LoginError and the socket is closed.
func DialStream(ctx context.Context, addr string, opts StreamOptions) (*StreamTransport, error) {
	dialer := opts.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &protocol.ConnectionError{Op: "dial", Err: err}
	}

	return NewStreamTransport(ctx, conn, addr, opts)
}

// NewStreamTransport adopts an established connection and consumes the
// server greeting from it. Most callers want DialStream instead.
func NewStreamTransport(ctx context.Context, conn net.Conn, addr string, opts StreamOptions) (*StreamTransport, error) {
	proto := opts.ProtoLevel
	if proto == 0 {
		proto = protocol.DefaultProtoLevel
	}

	t := &StreamTransport{
		addr:     addr,
		identity: opts.Identity.orDefault(),
		proto:    proto,
		log:      opts.Logger,
		conn:     conn,
		reader:   bufio.NewReader(conn),
	}

	greeting, err := t.recv(ctx)
	if err != nil {
		t.Close()
		return nil, err
	}
	if !greeting.OK() {
		t.Close()
		return nil, &protocol.LoginError{Code: greeting.Code, Message: greeting.Message}
	}
	t.log.Debug().Str("addr", addr).Str("greeting", greeting.Message).Msg("cddb: connected")

	return t, nil
}

// Addr returns the server address.
func (t *StreamTransport) Addr() string {
	return t.addr
}

// Handshake identifies the client (cddb hello) and raises the protocol
// level so responses carry DYEAR and DGENRE. A rejected hello closes the
// connection; it is not reusable afterwards.
func (t *StreamTransport) Handshake(ctx context.Context) error {
	resp, err := t.Exec(ctx, protocol.HelloCommand(t.identity.helloArgs()))
	if err != nil {
		return err
	}
	// 402 means the handshake was already performed, which is fine.
	if !resp.OK() && resp.Code != protocol.CodeServerError {
		t.Close()
		return &protocol.LoginError{Code: resp.Code, Message: resp.Message}
	}

	resp, err = t.Exec(ctx, protocol.ProtoCommand(t.proto))
	if err != nil {
		return err
	}
	// Tolerate servers that reject the level change (501/502): the
	// session still works, older entries just lack DYEAR/DGENRE.
	if !resp.OK() && resp.Code != protocol.CodeIllegalProto && resp.Code != protocol.CodeProtoAlready {
		t.Close()
		return &protocol.LoginError{Code: resp.Code, Message: resp.Message}
	}

	return nil
}

// Exec sends one command line and decodes the reply, including any
// sentinel-terminated block. The context deadline, when set, is applied
// to the socket for the whole exchange.
func (t *StreamTransport) Exec(ctx context.Context, cmd string) (*protocol.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, &protocol.ConnectionError{Op: "write", Err: net.ErrClosed}
	}

	if deadline, ok := ctx.Deadline(); ok {
		t.conn.SetDeadline(deadline)
	} else {
		t.conn.SetDeadline(time.Time{})
	}

	t.log.Debug().Str("cmd", cmd).Msg("cddb: send")
	if _, err := t.conn.Write([]byte(cmd + "\n")); err != nil {
		t.closeLocked()
		return nil, &protocol.ConnectionError{Op: "write", Err: err}
	}

	resp, err := t.read()
	if err != nil {
		t.closeLocked()
		return nil, err
	}
	return resp, nil
}

// recv reads a server-initiated line (the greeting) without sending.
func (t *StreamTransport) recv(ctx context.Context) (*protocol.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		t.conn.SetDeadline(deadline)
	}
	resp, err := t.read()
	if err != nil {
		t.closeLocked()
		return nil, err
	}
	return resp, nil
}

func (t *StreamTransport) read() (*protocol.Response, error) {
	resp, err := protocol.ReadResponse(t.reader)
	if err != nil {
		return nil, err
	}
	t.log.Debug().Int("code", resp.Code).Str("message", resp.Message).
		Int("lines", len(resp.Body)).Msg("cddb: recv")
	return resp, nil
}

// Close shuts the connection down. Idempotent. The quit handshake is the
// session's job; at this level only the socket is released.
func (t *StreamTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	return t.closeLocked()
}

// closeLocked must be called with the lock held.
func (t *StreamTransport) closeLocked() error {
	t.closed = true
	return t.conn.Close()
}
