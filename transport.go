package cddb

import (
	"context"

	"github.com/hexdisc/cddb/protocol"
)

// Transport carries encoded command lines to a server and returns decoded
// responses. The two bindings differ only in how login state is tracked:
// the persistent stream performs a real handshake, the one-shot HTTP
// binding authenticates every request and its Handshake is a no-op.
//
// A Transport serializes its own wire access, but the protocol allows at
// most one outstanding exchange per logical connection, so higher layers
// must not issue concurrent commands through one Transport.
type Transport interface {
	// Handshake performs whatever login the binding requires. Called once
	// by Session.Login.
	Handshake(ctx context.Context) error

	// Exec sends one encoded command line and returns the decoded
	// response, including any sentinel-terminated block.
	Exec(ctx context.Context, cmd string) (*protocol.Response, error)

	// Close releases the underlying resources. Safe to call twice.
	Close() error
}
