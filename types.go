package cddb

import "github.com/hexdisc/cddb/protocol"

// The record types are defined next to the parsers in the protocol
// package; they are aliased here so callers of the session and client API
// only deal with this package.
type (
	Fingerprint = protocol.Fingerprint
	Match       = protocol.Match
	Disc        = protocol.Disc
	Track       = protocol.Track
)

// Identity is the client identification sent in the hello handshake (and
// as the hello= parameter of the HTTP binding).
type Identity struct {
	User    string
	Host    string
	Client  string
	Version string
}

// DefaultIdentity identifies this library. Servers only require the
// fields to be non-empty.
func DefaultIdentity() Identity {
	return Identity{
		User:    "anonymous",
		Host:    "localhost",
		Client:  "cddb-go",
		Version: "1.0",
	}
}

func (id Identity) orDefault() Identity {
	if id == (Identity{}) {
		return DefaultIdentity()
	}
	return id
}

func (id Identity) helloArgs() string {
	return protocol.HelloArgs(id.User, id.Host, id.Client, id.Version)
}
