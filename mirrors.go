package cddb

import (
	"github.com/zeebo/xxh3"

	"github.com/hexdisc/cddb/internal"
)

// Mirrors provides the current list of server addresses. Implementations
// may be static or backed by discovery of the caller's own making.
type Mirrors interface {
	List() []string
}

// MirrorSelector picks which mirror serves a given disc ID. It receives
// the disc ID and the mirror count and returns an index into the list.
type MirrorSelector func(discID string, mirrorCount int) int

// DefaultMirrorSelector uses Jump Hash over an xxh3 digest of the disc
// ID, so repeated lookups of one disc land on the same mirror and adding
// a mirror moves as few discs as possible.
func DefaultMirrorSelector(discID string, mirrorCount int) int {
	return internal.JumpHash(xxh3.HashString(discID), mirrorCount)
}

type staticMirrors struct {
	addresses []string
}

// MirrorsFromAddr builds a static mirror list.
func MirrorsFromAddr(addresses ...string) Mirrors {
	if len(addresses) == 0 {
		panic("cddb: MirrorsFromAddr requires at least one address")
	}
	return &staticMirrors{addresses: addresses}
}

func (s *staticMirrors) List() []string {
	return s.addresses
}
