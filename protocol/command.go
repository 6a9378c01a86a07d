package protocol

import (
	"strconv"
	"strings"
)

// Commands are single lines of space-separated tokens. The encoders below
// return the line without a trailing newline; the transport owns line
// termination (the HTTP binding sends the same line as a query parameter).

// HelloArgs builds the argument string of the hello handshake,
// "user host client version". The same string is the hello= parameter of
// the HTTP binding.
func HelloArgs(user, host, client, version string) string {
	return user + " " + host + " " + client + " " + version
}

// HelloCommand encodes the login handshake.
func HelloCommand(args string) string {
	return "cddb hello " + args
}

// ProtoCommand encodes a protocol level change.
func ProtoCommand(level int) string {
	return "proto " + strconv.Itoa(level)
}

// QueryCommand encodes a query-by-fingerprint:
// cddb query <discid> <ntracks> <offset>... <seconds>
func QueryCommand(fp Fingerprint) string {
	var b strings.Builder
	b.WriteString("cddb query ")
	b.WriteString(fp.DiscID)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(len(fp.Offsets)))
	for _, off := range fp.Offsets {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(off))
	}
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(fp.Seconds))
	return b.String()
}

// ReadCommand encodes a read of one candidate match:
// cddb read <category> <discid>
func ReadCommand(category, discID string) string {
	return "cddb read " + category + " " + discID
}

// QuitCommand encodes the close handshake.
func QuitCommand() string {
	return "quit"
}
