package protocol

// CDDBP server response codes. The first digit is the outcome class, the
// second digit tells whether a multi-line block follows (x1x/x2x).
const (
	// Success responses
	CodeReadWrite    = 200 // greeting, read/write access; also exact query match
	CodeReadOnly     = 201 // greeting, read-only access
	CodeNoMatch      = 202 // query found nothing
	CodeOKFollows    = 210 // success, data block follows (read; exact query matches)
	CodeInexact      = 211 // inexact query matches, list follows
	CodeClosing      = 230 // server closing connection after quit

	// Recoverable negatives
	CodeNotFound       = 401 // read: entry not found
	CodeServerError    = 402 // server error; hello: already shook hands
	CodeCorruptEntry   = 403 // database entry is corrupt
	CodeNoHandshake    = 409 // command issued before hello
	CodeHelloDenied    = 431 // handshake refused
	CodeConnectDenied  = 432 // connection refused, permission denied
	CodeTooManyUsers   = 433 // connection refused, too many users
	CodeSystemLoad     = 434 // connection refused, system load too high

	// Command errors
	CodeSyntaxError   = 500 // command syntax error or unimplemented
	CodeIllegalProto  = 501 // illegal protocol level
	CodeProtoAlready  = 502 // protocol level already set
)

// DefaultProtoLevel is requested after the handshake so responses carry
// DYEAR and DGENRE fields.
const DefaultProtoLevel = 6

// Sentinel is the line terminating a multi-line response block.
const Sentinel = "."

// Keys of the structured fields in a database entry. Anything else is
// preserved as opaque extra data.
const (
	KeyDiscID    = "DISCID"
	KeyTitle     = "DTITLE"
	KeyYear      = "DYEAR"
	KeyGenre     = "DGENRE"
	KeyTrack     = "TTITLE" // TTITLE<n>, 0-based
	KeyExtended  = "EXTD"
	KeyTrackExt  = "EXTT" // EXTT<n>, 0-based
	KeyPlayOrder = "PLAYORDER"
)

// HasBody reports whether a status code announces a multi-line block
// terminated by the sentinel. Per the protocol, a second digit of 1 or 2
// means more server output follows; error classes never carry a block.
func HasBody(code int) bool {
	if code >= 400 {
		return false
	}
	second := code / 10 % 10
	return second == 1 || second == 2
}

// IsSuccess reports whether a status code belongs to a success class
// (1xx informative or 2xx command OK).
func IsSuccess(code int) bool {
	return code >= 100 && code < 300
}
