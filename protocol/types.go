package protocol

// Fingerprint identifies a disc by its track layout. It is computed
// externally (from the physical medium or an image) and treated here as an
// opaque, pre-validated lookup key.
type Fingerprint struct {
	// DiscID is the 8-digit hex identifier in the canonical short form.
	DiscID string

	// Offsets holds the frame offset of each track, in track order.
	Offsets []int

	// Seconds is the total disc length.
	Seconds int
}

// Match is one candidate returned by a query, not yet fully resolved.
// Its category and disc ID together form the key for a subsequent read.
type Match struct {
	Category string
	DiscID   string
	Artist   string
	Title    string
}

// String returns the display title as sent by the server.
func (m Match) String() string {
	if m.Artist == "" {
		return m.Title
	}
	return m.Artist + " / " + m.Title
}

// Track is one entry of a disc's track list.
type Track struct {
	Number   int // 1-based; TTITLE keys on the wire are 0-based
	Title    string
	Artist   string
	Extended string // EXTT<n> free-form text
}

// Field is an opaque KEY=value pair the client does not interpret.
type Field struct {
	Key   string
	Value string
}

// Disc is the full metadata record produced by a read. It is built once
// and owned solely by the caller.
type Disc struct {
	DiscID    string
	Title     string
	Artist    string
	Year      int // 0 when the server did not supply one
	Genre     string
	Tracks    []Track
	Extended  string // EXTD free-form text
	PlayOrder string

	// Extra preserves unrecognized keys in arrival order, tolerating
	// server extensions instead of dropping them.
	Extra []Field
}
