package protocol

import (
	"sort"
	"strconv"
	"strings"
)

// ParseDisc builds a Disc from a read response. The body is a block of
// KEY=value lines; values split by the server across several lines with
// the same key are concatenated in arrival order before unescaping.
// Comment lines (leading '#') frame the block and are skipped.
//
// A track-title count that differs from the originating fingerprint is
// not an error: the record stores what the server sent.
func ParseDisc(resp *Response) (*Disc, error) {
	if err := resp.Err(); err != nil {
		return nil, err
	}

	fields, err := collectFields(resp.Body)
	if err != nil {
		return nil, err
	}

	disc := &Disc{}
	trackTitles := map[int]string{}
	trackExts := map[int]string{}

	for _, f := range fields {
		switch {
		case f.Key == KeyDiscID:
			disc.DiscID = strings.TrimSpace(f.Value)

		case f.Key == KeyTitle:
			disc.Artist, disc.Title = SplitArtistTitle(UnescapeField(f.Value))

		case f.Key == KeyYear:
			if y, err := strconv.Atoi(strings.TrimSpace(f.Value)); err == nil && y > 0 {
				disc.Year = y
			}

		case f.Key == KeyGenre:
			disc.Genre = strings.TrimSpace(UnescapeField(f.Value))

		case f.Key == KeyExtended:
			disc.Extended = UnescapeField(f.Value)

		case f.Key == KeyPlayOrder:
			disc.PlayOrder = strings.TrimSpace(f.Value)

		case strings.HasPrefix(f.Key, KeyTrackExt):
			n, ok := trackIndex(f.Key, KeyTrackExt)
			if !ok {
				disc.Extra = append(disc.Extra, f)
				continue
			}
			trackExts[n] = UnescapeField(f.Value)

		case strings.HasPrefix(f.Key, KeyTrack):
			n, ok := trackIndex(f.Key, KeyTrack)
			if !ok {
				disc.Extra = append(disc.Extra, f)
				continue
			}
			trackTitles[n] = UnescapeField(f.Value)

		default:
			disc.Extra = append(disc.Extra, f)
		}
	}

	// Protocol level 6 delivers the year in DYEAR; older entries only
	// carry it inside EXTD as "YEAR: 1978".
	if disc.Year == 0 {
		disc.Year = yearFromExtended(disc.Extended)
	}

	indices := make([]int, 0, len(trackTitles))
	for n := range trackTitles {
		indices = append(indices, n)
	}
	sort.Ints(indices)

	for _, n := range indices {
		disc.Tracks = append(disc.Tracks, Track{
			Number:   n + 1,
			Title:    trackTitles[n],
			Artist:   disc.Artist,
			Extended: trackExts[n],
		})
	}

	return disc, nil
}

// collectFields splits KEY=value lines and merges repeated keys in
// arrival order, preserving overall field order.
func collectFields(body []string) ([]Field, error) {
	var fields []Field
	index := map[string]int{}

	for _, line := range body {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &MalformedResponseError{Line: line}
		}
		if i, seen := index[key]; seen {
			fields[i].Value += value
			continue
		}
		index[key] = len(fields)
		fields = append(fields, Field{Key: key, Value: value})
	}
	return fields, nil
}

// trackIndex parses the numeric suffix of TTITLE<n> / EXTT<n> keys.
func trackIndex(key, prefix string) (int, bool) {
	n, err := strconv.Atoi(key[len(prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// yearFromExtended recovers a release year from free-form extended data
// of the shape "... YEAR: 1978 ...".
func yearFromExtended(extd string) int {
	_, rest, ok := strings.Cut(extd, "YEAR:")
	if !ok {
		return 0
	}
	token := strings.Fields(rest)
	if len(token) == 0 {
		return 0
	}
	y, err := strconv.Atoi(token[0])
	if err != nil || y <= 0 {
		return 0
	}
	return y
}
