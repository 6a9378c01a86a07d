package protocol

import "strings"

// ParseMatches builds the candidate list from a query response.
//
// The status code tells the shape: 200 carries the single exact match in
// the status line itself, 210/211 are followed by one match per body line,
// 202 means no match (an empty list, not an error). Anything else is the
// server saying no, surfaced as a ProtocolError.
func ParseMatches(resp *Response) ([]Match, error) {
	switch resp.Code {
	case CodeReadWrite:
		m, err := parseMatchLine(resp.Message)
		if err != nil {
			return nil, err
		}
		return []Match{m}, nil

	case CodeOKFollows, CodeInexact:
		matches := make([]Match, 0, len(resp.Body))
		for _, line := range resp.Body {
			m, err := parseMatchLine(line)
			if err != nil {
				return nil, err
			}
			matches = append(matches, m)
		}
		return matches, nil

	case CodeNoMatch:
		return nil, nil

	default:
		return nil, resp.Err()
	}
}

// parseMatchLine tokenizes "category discid display title" and splits the
// display title into artist and album title.
func parseMatchLine(line string) (Match, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		return Match{}, &MalformedResponseError{Line: line}
	}

	artist, title := SplitArtistTitle(parts[2])
	return Match{
		Category: parts[0],
		DiscID:   parts[1],
		Artist:   artist,
		Title:    title,
	}, nil
}

// SplitArtistTitle splits a display title on " / " with a bare "/" as
// fallback, so "AC/DC / Back In Black" keeps its artist intact. A title
// with no separator at all has no artist part.
func SplitArtistTitle(display string) (artist, title string) {
	if a, t, ok := strings.Cut(display, " / "); ok {
		return strings.TrimSpace(a), strings.TrimSpace(t)
	}
	if a, t, ok := strings.Cut(display, "/"); ok {
		return strings.TrimSpace(a), strings.TrimSpace(t)
	}
	return "", strings.TrimSpace(display)
}
