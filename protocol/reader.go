package protocol

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ReadResponse decodes one server reply from r: the status line, then,
// when the code announces it, the continuation block up to the sentinel
// line. Lines are accepted with either LF or CRLF endings.
//
// Errors:
//   - MalformedResponseError: status line without a leading 3-digit code
//   - UnexpectedTerminationError: end-of-stream before the sentinel
//   - ConnectionError: any other read failure
func ReadResponse(r *bufio.Reader) (*Response, error) {
	status, err := readLine(r)
	if err != nil {
		return nil, &ConnectionError{Op: "read", Err: err}
	}

	code, message, err := splitStatus(status)
	if err != nil {
		return nil, err
	}

	resp := &Response{Code: code, Message: message}
	if !HasBody(code) {
		return resp, nil
	}

	resp.Body = []string{}
	for {
		line, err := readLine(r)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, &UnexpectedTerminationError{Err: err}
			}
			return nil, &ConnectionError{Op: "read", Err: err}
		}
		if line == Sentinel {
			return resp, nil
		}
		resp.Body = append(resp.Body, UnstuffLine(line))
	}
}

// ParseResponse decodes a complete response held in memory, as delivered
// by the one-shot HTTP binding.
func ParseResponse(raw string) (*Response, error) {
	return ReadResponse(bufio.NewReader(strings.NewReader(raw)))
}

// splitStatus splits "210 OK, CDDB database entry follows" into code and
// message. The code must be exactly three digits followed by a space or
// end of line.
func splitStatus(line string) (int, string, error) {
	if len(line) < 3 || !isDigits(line[:3]) {
		return 0, "", &MalformedResponseError{Line: line}
	}
	code, err := strconv.Atoi(line[:3])
	if err != nil {
		return 0, "", &MalformedResponseError{Line: line, Err: err}
	}

	switch {
	case len(line) == 3:
		return code, "", nil
	case line[3] == ' ':
		return code, line[4:], nil
	default:
		return 0, "", &MalformedResponseError{Line: line}
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// readLine returns the next line without its terminator. A final line
// lacking a newline is returned with io.EOF deferred to the next call, so
// HTTP bodies that end exactly at the sentinel still parse.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	if err != nil && line != "" {
		// Last line without newline: deliver it now.
		return strings.TrimRight(line, "\r"), nil
	}
	return strings.TrimRight(line, "\r\n"), nil
}
