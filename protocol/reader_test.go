package protocol

import (
	"errors"
	"testing"
)

func TestParseResponseSingleLine(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantCode    int
		wantMessage string
	}{
		{"greeting", "201 gnudb.org CDDBP server ready\n", 201, "gnudb.org CDDBP server ready"},
		{"exact match", "200 rock aa0b5d0c Artist / Title\n", 200, "rock aa0b5d0c Artist / Title"},
		{"no match", "202 No match found\n", 202, "No match found"},
		{"crlf", "200 OK\r\n", 200, "OK"},
		{"no trailing newline", "200 OK", 200, "OK"},
		{"code only", "500\n", 500, ""},
		{"closing", "230 Closing connection. Goodbye.\n", 230, "Closing connection. Goodbye."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseResponse(tt.raw)
			if err != nil {
				t.Fatalf("ParseResponse failed: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", resp.Code, tt.wantCode)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", resp.Message, tt.wantMessage)
			}
			if resp.Body != nil {
				t.Errorf("Body = %v, want nil", resp.Body)
			}
		})
	}
}

func TestParseResponseMultiLine(t *testing.T) {
	raw := "211 Found inexact matches, list follows\n" +
		"rock abc123 Artist One / Album One\n" +
		"jazz def456 Artist Two / Album Two\n" +
		".\n"

	resp, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	if resp.Code != 211 {
		t.Errorf("Code = %d, want 211", resp.Code)
	}
	if len(resp.Body) != 2 {
		t.Fatalf("Body has %d lines, want 2", len(resp.Body))
	}
	if resp.Body[0] != "rock abc123 Artist One / Album One" {
		t.Errorf("Body[0] = %q", resp.Body[0])
	}
}

func TestParseResponseDotUnstuffing(t *testing.T) {
	raw := "210 data follows\n..hello\n...\nworld\n.\n"

	resp, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	want := []string{".hello", "..", "world"}
	if len(resp.Body) != len(want) {
		t.Fatalf("Body = %v, want %v", resp.Body, want)
	}
	for i := range want {
		if resp.Body[i] != want[i] {
			t.Errorf("Body[%d] = %q, want %q", i, resp.Body[i], want[i])
		}
	}
}

func TestParseResponseEmptyBlock(t *testing.T) {
	resp, err := ParseResponse("210 data follows\n.\n")
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	if len(resp.Body) != 0 || resp.Body == nil {
		t.Errorf("Body = %#v, want empty non-nil slice", resp.Body)
	}
}

func TestParseResponseSentinelWithoutNewline(t *testing.T) {
	// HTTP bodies may end exactly at the sentinel.
	resp, err := ParseResponse("210 data follows\nDTITLE=A / B\n.")
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	if len(resp.Body) != 1 {
		t.Errorf("Body = %v, want one line", resp.Body)
	}
}

func TestParseResponseMissingSentinel(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"lines then eof", "211 list follows\nrock abc123 A / B\n"},
		{"status only", "210 data follows\n"},
		{"truncated line", "210 data follows\nDTITLE=A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.raw)
			var term *UnexpectedTerminationError
			if !errors.As(err, &term) {
				t.Fatalf("error = %v, want UnexpectedTerminationError", err)
			}
		})
	}
}

func TestParseResponseMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty line", "\n"},
		{"no code", "hello world\n"},
		{"short code", "20 OK\n"},
		{"code glued to message", "200OK\n"},
		{"negative-looking", "-20 OK\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.raw)
			var malformed *MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("error = %v, want MalformedResponseError", err)
			}
		})
	}
}

func TestHasBody(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{200, false},
		{201, false},
		{202, false},
		{210, true},
		{211, true},
		{230, false},
		{401, false},
		{402, false},
		{409, false},
		{500, false},
	}

	for _, tt := range tests {
		if got := HasBody(tt.code); got != tt.want {
			t.Errorf("HasBody(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestResponseErr(t *testing.T) {
	resp := &Response{Code: 401, Message: "Specified CDDB entry not found."}
	err := resp.Err()
	var perr *ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("Err() = %v, want ProtocolError", err)
	}
	if perr.Code != 401 {
		t.Errorf("Code = %d, want 401", perr.Code)
	}
	if ShouldCloseConnection(err) {
		t.Error("ProtocolError should not require closing the connection")
	}

	ok := &Response{Code: 200, Message: "OK"}
	if ok.Err() != nil {
		t.Errorf("Err() = %v, want nil", ok.Err())
	}
}
