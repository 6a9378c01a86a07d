// Package protocol implements the wire level of CDDBP, the line-oriented
// text protocol used by gnudb/FreeDB-style servers.
//
// It is a foundation for higher-level clients and stays free of
// architectural decisions: no connection management, no state. Encoders
// produce command lines, ReadResponse/ParseResponse decode a status line
// plus optional sentinel-terminated block, and ParseMatches/ParseDisc
// build typed records from decoded responses.
//
// # Wire format
//
// Commands are single lines of space-separated tokens:
//
//	cddb hello joe example.org cddb 1.0
//	proto 6
//	cddb query aa0b5d0c 3 150 16200 32984 2828
//	cddb read rock aa0b5d0c
//
// Responses open with a 3-digit status code. When the second digit is 1
// or 2 a data block follows, terminated by a line holding a single dot.
// Payload lines starting with a dot are sent with the dot doubled;
// embedded newlines and tabs inside field values travel as \n and \t.
//
// # Error handling
//
// Decoding and parsing return typed errors that indicate whether the
// connection can still be trusted. Use ShouldCloseConnection to decide
// between releasing and destroying a pooled connection:
//
//	resp, err := protocol.ReadResponse(r)
//	if err != nil {
//	    if protocol.ShouldCloseConnection(err) {
//	        conn.Close()
//	    }
//	    return err
//	}
//
// Request/response pairs on one connection must be serialized by the
// caller; the package itself holds no shared state.
package protocol
