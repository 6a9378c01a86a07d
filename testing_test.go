package cddb

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"
)

const (
	testGreeting = "201 gnudb.org CDDBP server v1.5.2PL0 ready at Mon Aug 25 12:00:00 2025\n"
	testHelloOK  = "200 Hello and welcome anonymous@localhost running cddb-go 1.0.\n"
	testProtoOK  = "201 OK, protocol version now: 6\n"

	testHelloCmd = "cddb hello anonymous localhost cddb-go 1.0"
	testProtoCmd = "proto 6"
)

func createListener(t testing.TB, handler func(conn net.Conn)) string {
	// Start a simple test server
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start test server: %v", err)
	}

	t.Cleanup(func() {
		listener.Close()
	})

	// Accept connections in background
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}

			go func(c net.Conn) {
				defer c.Close()

				if handler != nil {
					handler(c)
				}
			}(conn)
		}
	}()

	// Give the server time to start
	time.Sleep(10 * time.Millisecond)

	return listener.Addr().String()
}

// scriptedServer speaks just enough CDDBP for the tests: a greeting on
// connect, canned replies per command line, and 230 on quit. Unknown
// commands get a 500.
func scriptedServer(t testing.TB, greeting string, replies map[string]string) string {
	return createListener(t, func(conn net.Conn) {
		if _, err := conn.Write([]byte(greeting)); err != nil {
			return
		}

		reader := bufio.NewReader(conn)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			cmd := strings.TrimRight(line, "\r\n")
			if cmd == "quit" {
				_, _ = conn.Write([]byte("230 Closing connection.  Goodbye.\n"))
				return
			}

			reply, ok := replies[cmd]
			if !ok {
				reply = "500 Unrecognized command.\n"
			}
			if _, err := conn.Write([]byte(reply)); err != nil {
				return
			}
		}
	})
}

// lineReader reads command lines inside a handler, for tests that script
// the server turn by turn instead of from a reply table.
type lineReader struct {
	conn   net.Conn
	reader *bufio.Reader
}

func newLineReader(conn net.Conn) *lineReader {
	return &lineReader{conn: conn, reader: bufio.NewReader(conn)}
}

func (r *lineReader) readLine() string {
	line, err := r.reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimRight(line, "\r\n")
}

func (r *lineReader) expect(cmd, reply string) {
	if r.readLine() == cmd {
		_, _ = r.conn.Write([]byte(reply))
	}
}

// handshakeReplies covers the login exchange for DefaultIdentity.
func handshakeReplies(extra map[string]string) map[string]string {
	replies := map[string]string{
		testHelloCmd: testHelloOK,
		testProtoCmd: testProtoOK,
	}
	for cmd, reply := range extra {
		replies[cmd] = reply
	}
	return replies
}
