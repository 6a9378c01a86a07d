package cddb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexdisc/cddb/internal/testutils"
	"github.com/hexdisc/cddb/protocol"
)

func TestStreamTransportHandshake(t *testing.T) {
	mock := testutils.NewConnectionMock(testGreeting, testHelloOK, testProtoOK)

	transport, err := NewStreamTransport(context.Background(), mock, "test:8880", StreamOptions{})
	require.NoError(t, err)
	require.Equal(t, "test:8880", transport.Addr())

	require.NoError(t, transport.Handshake(context.Background()))
	require.Equal(t, testHelloCmd+"\n"+testProtoCmd+"\n", mock.GetWrittenCommands())
}

func TestStreamTransportCustomIdentity(t *testing.T) {
	mock := testutils.NewConnectionMock(testGreeting, testHelloOK, testProtoOK)

	opts := StreamOptions{
		Identity: Identity{User: "joe", Host: "example.org", Client: "ripper", Version: "2.1"},
	}
	transport, err := NewStreamTransport(context.Background(), mock, "test:8880", opts)
	require.NoError(t, err)

	require.NoError(t, transport.Handshake(context.Background()))
	require.Equal(t, "cddb hello joe example.org ripper 2.1\nproto 6\n", mock.GetWrittenCommands())
}

func TestStreamTransportGreetingDenied(t *testing.T) {
	mock := testutils.NewConnectionMock("432 No connections allowed: permission denied.\n")

	_, err := NewStreamTransport(context.Background(), mock, "test:8880", StreamOptions{})
	var loginErr *protocol.LoginError
	require.ErrorAs(t, err, &loginErr)
	require.Equal(t, 432, loginErr.Code)
	require.True(t, mock.Closed())
}

func TestStreamTransportHelloDenied(t *testing.T) {
	mock := testutils.NewConnectionMock(testGreeting, "431 Handshake not successful.\n")

	transport, err := NewStreamTransport(context.Background(), mock, "test:8880", StreamOptions{})
	require.NoError(t, err)

	err = transport.Handshake(context.Background())
	var loginErr *protocol.LoginError
	require.ErrorAs(t, err, &loginErr)
	require.Equal(t, 431, loginErr.Code)
	require.True(t, mock.Closed())
}

func TestStreamTransportExec(t *testing.T) {
	mock := testutils.NewConnectionMock(testGreeting,
		"211 Found inexact matches, list follows (until terminating `.')\n",
		"rock abc123 Artist One / Album One\n",
		"jazz def456 Artist Two / Album Two\n",
		".\n")

	transport, err := NewStreamTransport(context.Background(), mock, "test:8880", StreamOptions{})
	require.NoError(t, err)

	resp, err := transport.Exec(context.Background(), testQueryCmd)
	require.NoError(t, err)
	require.Equal(t, protocol.CodeInexact, resp.Code)
	require.Len(t, resp.Body, 2)
	require.Equal(t, testQueryCmd+"\n", mock.GetWrittenCommands())
}

func TestStreamTransportExecAfterClose(t *testing.T) {
	mock := testutils.NewConnectionMock(testGreeting)

	transport, err := NewStreamTransport(context.Background(), mock, "test:8880", StreamOptions{})
	require.NoError(t, err)
	require.NoError(t, transport.Close())
	require.NoError(t, transport.Close())

	_, err = transport.Exec(context.Background(), testQueryCmd)
	var connErr *protocol.ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestStreamTransportTruncatedResponse(t *testing.T) {
	// Block response that ends before the sentinel.
	mock := testutils.NewConnectionMock(testGreeting,
		"210 rock aa0b5d0c\n", "DTITLE=Artist / Title\n")

	transport, err := NewStreamTransport(context.Background(), mock, "test:8880", StreamOptions{})
	require.NoError(t, err)

	_, err = transport.Exec(context.Background(), "cddb read rock aa0b5d0c")
	var term *protocol.UnexpectedTerminationError
	require.ErrorAs(t, err, &term)
	require.True(t, protocol.ShouldCloseConnection(err))

	// A half-read stream is out of sync; the transport shuts it down.
	require.True(t, mock.Closed())
}

func TestStreamTransportContextCanceled(t *testing.T) {
	mock := testutils.NewConnectionMock(testGreeting, "200 OK\n")

	transport, err := NewStreamTransport(context.Background(), mock, "test:8880", StreamOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = transport.Exec(ctx, testQueryCmd)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, mock.GetWrittenCommands())
}

func TestDialStreamRefused(t *testing.T) {
	// Nothing listens on this address.
	_, err := DialStream(context.Background(), "127.0.0.1:1", StreamOptions{})
	var connErr *protocol.ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, "dial", connErr.Op)
}
