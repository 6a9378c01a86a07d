package cddb

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/hexdisc/cddb/protocol"
)

// DefaultHTTPPath is the conventional location of the CDDB CGI endpoint.
const DefaultHTTPPath = "/~cddb/cddb.cgi"

// HTTPOptions configures the one-shot request/response binding.
type HTTPOptions struct {
	// Identity is sent as the hello= parameter on every request. Zero
	// value means DefaultIdentity.
	Identity Identity

	// ProtoLevel is sent as the proto= parameter. Zero means
	// protocol.DefaultProtoLevel.
	ProtoLevel int

	// Client is the HTTP client to use. If nil, http.DefaultClient.
	Client *http.Client

	// Logger traces wire traffic at debug level. Zero value is silent.
	Logger zerolog.Logger
}

// HTTPTransport issues each CDDB command as one self-contained GET
// against the cddb.cgi endpoint. Every request carries the identification
// parameters, so there is no persistent login state: Handshake is a
// no-op pass-through.
type HTTPTransport struct {
	endpoint string
	identity Identity
	proto    int
	client   *http.Client
	log      zerolog.Logger
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport builds a transport for a server base URL such as
// "http://gnudb.gnudb.org". A URL without a path gets DefaultHTTPPath.
func NewHTTPTransport(baseURL string, opts HTTPOptions) (*HTTPTransport, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("cddb: invalid server URL %q: %w", baseURL, err)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = DefaultHTTPPath
	}

	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	proto := opts.ProtoLevel
	if proto == 0 {
		proto = protocol.DefaultProtoLevel
	}

	return &HTTPTransport{
		endpoint: u.String(),
		identity: opts.Identity.orDefault(),
		proto:    proto,
		client:   client,
		log:      opts.Logger,
	}, nil
}

// Handshake is a no-op: each request authenticates itself.
func (t *HTTPTransport) Handshake(ctx context.Context) error {
	return nil
}

// Exec issues the command as a GET whose parameters encode the command
// and the fixed identification values. The response body is the same
// status-line-plus-block text format as the stream binding.
func (t *HTTPTransport) Exec(ctx context.Context, cmd string) (*protocol.Response, error) {
	params := url.Values{}
	params.Set("cmd", cmd)
	params.Set("hello", t.identity.helloArgs())
	params.Set("proto", strconv.Itoa(t.proto))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &protocol.ConnectionError{Op: "request", Err: err}
	}

	t.log.Debug().Str("cmd", cmd).Str("url", t.endpoint).Msg("cddb: send")
	httpResp, err := t.client.Do(req)
	if err != nil {
		return nil, &protocol.ConnectionError{Op: "request", Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, &protocol.ConnectionError{
			Op:  "request",
			Err: fmt.Errorf("unexpected HTTP status %s", httpResp.Status),
		}
	}

	resp, err := protocol.ReadResponse(bufio.NewReader(httpResp.Body))
	if err != nil {
		return nil, err
	}
	t.log.Debug().Int("code", resp.Code).Str("message", resp.Message).
		Int("lines", len(resp.Body)).Msg("cddb: recv")
	return resp, nil
}

// Close is a no-op: the binding holds no persistent resources.
func (t *HTTPTransport) Close() error {
	return nil
}
