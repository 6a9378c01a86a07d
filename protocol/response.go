package protocol

// Response is a decoded server reply: the status line split into code and
// message, plus the data block when the code announces one. Body lines are
// dot-unstuffed but otherwise raw; field unescaping happens when a typed
// record is built from them.
type Response struct {
	Code    int
	Message string

	// Body holds the continuation block, one line per entry, without the
	// terminating sentinel. Nil when the status code carries no block.
	Body []string
}

// OK reports whether the response belongs to a success class.
func (r *Response) OK() bool {
	return IsSuccess(r.Code)
}

// Err maps a non-success response to a ProtocolError, preserving the
// numeric code. Returns nil for success classes.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return &ProtocolError{Code: r.Code, Message: r.Message}
}
