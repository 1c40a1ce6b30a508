// Package protocol defines the line-delimited JSON request/response types
// exchanged between the kvd server and its clients. One request produces
// exactly one response; messages are newline-delimited on the wire, which
// json.Encoder/json.Decoder handle per connection.
package protocol

// Command names understood by the dispatcher.
const (
	CmdPing   = "PING"
	CmdGet    = "GET"
	CmdSet    = "SET"
	CmdDelete = "DELETE"
	CmdIncr   = "INCR"
	CmdDecr   = "DECR"
	CmdTTL    = "TTL"
	CmdExpire = "EXPIRE"
)

// Response statuses.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Pong is the fixed acknowledgement returned by PING.
const Pong = "PONG"

// Request is one command with its named-argument bag.
type Request struct {
	Command string         `json:"command"`
	Args    map[string]any `json:"args,omitempty"`
}

// Response carries either a result value (status OK) or a human-readable
// error message (status ERROR). Result is always serialized, so successful
// commands without a value report an explicit null.
type Response struct {
	Status string `json:"status"`
	Result any    `json:"result"`
}

// OK wraps a successful result.
func OK(result any) Response {
	return Response{Status: StatusOK, Result: result}
}

// Error wraps a failure as a response; the message is the error text.
func Error(err error) Response {
	return Response{Status: StatusError, Result: err.Error()}
}
