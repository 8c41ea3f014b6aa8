package transmission

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Method names a daemon RPC operation.
type Method string

const (
	MethodSessionGet   Method = "session-get"
	MethodSessionStats Method = "session-stats"
	MethodTorrentGet   Method = "torrent-get"
	MethodTorrentStart Method = "torrent-start"
	MethodTorrentStop  Method = "torrent-stop"
)

// ResultSuccess is the only result string that makes a response's arguments
// trustworthy.
const ResultSuccess = "success"

// methodShape describes what travels in each direction for a method. The
// wire format has no discriminant, so this table is the only thing that
// decides how a payload is read.
type methodShape struct {
	// takesArguments is false for methods whose request carries null.
	takesArguments bool
	// returnsPayload is false for commands answered with an empty success.
	returnsPayload bool
}

var methodShapes = map[Method]methodShape{
	MethodSessionGet:   {takesArguments: true, returnsPayload: true},
	MethodSessionStats: {takesArguments: false, returnsPayload: true},
	MethodTorrentGet:   {takesArguments: true, returnsPayload: true},
	MethodTorrentStart: {takesArguments: true, returnsPayload: false},
	MethodTorrentStop:  {takesArguments: true, returnsPayload: false},
}

// Arguments is a request payload. Each implementation names the methods it
// belongs to; the set is closed to this package.
type Arguments interface {
	acceptedBy(Method) bool
}

// GetSessionArgs selects session-get fields.
type GetSessionArgs struct {
	Fields []string `json:"fields"`
}

func (GetSessionArgs) acceptedBy(m Method) bool { return m == MethodSessionGet }

// GetTorrentArgs selects torrents and fields for torrent-get. A nil IDs
// slice means every torrent.
type GetTorrentArgs struct {
	IDs    []string `json:"ids,omitempty"`
	Fields []string `json:"fields"`
}

func (GetTorrentArgs) acceptedBy(m Method) bool { return m == MethodTorrentGet }

// TorrentActionArgs targets torrent-start and torrent-stop.
type TorrentActionArgs struct {
	IDs []int64 `json:"ids,omitempty"`
}

func (TorrentActionArgs) acceptedBy(m Method) bool {
	return m == MethodTorrentStart || m == MethodTorrentStop
}

// Request is the outbound envelope.
type Request struct {
	Method    Method    `json:"method"`
	Tag       *int      `json:"tag"`
	Arguments Arguments `json:"arguments"`
}

// NewRequest builds a Request after checking that args is the shape method
// expects.
func NewRequest(method Method, args Arguments) (Request, error) {
	req := Request{Method: method, Arguments: args}
	if err := req.validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

func (r Request) validate() error {
	shape, ok := methodShapes[r.Method]
	if !ok {
		return fmt.Errorf("unsupported method %q", r.Method)
	}
	switch {
	case !shape.takesArguments && r.Arguments != nil:
		return fmt.Errorf("%s takes no arguments, got %T", r.Method, r.Arguments)
	case shape.takesArguments && r.Arguments == nil:
		return fmt.Errorf("%s requires arguments", r.Method)
	case r.Arguments != nil && !r.Arguments.acceptedBy(r.Method):
		return fmt.Errorf("%T is not a valid payload for %s", r.Arguments, r.Method)
	}
	return nil
}

// EncodeRequest validates and serialises a Request.
func EncodeRequest(r Request) ([]byte, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return body, nil
}

// Response is the inbound envelope with a method-specific payload.
type Response[T any] struct {
	Arguments T      `json:"arguments"`
	Result    string `json:"result"`
	Tag       *int   `json:"tag"`
}

// DecodeResponse reads a response to method. The result string is checked
// before arguments are looked at; a non-success result never touches T.
func DecodeResponse[T any](method Method, body []byte) (Response[T], error) {
	shape, ok := methodShapes[method]
	if !ok {
		return Response[T]{}, &ProtocolError{Method: method, Err: fmt.Errorf("unsupported method %q", method)}
	}

	var raw struct {
		Arguments json.RawMessage `json:"arguments"`
		Result    string          `json:"result"`
		Tag       *int            `json:"tag"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Response[T]{}, &ProtocolError{Method: method, Err: fmt.Errorf("decode response: %w", err)}
	}
	if raw.Result == "" {
		return Response[T]{}, &ProtocolError{Method: method, Err: errors.New("response has no result")}
	}
	if raw.Result != ResultSuccess {
		return Response[T]{}, &ProtocolError{Method: method, Result: raw.Result}
	}

	resp := Response[T]{Result: raw.Result, Tag: raw.Tag}
	if !shape.returnsPayload {
		return resp, nil
	}
	if len(raw.Arguments) == 0 || string(raw.Arguments) == "null" {
		return Response[T]{}, &ProtocolError{Method: method, Err: errors.New("response has no arguments")}
	}
	if err := json.Unmarshal(raw.Arguments, &resp.Arguments); err != nil {
		return Response[T]{}, &ProtocolError{Method: method, Err: fmt.Errorf("decode arguments: %w", err)}
	}
	return resp, nil
}
