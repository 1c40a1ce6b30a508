// Package client implements the kvd protocol from the caller's side. Each
// call dials the server, sends one request, and reads one response; the dial
// is retried with exponential backoff so a just-started daemon is not a
// race.
package client

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dotcommander/kvd/internal/protocol"
)

const dialTimeout = 500 * time.Millisecond

// ServerError is a failure reported by the server (status ERROR), as opposed
// to a transport failure.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string { return e.Message }

// Client speaks the kvd protocol to a server at addr.
type Client struct {
	addr string
}

// New returns a client for the server at addr.
func New(addr string) *Client {
	return &Client{addr: addr}
}

// Do sends one request and returns the decoded response. A response with
// status ERROR is returned as a *ServerError.
func (c *Client) Do(req protocol.Request) (protocol.Response, error) {
	conn, err := c.dial()
	if err != nil {
		return protocol.Response{}, err
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(&req); err != nil {
		return protocol.Response{}, err
	}
	var resp protocol.Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return protocol.Response{}, err
	}
	if resp.Status != protocol.StatusOK {
		return resp, &ServerError{Message: fmt.Sprintf("%v", resp.Result)}
	}
	return resp, nil
}

// dial connects with exponential backoff on transient refusals.
func (c *Client) dial() (net.Conn, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 1 * time.Second
	b.MaxElapsedTime = 5 * time.Second
	b.RandomizationFactor = 0.1

	var conn net.Conn
	err := backoff.Retry(func() error {
		cn, err := net.DialTimeout("tcp", c.addr, dialTimeout)
		if err != nil {
			return err
		}
		conn = cn
		return nil
	}, b)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Ping returns the server's fixed acknowledgement.
func (c *Client) Ping() (string, error) {
	resp, err := c.Do(protocol.Request{Command: protocol.CmdPing})
	if err != nil {
		return "", err
	}
	s, _ := resp.Result.(string)
	return s, nil
}

// Get returns the value stored at key, or nil when absent.
func (c *Client) Get(key string) (any, error) {
	resp, err := c.Do(protocol.Request{
		Command: protocol.CmdGet,
		Args:    map[string]any{"key": key},
	})
	if err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// Set stores value at key with an optional TTL in seconds (0 = persistent).
func (c *Client) Set(key string, value any, ttlSeconds int64) error {
	args := map[string]any{"key": key, "value": value}
	if ttlSeconds > 0 {
		args["ttl"] = ttlSeconds
	}
	_, err := c.Do(protocol.Request{Command: protocol.CmdSet, Args: args})
	return err
}

// Delete removes key. Absent keys are not an error.
func (c *Client) Delete(key string) error {
	_, err := c.Do(protocol.Request{
		Command: protocol.CmdDelete,
		Args:    map[string]any{"key": key},
	})
	return err
}

// Incr adds by to the integer stored at key and returns the new value.
func (c *Client) Incr(key string, by int64) (int64, error) {
	args := map[string]any{"key": key}
	if by != 1 {
		args["increment_by"] = by
	}
	resp, err := c.Do(protocol.Request{Command: protocol.CmdIncr, Args: args})
	if err != nil {
		return 0, err
	}
	return resultInt(resp.Result), nil
}

// Decr subtracts one from the integer stored at key and returns the new
// value.
func (c *Client) Decr(key string) (int64, error) {
	resp, err := c.Do(protocol.Request{
		Command: protocol.CmdDecr,
		Args:    map[string]any{"key": key},
	})
	if err != nil {
		return 0, err
	}
	return resultInt(resp.Result), nil
}

// TTL returns the remaining lifetime of key in seconds.
func (c *Client) TTL(key string) (int64, error) {
	resp, err := c.Do(protocol.Request{
		Command: protocol.CmdTTL,
		Args:    map[string]any{"key": key},
	})
	if err != nil {
		return 0, err
	}
	return resultInt(resp.Result), nil
}

// Expire resets the TTL of key in seconds (0 = make persistent).
func (c *Client) Expire(key string, ttlSeconds int64) error {
	_, err := c.Do(protocol.Request{
		Command: protocol.CmdExpire,
		Args:    map[string]any{"key": key, "ttl": ttlSeconds},
	})
	return err
}

// resultInt narrows a decoded JSON number to int64.
func resultInt(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case json.Number:
		i, _ := n.Int64()
		return i
	default:
		return 0
	}
}
