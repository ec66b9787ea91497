package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// RPCError is a JSON-RPC error object returned by the provider.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// ErrClosed is returned by calls on, or interrupted by, a closed connection.
var ErrClosed = errors.New("rpc connection closed")

// RPC is a JSON-RPC 2.0 client over a websocket. Calls are serialised; Close
// does not wait for them and interrupts any pending read.
type RPC struct {
	mu     sync.Mutex // serialises calls
	nextID uint64

	conn   *websocket.Conn
	closed atomic.Bool
}

// Dial connects to rawURL, adding projectId to the query when set.
func Dial(ctx context.Context, rawURL, projectID string) (*RPC, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("unsupported rpc url scheme %q", u.Scheme)
	}
	if projectID != "" {
		q := u.Query()
		q.Set("projectId", projectID)
		u.RawQuery = q.Encode()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	return &RPC{conn: conn}, nil
}

// Call sends method with params and decodes the result into out.
func (r *RPC) Call(ctx context.Context, method string, params any, out any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return ErrClosed
	}
	if params == nil {
		params = []any{}
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(15 * time.Second)
	}
	_ = r.conn.SetWriteDeadline(deadline)
	_ = r.conn.SetReadDeadline(deadline)

	r.nextID++
	id := r.nextID
	if err := r.conn.WriteJSON(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}); err != nil {
		return r.wrap(method, "write", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var resp rpcResponse
		if err := r.conn.ReadJSON(&resp); err != nil {
			return r.wrap(method, "read", err)
		}
		// Notifications and replies to abandoned calls carry other ids.
		if resp.ID != id {
			continue
		}
		if resp.Error != nil {
			return resp.Error
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
		return nil
	}
}

// Close closes the underlying connection. Only the first call has an effect.
func (r *RPC) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	return r.conn.Close()
}

func (r *RPC) wrap(method, op string, err error) error {
	if r.closed.Load() {
		return fmt.Errorf("%s: %w", method, ErrClosed)
	}
	return fmt.Errorf("%s: %s: %w", method, op, err)
}
