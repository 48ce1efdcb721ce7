package simclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"drivesim.dev/internal/protocol"
)

// Client is a synchronous session with a running simulator. All commands are
// strict request/response over a single websocket: one REQ in flight, each
// answered by a RESP with the same id. There are no timeouts below the dial;
// a hung simulator blocks the caller, which is the accepted contract for a
// deterministic synchronous-mode session.
type Client struct {
	conn    *websocket.Conn
	seq     uint64
	session string
	params  protocol.WorldParams
}

// RemoteError is a command rejected by the simulator.
type RemoteError struct {
	Cmd     string
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Cmd, e.Message, e.Code)
}

// Dial connects, performs the HELLO/WELCOME handshake and returns a ready
// session. The context bounds only the dial and handshake.
func Dial(ctx context.Context, url, clientName string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      clientName,
	}
	if err := conn.WriteJSON(hello); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send HELLO: %w", err)
	}

	_, msg, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read WELCOME: %w", err)
	}
	var welcome protocol.WelcomeMsg
	if err := json.Unmarshal(msg, &welcome); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("decode WELCOME: %w", err)
	}
	if welcome.Type != protocol.TypeWelcome {
		_ = conn.Close()
		return nil, fmt.Errorf("expected WELCOME, got %q", welcome.Type)
	}
	if welcome.ProtocolVersion != protocol.Version {
		_ = conn.Close()
		return nil, fmt.Errorf("protocol version mismatch: server %q, client %q", welcome.ProtocolVersion, protocol.Version)
	}
	if !welcome.WorldParams.Synchronous {
		_ = conn.Close()
		return nil, fmt.Errorf("simulator session is not synchronous; the suite requires synchronous stepping")
	}

	return &Client{
		conn:    conn,
		session: welcome.SessionID,
		params:  welcome.WorldParams,
	}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) SessionID() string                 { return c.session }
func (c *Client) WorldParams() protocol.WorldParams { return c.params }

// World returns the handle for the currently loaded world. The handle stays
// valid across LoadWorld; actor handles do not.
func (c *Client) World() *World { return &World{c: c} }

func (c *Client) call(cmd string, params, result any) error {
	c.seq++
	id := c.seq

	req := protocol.ReqMsg{
		Type:            protocol.TypeReq,
		ProtocolVersion: protocol.Version,
		ID:              id,
		Cmd:             cmd,
	}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("%s: encode params: %w", cmd, err)
		}
		req.Params = raw
	}
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("%s: write: %w", cmd, err)
	}

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("%s: read: %w", cmd, err)
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil || base.Type != protocol.TypeResp {
			continue
		}
		var resp protocol.RespMsg
		if err := json.Unmarshal(msg, &resp); err != nil {
			return fmt.Errorf("%s: decode RESP: %w", cmd, err)
		}
		if resp.ID != id {
			// Stale response from an aborted session; skip.
			continue
		}
		if !resp.OK {
			return &RemoteError{Cmd: cmd, Code: resp.Code, Message: resp.Message}
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("%s: decode result: %w", cmd, err)
			}
		}
		return nil
	}
}
