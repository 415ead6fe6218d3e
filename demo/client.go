package demo

import (
	"context"
	"fmt"
	"log/slog"

	"nhooyr.io/websocket"

	"github.com/codewiresh/syncwire/internal/protocol"
	"github.com/codewiresh/syncwire/internal/synctypes"
	"github.com/codewiresh/syncwire/internal/syncvalue"
)

// Client is a minimal demo counterpart to Server: it dials a sync
// endpoint and sends ClientMessages, reading exactly one ServerMessage in
// reply to each.
type Client struct {
	conn *websocket.Conn
}

// Dial opens a WebSocket connection to url (e.g. "ws://host:port/sync").
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Close sends a normal closure frame and releases the connection.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

// Connect sends the Connect handshake for a freshly generated SessionId
// and returns the server's first reply.
func (c *Client) Connect(ctx context.Context, connectionCount uint32, lastCloseReason string) (protocol.ServerMessage[syncvalue.Value], error) {
	sessionId, err := synctypes.NewSessionId()
	if err != nil {
		return protocol.ServerMessage[syncvalue.Value]{}, fmt.Errorf("generating session id: %w", err)
	}
	msg := protocol.ClientMessage{
		Kind:            protocol.MsgConnect,
		SessionId:       sessionId,
		ConnectionCount: connectionCount,
		LastCloseReason: lastCloseReason,
	}
	return c.Send(ctx, msg)
}

// Send writes a ClientMessage and blocks for exactly one ServerMessage
// reply. Transition/Ping fan-out that doesn't correspond 1:1 to a client
// request is out of scope for this demo transport; a real client runs a
// dedicated read loop instead (spec.md explicitly assigns that
// subscription bookkeeping to an external collaborator).
func (c *Client) Send(ctx context.Context, msg protocol.ClientMessage) (protocol.ServerMessage[syncvalue.Value], error) {
	out, err := encodeClientFrame(msg)
	if err != nil {
		return protocol.ServerMessage[syncvalue.Value]{}, err
	}
	if err := c.conn.Write(ctx, websocket.MessageText, out); err != nil {
		return protocol.ServerMessage[syncvalue.Value]{}, fmt.Errorf("writing %s: %w", msg.Kind, err)
	}

	_, raw, err := c.conn.Read(ctx)
	if err != nil {
		return protocol.ServerMessage[syncvalue.Value]{}, fmt.Errorf("reading reply to %s: %w", msg.Kind, err)
	}
	reply, err := decodeServerFrame(raw)
	if err != nil {
		return protocol.ServerMessage[syncvalue.Value]{}, fmt.Errorf("decoding reply to %s: %w", msg.Kind, err)
	}
	slog.Debug("received server message", "kind", reply.Kind)
	return reply, nil
}
