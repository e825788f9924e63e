// Package companion maintains the outbound link to the external
// companion process. The link is a thin point-to-point relay: sends
// are fire-and-forget behind a connected flag, never retried, and a
// dead link is only revived by an explicit reconnect.
package companion

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"witherwatch.gg/internal/dungeon"
	"witherwatch.gg/internal/protocol"
)

const writeTimeout = 5 * time.Second

type Client struct {
	url    string
	sender string
	log    *log.Logger

	mu   sync.Mutex
	conn *websocket.Conn
	open bool
}

func New(url, sender string, logger *log.Logger) *Client {
	if sender == "" {
		sender = protocol.DefaultSender
	}
	return &Client{url: url, sender: sender, log: logger}
}

// Connect dials the companion and announces identity. A failed dial
// leaves the client closed; callers decide whether that is fatal.
func (c *Client) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return err
	}

	ident, err := json.Marshal(protocol.IdentificationMsg{
		Type:   protocol.TypeIdentification,
		Sender: c.sender,
	})
	if err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		err = conn.WriteMessage(websocket.TextMessage, ident)
	}
	if err != nil {
		_ = conn.Close()
		return err
	}

	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = conn
	c.open = true
	c.mu.Unlock()

	if c.log != nil {
		c.log.Printf("companion link open: %s", c.url)
	}
	go c.readLoop(conn)
	return nil
}

// readLoop drains inbound messages. The companion may send arbitrary
// text; it is logged and never interpreted.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			c.detach(conn)
			return
		}
		if c.log != nil {
			c.log.Printf("companion: %s", msg)
		}
	}
}

func (c *Client) detach(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.open = false
	}
	c.mu.Unlock()
	_ = conn.Close()
	if c.log != nil {
		c.log.Printf("companion link closed")
	}
}

// Reconnect closes any current link and dials again. This is the
// operator's manual trigger; nothing reconnects automatically.
func (c *Client) Reconnect() error {
	c.Close()
	return c.Connect()
}

func (c *Client) Close() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.open = false
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// SendDoors relays a pre-serialized doorLocations payload.
func (c *Client) SendDoors(payload []byte) bool {
	return c.sendRaw(payload)
}

// SendGoto relays a GOTO action for the given standing position.
func (c *Client) SendGoto(pos dungeon.Vec3i) bool {
	b, err := json.Marshal(protocol.ActionMsg{
		Type:   protocol.TypeAction,
		Action: protocol.ActionGoto,
		Sender: c.sender,
		Data:   protocol.GotoData{X: pos.X, Y: pos.Y, Z: pos.Z},
	})
	if err != nil {
		return false
	}
	return c.sendRaw(b)
}

func (c *Client) sendRaw(b []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open || c.conn == nil {
		return false
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		if c.log != nil {
			c.log.Printf("companion send failed: %v", err)
		}
		_ = c.conn.Close()
		c.conn = nil
		c.open = false
		return false
	}
	return true
}
