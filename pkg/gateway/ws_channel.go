package gateway

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsChannel adapts one WebSocket connection to notify.Channel. Events go
// out as text messages carrying the same frame bytes as the event stream,
// so display firmware parses both transports with one decoder. The mutex
// keeps fanout writes and keep-alive pings off the connection at the same
// time; gorilla connections support one concurrent writer.
type wsChannel struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func newWSChannel(conn *websocket.Conn, writeTimeout time.Duration) *wsChannel {
	return &wsChannel{conn: conn, writeTimeout: writeTimeout}
}

func (c *wsChannel) Write(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.conn.WriteMessage(websocket.TextMessage, p)
}

// ping sends a keep-alive control frame. A write error here means the
// display is gone and the subscribe handler should wind down.
func (c *wsChannel) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
}
