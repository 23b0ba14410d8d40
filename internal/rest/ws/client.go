package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// client wraps a gorilla connection behind the room.Client interface. A
// mutex serializes writes: messages for one connection may originate from
// any session goroutine via a group broadcast.
type client struct {
	conn *websocket.Conn

	mtx sync.Mutex
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn}
}

func (c *client) Send(v interface{}) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *client) Close() error {
	return c.conn.Close()
}

func (c *client) ping() error {
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}
