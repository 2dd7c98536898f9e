package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

var errConnDead = errors.New("connection dead or send buffer full")

// Peer is the registry's and fanout engine's view of one live
// connection. Send must fail fast once the connection is dead; that
// error is the only dead-connection signal the engine acts on.
type Peer interface {
	ID() string
	Send(v any) error
	Close() error
}

// Conn wraps a websocket with a buffered outbound queue so a slow or
// dead recipient never blocks a fanout in progress.
type Conn struct {
	ws   *websocket.Conn
	out  chan []byte
	done chan struct{}
	once sync.Once

	connID string // correlation id for logs
	peer   string // client-claimed peer id, set at join
}

// Accept upgrades HTTP to websocket (allow all origins)
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

// NewConn wraps an accepted websocket connection
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ws:     ws,
		out:    make(chan []byte, 256),
		done:   make(chan struct{}),
		connID: uuid.NewString(),
	}
}

func (c *Conn) ID() string { return c.peer }

// Send marshals v and queues it for the write loop. A closed
// connection or full queue reports the recipient as dead.
func (c *Conn) Send(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return errConnDead
	default:
	}
	select {
	case c.out <- b:
		return nil
	case <-c.done:
		return errConnDead
	default:
		return errConnDead
	}
}

// Read blocks until the next text/binary message. Returns false once
// the connection is closed or the context expires.
func (c *Conn) Read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			return data, true
		}
	}
}

// WriteLoop drains the outbound queue and sends periodic pings.
// Any write error marks the connection dead and exits.
func (c *Conn) WriteLoop(ctx context.Context) {
	defer c.kill()

	t := time.NewTicker(20 * time.Second)
	defer t.Stop()

	for {
		select {
		case b := <-c.out:
			if err := c.ws.Write(ctx, websocket.MessageText, b); err != nil {
				return
			}
		case <-t.C:
			if err := c.ws.Ping(ctx); err != nil {
				return
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// kill marks the connection dead so pending Sends fail instead of queueing
func (c *Conn) kill() {
	c.once.Do(func() { close(c.done) })
}

// Close marks the connection dead and closes the websocket normally
func (c *Conn) Close() error {
	c.kill()
	return c.ws.Close(websocket.StatusNormalClosure, "bye")
}
