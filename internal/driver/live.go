package driver

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// ChangeEvent is one (cell, value) broadcast envelope, tagged with the
// run's session id so a downstream viewer can group updates by run.
// Value is a string ("ERR" or the decimal integer) rather than the
// core's Value type, since this package never imports the sheet
// package's internals — it only ever carries what a driver prints.
type ChangeEvent struct {
	SessionID string `json:"session_id"`
	Cell      string `json:"cell"`
	Value     string `json:"value"`
}

// Broadcaster publishes ChangeEvents to a single websocket connection.
// It is the thin hook a dependency-visualization driver would attach
// to; the evaluation core never imports this type.
type Broadcaster struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// Dial opens a websocket connection to publish change events to.
func Dial(url string) (*Broadcaster, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return &Broadcaster{conn: conn}, nil
}

// Publish sends one change event as a JSON text message.
func (b *Broadcaster) Publish(ev ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close shuts down the underlying connection.
func (b *Broadcaster) Close() error {
	return b.conn.Close()
}
