// Package testclient is a scripted WebSocket player used by the integration
// scenarios to drive a running server.
package testclient

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/relictower/internal/game"
	"github.com/lawnchairsociety/relictower/internal/server"
)

// pollInterval is how often the Wait helpers re-check received messages.
const pollInterval = 20 * time.Millisecond

// TestClient represents a test client connection to the server
type TestClient struct {
	Name    string
	conn    *websocket.Conn
	texts   []server.Message // Text and error messages, in arrival order
	state   *game.Snapshot   // Latest state frame
	frames  int
	readErr error
	mu      sync.Mutex
	done    chan struct{}
}

// NewTestClient connects to the WebSocket endpoint at url, for example
// ws://localhost:4443/ws.
func NewTestClient(name, url string) (*TestClient, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	client := &TestClient{
		Name: name,
		conn: conn,
		done: make(chan struct{}),
	}

	// Start reading messages in background
	go client.readMessages()

	return client, nil
}

func (c *TestClient) readMessages() {
	defer close(c.done)
	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.mu.Lock()
			c.readErr = err
			c.mu.Unlock()
			return
		}

		c.mu.Lock()
		if msg.Type == server.MessageState {
			c.state = msg.State
			c.frames++
		} else {
			c.texts = append(c.texts, msg)
		}
		c.mu.Unlock()
	}
}

// SendCommand sends a command line to the server
func (c *TestClient) SendCommand(cmd string) error {
	return c.conn.WriteMessage(websocket.TextMessage, []byte(cmd))
}

// GetMessages returns the text of every text and error message received so far
func (c *TestClient) GetMessages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.texts))
	for i, m := range c.texts {
		out[i] = m.Text
	}
	return out
}

// ClearMessages forgets received text messages
func (c *TestClient) ClearMessages() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = nil
}

// State returns the latest state frame, or nil before the first one.
func (c *TestClient) State() *game.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FrameCount returns how many state frames have arrived.
func (c *TestClient) FrameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// WaitForMessage waits for a text message containing text
func (c *TestClient) WaitForMessage(text string, timeout time.Duration) bool {
	_, ok := c.WaitForAnyMessage([]string{text}, timeout)
	return ok
}

// WaitForAnyMessage waits for any of the specified texts and returns the one seen
func (c *TestClient) WaitForAnyMessage(texts []string, timeout time.Duration) (string, bool) {
	deadline := time.Now().Add(timeout)
	for {
		for _, msg := range c.GetMessages() {
			for _, text := range texts {
				if strings.Contains(msg, text) {
					return text, true
				}
			}
		}
		if time.Now().After(deadline) {
			return "", false
		}
		time.Sleep(pollInterval)
	}
}

// WaitForError waits for an error message and returns its text
func (c *TestClient) WaitForError(timeout time.Duration) (string, bool) {
	deadline := time.Now().Add(timeout)
	for {
		c.mu.Lock()
		for _, m := range c.texts {
			if m.Type == server.MessageError {
				c.mu.Unlock()
				return m.Text, true
			}
		}
		c.mu.Unlock()
		if time.Now().After(deadline) {
			return "", false
		}
		time.Sleep(pollInterval)
	}
}

// WaitForPhase waits until the latest state frame is in phase
func (c *TestClient) WaitForPhase(phase game.Phase, timeout time.Duration) (*game.Snapshot, bool) {
	deadline := time.Now().Add(timeout)
	for {
		if st := c.State(); st != nil && st.Phase == phase {
			return st, true
		}
		if time.Now().After(deadline) {
			return nil, false
		}
		time.Sleep(pollInterval)
	}
}

// WaitForClose waits for the server to close the connection
func (c *TestClient) WaitForClose(timeout time.Duration) bool {
	select {
	case <-c.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Err returns the error that ended the read loop, if it has ended.
func (c *TestClient) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readErr
}

// Close closes the connection
func (c *TestClient) Close() error {
	return c.conn.Close()
}

// PrintMessages prints all received text messages (for debugging)
func (c *TestClient) PrintMessages() {
	for i, msg := range c.GetMessages() {
		fmt.Printf("[%s] %d: %s\n", c.Name, i, msg)
	}
}
