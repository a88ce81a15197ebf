package server

import (
	"github.com/lawnchairsociety/relictower/internal/game"
)

// Message types sent to clients.
const (
	MessageText  = "text"  // Reply to a command or a game event
	MessageError = "error" // Rejected command
	MessageState = "state" // Session snapshot
)

// Message is one JSON frame sent to a client.
type Message struct {
	Type  string         `json:"type"`
	Text  string         `json:"text,omitempty"`
	State *game.Snapshot `json:"state,omitempty"`
}

const welcomeText = `Welcome to Relic Tower!
Climb floor by floor, claim rewards and see how high you get.
Type 'start' to face the first floor or 'help' for all commands.`
