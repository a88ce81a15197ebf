package server

// Client is one connected player as the session loop sees it.
type Client interface {
	// ReadLine blocks until a complete command line is received (without newline).
	ReadLine() (string, error)

	// WriteLine sends a plain text reply.
	WriteLine(message string) error

	// WriteJSON sends v encoded as one JSON message.
	WriteJSON(v any) error

	// Close closes the connection and unblocks a pending ReadLine.
	Close() error

	// RemoteAddr returns the client's address for logging.
	RemoteAddr() string
}
