package server

import (
	"errors"
	"net"
	"sync"

	"github.com/lawnchairsociety/relictower/internal/config"
)

var (
	ErrIPLimit    = errors.New("too many connections from this address")
	ErrTotalLimit = errors.New("server is full")
)

// ConnStats is a point-in-time view of the limiter.
type ConnStats struct {
	Total int // Open connections
	IPs   int // Distinct addresses with at least one connection
}

// ConnLimiter caps concurrent connections per IP and in total. A zero limit
// means unlimited.
type ConnLimiter struct {
	mu       sync.Mutex
	perIP    map[string]int
	total    int
	maxPerIP int
	maxTotal int
}

// NewConnLimiter creates a new connection limiter with the given config.
func NewConnLimiter(cfg config.ConnectionsConfig) *ConnLimiter {
	return &ConnLimiter{
		perIP:    make(map[string]int),
		maxPerIP: cfg.MaxPerIP,
		maxTotal: cfg.MaxTotal,
	}
}

// Acquire takes a slot for ip, or reports which limit is exhausted.
func (c *ConnLimiter) Acquire(ip string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxTotal > 0 && c.total >= c.maxTotal {
		return ErrTotalLimit
	}
	if c.maxPerIP > 0 && c.perIP[ip] >= c.maxPerIP {
		return ErrIPLimit
	}

	c.perIP[ip]++
	c.total++
	return nil
}

// Release returns a slot taken by Acquire.
func (c *ConnLimiter) Release(ip string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n := c.perIP[ip]; n > 1 {
		c.perIP[ip] = n - 1
	} else {
		delete(c.perIP, ip)
	}
	if c.total > 0 {
		c.total--
	}
}

// Stats returns the current connection counts.
func (c *ConnLimiter) Stats() ConnStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ConnStats{Total: c.total, IPs: len(c.perIP)}
}

// Count returns the open connections for ip.
func (c *ConnLimiter) Count(ip string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perIP[ip]
}

// extractIP extracts the IP address from a remote address string (ip:port format).
func extractIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
