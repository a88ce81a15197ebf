package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/lawnchairsociety/relictower/internal/config"
)

func TestConnLimiter_Acquire(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ConnectionsConfig
		ips     []string
		wantErr []error
	}{
		{
			name:    "per IP limit",
			cfg:     config.ConnectionsConfig{MaxPerIP: 2, MaxTotal: 100},
			ips:     []string{"10.0.0.1", "10.0.0.1", "10.0.0.1", "10.0.0.2"},
			wantErr: []error{nil, nil, ErrIPLimit, nil},
		},
		{
			name:    "total limit",
			cfg:     config.ConnectionsConfig{MaxPerIP: 10, MaxTotal: 2},
			ips:     []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"},
			wantErr: []error{nil, nil, ErrTotalLimit},
		},
		{
			name:    "total checked before per IP",
			cfg:     config.ConnectionsConfig{MaxPerIP: 1, MaxTotal: 1},
			ips:     []string{"10.0.0.1", "10.0.0.1"},
			wantErr: []error{nil, ErrTotalLimit},
		},
		{
			name:    "unlimited",
			cfg:     config.ConnectionsConfig{},
			ips:     []string{"10.0.0.1", "10.0.0.1", "10.0.0.1", "10.0.0.1"},
			wantErr: []error{nil, nil, nil, nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewConnLimiter(tt.cfg)
			for i, ip := range tt.ips {
				if err := limiter.Acquire(ip); !errors.Is(err, tt.wantErr[i]) {
					t.Errorf("Acquire(%s) #%d = %v, want %v", ip, i, err, tt.wantErr[i])
				}
			}
		})
	}
}

func TestConnLimiter_Release(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 1, MaxTotal: 10})

	if err := limiter.Acquire("10.0.0.1"); err != nil {
		t.Fatalf("Acquire() = %v", err)
	}
	if err := limiter.Acquire("10.0.0.1"); err == nil {
		t.Fatal("second Acquire() should be rejected")
	}

	limiter.Release("10.0.0.1")
	if got := limiter.Count("10.0.0.1"); got != 0 {
		t.Errorf("Count() after release = %d, want 0", got)
	}
	if err := limiter.Acquire("10.0.0.1"); err != nil {
		t.Errorf("Acquire() after release = %v", err)
	}

	// Releasing more than was acquired never goes negative
	limiter.Release("10.0.0.1")
	limiter.Release("10.0.0.1")
	if stats := limiter.Stats(); stats.Total != 0 || stats.IPs != 0 {
		t.Errorf("Stats() = %+v, want zero", stats)
	}
}

func TestConnLimiter_Stats(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 5, MaxTotal: 100})
	for _, ip := range []string{"10.0.0.1", "10.0.0.1", "10.0.0.2"} {
		if err := limiter.Acquire(ip); err != nil {
			t.Fatalf("Acquire(%s) = %v", ip, err)
		}
	}

	if stats := limiter.Stats(); stats.Total != 3 || stats.IPs != 2 {
		t.Errorf("Stats() = %+v, want 3 connections from 2 IPs", stats)
	}
	if got := limiter.Count("10.0.0.1"); got != 2 {
		t.Errorf("Count(10.0.0.1) = %d, want 2", got)
	}
	if got := limiter.Count("10.0.0.9"); got != 0 {
		t.Errorf("Count(unknown) = %d, want 0", got)
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"192.168.1.1:12345", "192.168.1.1"},
		{"[::1]:12345", "::1"},
		{"localhost:4000", "localhost"},
		{"192.168.1.1", "192.168.1.1"},
	}

	for _, tt := range tests {
		if result := extractIP(tt.input); result != tt.expected {
			t.Errorf("extractIP(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestGetRealIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		expected   string
	}{
		{"forwarded chain uses the first hop", "203.0.113.50, 70.41.3.18", "", "10.0.0.1:12345", "203.0.113.50"},
		{"real ip header", "", "203.0.113.50", "10.0.0.1:12345", "203.0.113.50"},
		{"forwarded wins over real ip", "203.0.113.50", "198.51.100.25", "10.0.0.1:12345", "203.0.113.50"},
		{"blank forwarded entry falls through", " , 70.41.3.18", "", "192.168.1.100:54321", "192.168.1.100"},
		{"no headers", "", "", "192.168.1.100:54321", "192.168.1.100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{RemoteAddr: tt.remoteAddr, Header: make(http.Header)}
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if result := getRealIP(req); result != tt.expected {
				t.Errorf("getRealIP() = %q, want %q", result, tt.expected)
			}
		})
	}
}
