package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/relictower/internal/antispam"
	"github.com/lawnchairsociety/relictower/internal/combat"
	"github.com/lawnchairsociety/relictower/internal/database"
	"github.com/lawnchairsociety/relictower/internal/game"
	"github.com/lawnchairsociety/relictower/internal/namefilter"
)

// ServerConfig holds server-wide configuration settings.
type ServerConfig struct {
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Connections ConnectionsConfig `yaml:"connections"`
	Simulation  SimulationConfig  `yaml:"simulation"`
	Database    DatabaseConfig    `yaml:"database"`
	Names       namefilter.Config `yaml:"names"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections allowed from a single IP address.
	// 0 means unlimited (not recommended).
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent connections to the server.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`

	// CommandRate limits how fast one connection may send commands.
	CommandRate CommandRateConfig `yaml:"command_rate"`
}

// CommandRateConfig holds per-connection command rate settings.
type CommandRateConfig struct {
	Enabled       bool `yaml:"enabled"`
	MaxCommands   int  `yaml:"max_commands"`
	WindowSeconds int  `yaml:"window_seconds"`
}

// Limits converts the settings into an antispam.Config.
func (c CommandRateConfig) Limits() antispam.Config {
	return antispam.ConfigFromYAML(c.Enabled, c.MaxCommands, c.WindowSeconds)
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`

	// FrameRate is how many snapshot frames per second each session pushes.
	FrameRate int `yaml:"frame_rate"`
}

// PlayerConfig holds the stats a new run starts with.
type PlayerConfig struct {
	Name  string `yaml:"name"`
	MaxHp int    `yaml:"max_hp"`
	Atk   int    `yaml:"atk"`
	Def   int    `yaml:"def"`
	Sup   int    `yaml:"sup"`
}

// SimulationConfig holds battle and progression settings.
type SimulationConfig struct {
	TickIntervalMs      int          `yaml:"tick_interval_ms"`
	BattleTimeLimitSec  int          `yaml:"battle_time_limit_sec"`
	MaxSkills           int          `yaml:"max_skills"`
	RewardOffers        int          `yaml:"reward_offers"`
	CarryTickRemainder  bool         `yaml:"carry_tick_remainder"`
	SingleUseCheatDeath bool         `yaml:"single_use_cheat_death"`
	Player              PlayerConfig `yaml:"player"`
}

// Rules converts the simulation settings into battle rules. Non-positive
// values fall back to the combat defaults.
func (s SimulationConfig) Rules() combat.Rules {
	rules := combat.DefaultRules()
	if s.TickIntervalMs > 0 {
		rules.TickInterval = float64(s.TickIntervalMs)
	}
	if s.BattleTimeLimitSec > 0 {
		rules.TimeLimit = float64(s.BattleTimeLimitSec) * 1000
	}
	rules.CarryTickRemainder = s.CarryTickRemainder
	rules.SingleUseCheatDeath = s.SingleUseCheatDeath
	return rules
}

// SessionOptions converts the simulation settings into options for a new run.
func (s SimulationConfig) SessionOptions() game.Options {
	opts := game.DefaultOptions()
	opts.Rules = s.Rules()
	if s.MaxSkills > 0 {
		opts.MaxSkills = s.MaxSkills
	}
	if s.RewardOffers > 0 {
		opts.RewardOffers = s.RewardOffers
	}
	if s.Player.Name != "" {
		opts.Player.Name = s.Player.Name
	}
	if s.Player.MaxHp > 0 {
		opts.Player.MaxHp = s.Player.MaxHp
	}
	if s.Player.Atk > 0 {
		opts.Player.Atk = s.Player.Atk
	}
	if s.Player.Def > 0 {
		opts.Player.Def = s.Player.Def
	}
	if s.Player.Sup > 0 {
		opts.Player.Sup = s.Player.Sup
	}
	return opts
}

// DatabaseConfig holds run history store settings.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres". Empty disables run recording.
	Driver     string         `yaml:"driver"`
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	User                   string `yaml:"user"`
	Password               string `yaml:"password"`
	Database               string `yaml:"database"`
	SSLMode                string `yaml:"ssl_mode"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Enabled reports whether a run store is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Driver != ""
}

// StoreConfig converts the settings into a database.Config.
func (d DatabaseConfig) StoreConfig() database.Config {
	if d.Driver != "postgres" {
		return database.DefaultConfig(d.SQLitePath)
	}
	pg := database.DefaultPostgresConfig()
	if d.Postgres.Host != "" {
		pg.Host = d.Postgres.Host
	}
	if d.Postgres.Port != 0 {
		pg.Port = d.Postgres.Port
	}
	pg.User = d.Postgres.User
	pg.Password = d.Postgres.Password
	pg.Database = d.Postgres.Database
	if d.Postgres.SSLMode != "" {
		pg.SSLMode = d.Postgres.SSLMode
	}
	if d.Postgres.MaxOpenConns > 0 {
		pg.MaxOpenConns = d.Postgres.MaxOpenConns
	}
	if d.Postgres.MaxIdleConns > 0 {
		pg.MaxIdleConns = d.Postgres.MaxIdleConns
	}
	if d.Postgres.ConnMaxLifetimeMinutes > 0 {
		pg.ConnMaxLifetime = time.Duration(d.Postgres.ConnMaxLifetimeMinutes) * time.Minute
	}
	return database.Config{Driver: "postgres", Postgres: pg}
}

// DefaultConfig returns a ServerConfig with secure defaults.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		WebSocket: WebSocketConfig{
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxMessageSize: 4096,
			FrameRate:      60,
		},
		Connections: ConnectionsConfig{
			MaxPerIP: 3,
			MaxTotal: 100,
			CommandRate: CommandRateConfig{
				Enabled:       true,
				MaxCommands:   20,
				WindowSeconds: 5,
			},
		},
		Simulation: SimulationConfig{
			TickIntervalMs:     1000,
			BattleTimeLimitSec: 180,
			MaxSkills:          6,
			RewardOffers:       6,
			CarryTickRemainder: true,
			Player: PlayerConfig{
				Name:  "Player",
				MaxHp: 100,
				Atk:   10,
				Def:   5,
				Sup:   5,
			},
		},
		Database: DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "data/relictower.db",
		},
		Names: namefilter.Config{
			Enabled:     true,
			MinLength:   namefilter.DefaultMinLength,
			MaxLength:   namefilter.DefaultMaxLength,
			BannedNames: []string{"admin", "system", "server"},
		},
	}
}

// LoadConfig loads server configuration from a YAML file.
// If the file doesn't exist or can't be parsed, returns default config.
func LoadConfig(path string) (*ServerConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// FrameInterval returns the time between snapshot frames.
func (c *WebSocketConfig) FrameInterval() time.Duration {
	rate := c.FrameRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means a non-browser client
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
