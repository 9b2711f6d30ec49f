package config

import (
	game_constants "Tombola/constants/game"
	"Tombola/services/game"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Prod        bool
	UseHTTPS    bool
	CertFile    string
	KeyFile     string
	LogLevel    string
	SocketDebug bool
	CORSOrigins []string
	EventQueue  int // async sink buffer

	Game     GameConfig
	Admin    AdminConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	NATS     NATSConfig
}

type GameConfig struct {
	MaxPlayersLimit     int
	DefaultMaxPlayers   int
	MaxCardsPerPlayer   int
	AutoMark            bool
	DedupScope          string
	AutoExtractInterval time.Duration
	RoomIdleTimeout     time.Duration
	RoomSweepInterval   time.Duration
}

// AdminConfig: an empty PasswordHash disables admin authentication.
type AdminConfig struct {
	PasswordHash string
	JWTSecret    string
	SessionKey   string
	TokenTTL     time.Duration
}

type RedisConfig struct {
	URL string
	TTL time.Duration
}

type PostgresConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
	Verbose  bool
	Migrate  bool
}

type NATSConfig struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

func (p PostgresConfig) Enabled() bool { return p.Host != "" }

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s", p.User, p.Password, p.Host, p.Port, p.Database)
}

func (a AdminConfig) AuthEnabled() bool { return a.PasswordHash != "" }

// EngineOptions turns the game settings into engine options.
func (g GameConfig) EngineOptions() game.Options {
	return game.Options{
		DefaultMaxPlayers:   g.DefaultMaxPlayers,
		MaxPlayersLimit:     g.MaxPlayersLimit,
		MaxCardsPerPlayer:   g.MaxCardsPerPlayer,
		ManualMark:          !g.AutoMark,
		DedupScope:          g.DedupScope,
		AutoExtractInterval: g.AutoExtractInterval,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "")
	v.SetDefault("PROD", false)
	v.SetDefault("USE_HTTPS", false)
	v.SetDefault("CERT_FILE", "")
	v.SetDefault("KEY_FILE", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SOCKET_DEBUG", false)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("EVENT_QUEUE_SIZE", 1024)

	v.SetDefault("MAX_PLAYERS_LIMIT", game_constants.DefaultMaxPlayersLimit)
	v.SetDefault("DEFAULT_MAX_PLAYERS", game_constants.DefaultMaxPlayers)
	v.SetDefault("MAX_CARDS_PER_PLAYER", game_constants.DefaultMaxCardsPerPlayer)
	v.SetDefault("AUTO_MARK", true)
	v.SetDefault("DEDUP_SCOPE", game_constants.DedupByTypeAndRow)
	v.SetDefault("AUTO_EXTRACT_INTERVAL", game_constants.DefaultAutoExtract)
	v.SetDefault("ROOM_IDLE_TIMEOUT", game_constants.DefaultRoomIdleTimeout)
	v.SetDefault("ROOM_SWEEP_INTERVAL", game_constants.DefaultRoomSweepInterval)

	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_KEY", "")
	v.SetDefault("ADMIN_TOKEN_TTL", 12*time.Hour)

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_TTL", 24*time.Hour)

	v.SetDefault("POSTGRES_USER", "")
	v.SetDefault("POSTGRES_PASSWORD", "")
	v.SetDefault("POSTGRES_HOST", "")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_DATABASE", "")
	v.SetDefault("VERBOSE_POSTGRES", false)
	v.SetDefault("MIGRATE_POSTGRES", false)

	v.SetDefault("NATS_URL", "")
	v.SetDefault("NATS_SUBJECT_PREFIX", "tombola")
	v.SetDefault("NATS_MAX_RECONNECTS", 10)
	v.SetDefault("NATS_RECONNECT_WAIT", 2*time.Second)
}

// Load reads .env, then an optional yaml file (CONFIG_FILE, default
// config.yaml), then the environment. Later sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:        v.GetString("PORT"),
		Prod:        v.GetBool("PROD"),
		UseHTTPS:    v.GetBool("USE_HTTPS"),
		CertFile:    v.GetString("CERT_FILE"),
		KeyFile:     v.GetString("KEY_FILE"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		SocketDebug: v.GetBool("SOCKET_DEBUG"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		EventQueue:  v.GetInt("EVENT_QUEUE_SIZE"),
		Game: GameConfig{
			MaxPlayersLimit:     v.GetInt("MAX_PLAYERS_LIMIT"),
			DefaultMaxPlayers:   v.GetInt("DEFAULT_MAX_PLAYERS"),
			MaxCardsPerPlayer:   v.GetInt("MAX_CARDS_PER_PLAYER"),
			AutoMark:            v.GetBool("AUTO_MARK"),
			DedupScope:          v.GetString("DEDUP_SCOPE"),
			AutoExtractInterval: v.GetDuration("AUTO_EXTRACT_INTERVAL"),
			RoomIdleTimeout:     v.GetDuration("ROOM_IDLE_TIMEOUT"),
			RoomSweepInterval:   v.GetDuration("ROOM_SWEEP_INTERVAL"),
		},
		Admin: AdminConfig{
			PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
			JWTSecret:    v.GetString("JWT_SECRET"),
			SessionKey:   v.GetString("SESSION_KEY"),
			TokenTTL:     v.GetDuration("ADMIN_TOKEN_TTL"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
			TTL: v.GetDuration("REDIS_TTL"),
		},
		Postgres: PostgresConfig{
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetString("POSTGRES_PORT"),
			Database: v.GetString("POSTGRES_DATABASE"),
			Verbose:  v.GetBool("VERBOSE_POSTGRES"),
			Migrate:  v.GetBool("MIGRATE_POSTGRES"),
		},
		NATS: NATSConfig{
			URL:           v.GetString("NATS_URL"),
			SubjectPrefix: v.GetString("NATS_SUBJECT_PREFIX"),
			MaxReconnects: v.GetInt("NATS_MAX_RECONNECTS"),
			ReconnectWait: v.GetDuration("NATS_RECONNECT_WAIT"),
		},
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Game.DedupScope {
	case game_constants.DedupByTypeAndRow, game_constants.DedupByType:
	default:
		return fmt.Errorf("DEDUP_SCOPE must be %q or %q, got %q",
			game_constants.DedupByTypeAndRow, game_constants.DedupByType, c.Game.DedupScope)
	}
	if c.Game.MaxPlayersLimit < 1 {
		return fmt.Errorf("MAX_PLAYERS_LIMIT must be positive")
	}
	if c.Game.MaxCardsPerPlayer < 1 {
		return fmt.Errorf("MAX_CARDS_PER_PLAYER must be positive")
	}
	if c.Admin.AuthEnabled() && c.Admin.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ADMIN_PASSWORD_HASH is set")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
