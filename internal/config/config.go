package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	model "live-auction/internal/models"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const envPrefix = "AUCTION"

// Config is the resolved process configuration
type Config struct {
	Addr              string
	Defaults          model.Defaults
	SeedFile          string
	NATSURL           string
	NATSSubjectPrefix string
	LogLevel          string
	AllowedOrigins    []string
	WebSocket         WebSocketConfig
}

// WebSocketConfig tunes every websocket session
type WebSocketConfig struct {
	SendBuffer     int
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
}

// Seed lists auctions provisioned at startup
type Seed struct {
	Auctions []SeedAuction `yaml:"auctions"`
}

type SeedAuction struct {
	ID            string `yaml:"id"`
	MinIncrement  int64  `yaml:"min_increment"`
	StartingPurse int64  `yaml:"starting_purse"`
}

// LoadDotEnv loads .env files into the environment. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

func newFlagSet(name string) *pflag.FlagSet {
	defaults := model.DefaultSettings()
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	// server
	fs.String("addr", ":4000", "listen address")
	fs.StringSlice("allowed-origins", []string{"*"}, "CORS and websocket origins")
	fs.String("log-level", "info", "log level")

	// auctions
	fs.Int64("default-min-increment", defaults.MinIncrement, "minimum raise for auctions created on join")
	fs.Int64("default-purse", defaults.StartingPurse, "starting purse for new bidders")
	fs.String("seed-file", "", "YAML file of auctions to provision at startup")

	// journal
	fs.String("nats-url", "", "NATS server URL, empty disables the journal")
	fs.String("nats-subject-prefix", "auction.events", "subject prefix for journal entries")

	// websocket
	fs.Int("ws-send-buffer", 256, "frames queued per connection before it is dropped")
	fs.Duration("ws-write-timeout", 10*time.Second, "")
	fs.Duration("ws-read-timeout", 60*time.Second, "")
	fs.Duration("ws-ping-interval", 30*time.Second, "")
	fs.Int64("ws-max-message-size", 4096, "")

	return fs
}

// Load parses args, then the AUCTION_* environment, into a Config
func Load(args []string) (Config, error) {
	fs := newFlagSet("live-auction")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfg := Config{
		Addr: v.GetString("addr"),
		Defaults: model.Defaults{
			MinIncrement:  v.GetInt64("default-min-increment"),
			StartingPurse: v.GetInt64("default-purse"),
		},
		SeedFile:          v.GetString("seed-file"),
		NATSURL:           v.GetString("nats-url"),
		NATSSubjectPrefix: v.GetString("nats-subject-prefix"),
		LogLevel:          v.GetString("log-level"),
		AllowedOrigins:    v.GetStringSlice("allowed-origins"),
		WebSocket: WebSocketConfig{
			SendBuffer:     v.GetInt("ws-send-buffer"),
			WriteTimeout:   v.GetDuration("ws-write-timeout"),
			ReadTimeout:    v.GetDuration("ws-read-timeout"),
			PingInterval:   v.GetDuration("ws-ping-interval"),
			MaxMessageSize: v.GetInt64("ws-max-message-size"),
		},
	}
	return cfg, cfg.Validate()
}

// Validate reports settings the server cannot run with
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("config: addr is required")
	case c.Defaults.MinIncrement <= 0:
		return fmt.Errorf("config: default-min-increment must be positive, got %d", c.Defaults.MinIncrement)
	case c.Defaults.StartingPurse < 0:
		return fmt.Errorf("config: default-purse must not be negative, got %d", c.Defaults.StartingPurse)
	case c.WebSocket.SendBuffer <= 0:
		return fmt.Errorf("config: ws-send-buffer must be positive")
	case c.WebSocket.ReadTimeout <= 0 || c.WebSocket.WriteTimeout <= 0:
		return fmt.Errorf("config: websocket timeouts must be positive")
	}
	return nil
}

// LoadSeed reads the auctions to provision at startup
func LoadSeed(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("config: read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return Seed{}, fmt.Errorf("config: parse seed file %s: %w", path, err)
	}
	for i, a := range seed.Auctions {
		if a.ID == "" {
			return Seed{}, fmt.Errorf("config: seed auction %d has no id", i)
		}
	}
	return seed, nil
}
