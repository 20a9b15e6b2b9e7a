package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"wellbot/internal/center"
	"wellbot/internal/reminder"
	"wellbot/internal/sink"
	"wellbot/internal/storage"
	logx "wellbot/pkg/logx"
)

// Config is the on-disk configuration. Durations are Go duration
// strings (e.g. "10m", "1h30m"). YAML and JSON are both accepted; YAML
// is coerced to JSON so one strict decoder covers both.
type Config struct {
	Logging   LoggingConfig   `json:"logging"`
	Storage   StorageConfig   `json:"storage"`
	Center    CenterConfig    `json:"center"`
	Reminders RemindersConfig `json:"reminders"`
	Sink      SinkConfig      `json:"sink"`
	Server    ServerConfig    `json:"server"`
}

type LoggingConfig struct {
	Level   string `json:"level,omitempty"`
	Console *bool  `json:"console,omitempty"` // pointer: omitted means true
	File    struct {
		Enabled bool   `json:"enabled"`
		Path    string `json:"path,omitempty"`
	} `json:"file"`
}

type StorageConfig struct {
	Driver      string `json:"driver,omitempty"` // memory | file | sqlite
	Path        string `json:"path,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

type CenterConfig struct {
	Timezone   string `json:"timezone,omitempty"`
	MaxEntries int    `json:"max_entries,omitempty"`
}

type RemindersConfig struct {
	CoalesceWindow string `json:"coalesce_window,omitempty"` // default 10m
	DigestHour     int    `json:"digest_hour,omitempty"`     // 1..23; 0 = built-in fallback
}

type SinkConfig struct {
	RatePerMinute int                `json:"rate_per_minute,omitempty"`
	Telegram      TelegramSinkConfig `json:"telegram"`
}

type TelegramSinkConfig struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token,omitempty"`
	ChatID  int64  `json:"chat_id,omitempty"`
}

type ServerConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"` // default 127.0.0.1:8407
}

// Load reads, coerces and strictly decodes the config file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	jb, format, err := coerceToJSONBytes(path, b)
	if err != nil {
		return nil, err
	}
	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s config: %w", format, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if h := c.Reminders.DigestHour; h < 0 || h > 23 {
		return fmt.Errorf("reminders.digest_hour: %d out of range", h)
	}
	if _, err := ParseDurationField("reminders.coalesce_window", c.Reminders.CoalesceWindow); err != nil {
		return err
	}
	if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
		return err
	}
	if c.Sink.Telegram.Enabled && strings.TrimSpace(c.Sink.Telegram.Token) == "" {
		return fmt.Errorf("sink.telegram.token is required when enabled")
	}
	return nil
}

// ---- Typed views consumed by the components ----

func (c *Config) Logx() logx.Config {
	console := true
	if c.Logging.Console != nil {
		console = *c.Logging.Console
	}
	return logx.Config{
		Level:   c.Logging.Level,
		Console: console,
		File: logx.FileConfig{
			Enabled: c.Logging.File.Enabled,
			Path:    c.Logging.File.Path,
		},
	}
}

func (c *Config) Storagex() storage.Config {
	busy, _ := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout)
	return storage.Config{
		Driver:      c.Storage.Driver,
		Path:        c.Storage.Path,
		BusyTimeout: busy,
	}
}

func (c *Config) Centerx() center.Config {
	return center.Config{
		Timezone:   c.Center.Timezone,
		MaxEntries: c.Center.MaxEntries,
	}
}

func (c *Config) Reminderx() reminder.Config {
	window, _ := ParseDurationOrDefault("reminders.coalesce_window", c.Reminders.CoalesceWindow, reminder.DefaultCoalesceWindow)
	return reminder.Config{
		CoalesceWindow: window,
		DigestHour:     c.Reminders.DigestHour,
	}
}

func (c *Config) TelegramSink() sink.TelegramConfig {
	return sink.TelegramConfig{
		Enabled: c.Sink.Telegram.Enabled,
		Token:   c.Sink.Telegram.Token,
		ChatID:  c.Sink.Telegram.ChatID,
	}
}

func (c *Config) ServerAddr() string {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return "127.0.0.1:8407"
	}
	return c.Server.Addr
}

// clone via JSON round-trip; Config is plain data.
func (c *Config) clone() *Config {
	b, err := json.Marshal(c)
	if err != nil {
		return c
	}
	var out Config
	if err := json.Unmarshal(b, &out); err != nil {
		return c
	}
	return &out
}
