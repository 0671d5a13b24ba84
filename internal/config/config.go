package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode         string             `mapstructure:"mode"`
	Port         int                `mapstructure:"port"`
	StaticPath   string             `mapstructure:"static_path"`
	Secret       string             `mapstructure:"secret"`
	WebSocket    WebSocketConfig    `mapstructure:"websocket"`
	Stream       StreamConfig       `mapstructure:"stream"`
	Rooms        RoomsConfig        `mapstructure:"rooms"`
	Chat         ChatConfig         `mapstructure:"chat"`
	Backpressure BackpressureConfig `mapstructure:"backpressure"`
	Log          LogConfig          `mapstructure:"log"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Events       EventsConfig       `mapstructure:"events"`
	ICE          ICEConfig          `mapstructure:"ice"`
}

type WebSocketConfig struct {
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`
}

type StreamConfig struct {
	TickPeriod  time.Duration `mapstructure:"tick_period"`
	MaxDuration time.Duration `mapstructure:"max_duration"`
}

type RoomsConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type ChatConfig struct {
	RateLimit    int           `mapstructure:"rate_limit"`
	RateInterval time.Duration `mapstructure:"rate_interval"`
	MaxLength    int           `mapstructure:"max_length"`
}

type BackpressureConfig struct {
	Policy string `mapstructure:"policy"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type StorageConfig struct {
	Driver    string        `mapstructure:"driver"`
	Local     LocalConfig   `mapstructure:"local"`
	S3        S3Config      `mapstructure:"s3"`
	URLTTL    time.Duration `mapstructure:"url_ttl"`
	MaxUpload int64         `mapstructure:"max_upload"`
}

type LocalConfig struct {
	BasePath     string `mapstructure:"base_path"`
	PublicPrefix string `mapstructure:"public_prefix"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
	PublicURL       string `mapstructure:"public_url"`
}

type EventsConfig struct {
	Enabled   bool        `mapstructure:"enabled"`
	Redis     RedisConfig `mapstructure:"redis"`
	Channel   string      `mapstructure:"channel"`
	QueueSize int         `mapstructure:"queue_size"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ICEConfig struct {
	Servers []ICEServer `mapstructure:"servers"`
}

type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("secret", "livecast-dev-secret")

	v.SetDefault("websocket.read_limit", 32768)
	v.SetDefault("websocket.ping_period", "54s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "5s")
	v.SetDefault("websocket.send_buffer", 64)

	v.SetDefault("stream.tick_period", "1s")
	v.SetDefault("stream.max_duration", "24h")
	v.SetDefault("rooms.sweep_interval", "1m")

	v.SetDefault("chat.rate_limit", 20)
	v.SetDefault("chat.rate_interval", "10s")
	v.SetDefault("chat.max_length", 2000)

	v.SetDefault("backpressure.policy", "drop")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.base_path", "./uploads")
	v.SetDefault("storage.local.public_prefix", "/uploads")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.url_ttl", "24h")
	v.SetDefault("storage.max_upload", 512<<20)

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.redis.address", "localhost:6379")
	v.SetDefault("events.redis.db", 0)
	v.SetDefault("events.channel", "livecast:streams")
	v.SetDefault("events.queue_size", 256)

	v.SetDefault("ice.servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})
}

// Load reads config/config.<CONFIG_ENV>.yaml when present. Environment
// variables override file values, with dots replaced by underscores
// (STORAGE_S3_BUCKET for storage.s3.bucket).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)
	v.SetConfigFile(fileName)

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.Rooms.SweepInterval <= 0 || cfg.Stream.TickPeriod <= 0 {
		return nil, fmt.Errorf("rooms.sweep_interval and stream.tick_period must be positive")
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Static: %s | Storage: %s\n", cfg.Mode, cfg.Port, cfg.StaticPath, cfg.Storage.Driver)
	return &cfg, nil
}
