package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 總配置結構
type Config struct {
	App   AppConfig   `yaml:"app"`
	Game  GameConfig  `yaml:"game"`
	WSS   WSSConfig   `yaml:"wss"`
	Redis RedisConfig `yaml:"redis"`
	MySQL MySQLConfig `yaml:"mysql"`
}

type AppConfig struct {
	Name          string `yaml:"name"`
	Env           string `yaml:"env"`
	Host          string `yaml:"host"`           // 綁定的 host，空值代表所有介面
	ControlPort   int    `yaml:"control_port"`   // 控制通道 (CreateGame) 的 WebSocket Port
	HealthPort    int    `yaml:"health_port"`    // gRPC health Port，0 代表不啟用
	AdvertiseHost string `yaml:"advertise_host"` // 公告給 Client 的 host
}

type GameConfig struct {
	PortRangeStart     int `yaml:"port_range_start"`
	PortRangeEnd       int `yaml:"port_range_end"`
	DefaultGoal        int `yaml:"default_goal"`
	MaxPlayers         int `yaml:"max_players"`   // 每局 inbound queue 容量
	FeedCapacity       int `yaml:"feed_capacity"` // 每條連線的快照緩衝
	ReapIntervalSec    int `yaml:"reap_interval_sec"`
	IdleTimeoutSec     int `yaml:"idle_timeout_sec"`
	ReclaimIntervalSec int `yaml:"reclaim_interval_sec"` // 0 代表只在存取時回收
}

type WSSConfig struct {
	AllowedOrigins  []string `yaml:"allowed_origins"`
	ReadBufferSize  int      `yaml:"read_buffer_size"`
	WriteBufferSize int      `yaml:"write_buffer_size"`
	WriteWaitSec    int      `yaml:"write_wait_sec"`
	PongWaitSec     int      `yaml:"pong_wait_sec"`
	MaxMessageSize  int64    `yaml:"max_message_size"`
}

type RedisConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Addr        string `yaml:"addr"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db"`
	LeaseTTLSec int    `yaml:"lease_ttl_sec"` // Session 公告的存活時間
}

type MySQLConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// Default 回傳所有欄位都有合理值的設定
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "score-orchestrator",
			Env:         "local",
			ControlPort: 9001,
			HealthPort:  9002,
		},
		Game: GameConfig{
			PortRangeStart:  9100,
			PortRangeEnd:    9115,
			DefaultGoal:     100,
			MaxPlayers:      10,
			FeedCapacity:    16,
			ReapIntervalSec: 30,
			IdleTimeoutSec:  20 * 60,
		},
		WSS: WSSConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			WriteWaitSec:    10,
			PongWaitSec:     60,
			MaxMessageSize:  4096,
		},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			LeaseTTLSec: 90,
		},
		MySQL: MySQLConfig{
			Host:   "localhost",
			Port:   3306,
			User:   "root",
			DBName: "scoreboard",
		},
	}
}

// Load 讀取設定檔
// 以 Default 為基底，讀取 config/config.yaml (不存在時略過)，然後使用環境變數覆蓋
func Load(configPath ...string) (*Config, error) {
	// 1. 決定設定檔路徑
	dir := os.Getenv(EnvConfigDir)
	if len(configPath) > 0 && configPath[0] != "" {
		dir = configPath[0]
	}
	if dir == "" {
		dir = "./config"
	}
	fullPath := filepath.Join(dir, "config.yaml")

	cfg := Default()

	// 2. 讀取 YAML 檔案 (如果存在)
	data, err := os.ReadFile(fullPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml at %s: %w", fullPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// 純 Env Var 運行模式
	default:
		return nil, fmt.Errorf("failed to read config file at %s: %w", fullPath, err)
	}

	// 3. 環境變數覆蓋 (Environment Variable Override)
	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 檢查設定是否可用
func (c *Config) Validate() error {
	if c.App.ControlPort <= 0 {
		return fmt.Errorf("invalid config: app.control_port must be positive, got %d", c.App.ControlPort)
	}
	if c.Game.PortRangeStart <= 0 || c.Game.PortRangeEnd < c.Game.PortRangeStart {
		return fmt.Errorf("invalid config: game port range [%d, %d]", c.Game.PortRangeStart, c.Game.PortRangeEnd)
	}
	if c.App.ControlPort >= c.Game.PortRangeStart && c.App.ControlPort <= c.Game.PortRangeEnd {
		return fmt.Errorf("invalid config: control_port %d overlaps game port range", c.App.ControlPort)
	}
	if c.App.HealthPort >= c.Game.PortRangeStart && c.App.HealthPort <= c.Game.PortRangeEnd {
		return fmt.Errorf("invalid config: health_port %d overlaps game port range", c.App.HealthPort)
	}
	if c.App.HealthPort > 0 && c.App.HealthPort == c.App.ControlPort {
		return fmt.Errorf("invalid config: health_port and control_port are both %d", c.App.HealthPort)
	}
	if c.Game.MaxPlayers <= 0 {
		return fmt.Errorf("invalid config: game.max_players must be positive, got %d", c.Game.MaxPlayers)
	}
	if c.Game.FeedCapacity <= 0 {
		return fmt.Errorf("invalid config: game.feed_capacity must be positive, got %d", c.Game.FeedCapacity)
	}
	if c.Game.ReapIntervalSec <= 0 || c.Game.IdleTimeoutSec <= 0 {
		return fmt.Errorf("invalid config: reap interval and idle timeout must be positive")
	}
	return nil
}

// ReapInterval 回傳閒置檢查間隔
func (g GameConfig) ReapInterval() time.Duration {
	return time.Duration(g.ReapIntervalSec) * time.Second
}

// IdleTimeout 回傳閒置回收門檻
func (g GameConfig) IdleTimeout() time.Duration {
	return time.Duration(g.IdleTimeoutSec) * time.Second
}

// ReclaimInterval 回傳定期回收間隔 (0 代表關閉)
func (g GameConfig) ReclaimInterval() time.Duration {
	return time.Duration(g.ReclaimIntervalSec) * time.Second
}

// LeaseTTL 回傳 Session 公告的存活時間
func (r RedisConfig) LeaseTTL() time.Duration {
	return time.Duration(r.LeaseTTLSec) * time.Second
}

func overrideWithEnv(cfg *Config) {
	// App
	if env := os.Getenv(EnvAppEnv); env != "" {
		cfg.App.Env = env
	}
	overrideInt(EnvControlPort, &cfg.App.ControlPort)
	overrideInt(EnvHealthPort, &cfg.App.HealthPort)
	if val := os.Getenv(EnvAdvertiseHost); val != "" {
		cfg.App.AdvertiseHost = val
	}

	// Game
	overrideInt(EnvGamePortStart, &cfg.Game.PortRangeStart)
	overrideInt(EnvGamePortEnd, &cfg.Game.PortRangeEnd)
	overrideInt(EnvGameIdleTimeout, &cfg.Game.IdleTimeoutSec)
	overrideInt(EnvGameReapInterval, &cfg.Game.ReapIntervalSec)

	// Redis
	if val := os.Getenv(EnvRedisAddr); val != "" {
		cfg.Redis.Addr = val
		cfg.Redis.Enabled = true
	}
	if val := os.Getenv(EnvRedisPassword); val != "" {
		cfg.Redis.Password = val
	}

	// MySQL
	if val := os.Getenv(EnvMySQLHost); val != "" {
		cfg.MySQL.Host = val
		cfg.MySQL.Enabled = true
	}
	if val := os.Getenv(EnvMySQLPassword); val != "" {
		cfg.MySQL.Password = val
	}
	if val := os.Getenv(EnvMySQLUser); val != "" {
		cfg.MySQL.User = val
	}
	if val := os.Getenv(EnvMySQLDB); val != "" {
		cfg.MySQL.DBName = val
	}
	overrideInt(EnvMySQLPort, &cfg.MySQL.Port)
}

func overrideInt(key string, dest *int) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dest = n
		}
	}
}
