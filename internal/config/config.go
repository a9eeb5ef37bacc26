package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 默认值
const (
	defaultBaseURL          = "http://localhost:1780"
	defaultRequestTimeout   = 10   // 秒
	defaultPollInterval     = 1000 // 毫秒
	defaultChatHistoryLimit = 100
)

// Config 客户端配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Client ClientConfig `yaml:"client"`
}

// ServerConfig 大厅服务配置
type ServerConfig struct {
	BaseURL        string `yaml:"base_url"`
	RequestTimeout int    `yaml:"request_timeout"` // 单次请求超时（秒）
}

// ClientConfig 客户端行为配置
type ClientConfig struct {
	PollInterval     int  `yaml:"poll_interval"`      // 轮询间隔（毫秒）
	ChatHistoryLimit int  `yaml:"chat_history_limit"` // 聊天记录保留条数
	Sound            bool `yaml:"sound"`              // 是否启用音效
}

// RequestTimeoutDuration 返回单次请求超时时长
func (c *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// PollIntervalDuration 返回轮询间隔时长
func (c *ClientConfig) PollIntervalDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Millisecond
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{Client: ClientConfig{Sound: true}}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = defaultBaseURL
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Client.PollInterval == 0 {
		cfg.Client.PollInterval = defaultPollInterval
	}
	if cfg.Client.ChatHistoryLimit == 0 {
		cfg.Client.ChatHistoryLimit = defaultChatHistoryLimit
	}
}
