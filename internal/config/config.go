package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode      string  `mapstructure:"mode"`
	Port      int     `mapstructure:"port"`
	ReadLimit int64   `mapstructure:"read_limit"`
	Secret    string  `mapstructure:"secret"`
	MsgRate   float64 `mapstructure:"msg_rate"`
	MsgBurst  int     `mapstructure:"msg_burst"`

	AIProvider  string        `mapstructure:"ai_provider"`
	AIAPIKey    string        `mapstructure:"ai_api_key"`
	AIModel     string        `mapstructure:"ai_model"`
	AIMaxTokens int           `mapstructure:"ai_max_tokens"`
	AIRetryBase time.Duration `mapstructure:"ai_retry_base"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 4000)
	v.SetDefault("read_limit", 1048576)
	v.SetDefault("msg_rate", 100)
	v.SetDefault("msg_burst", 200)
	v.SetDefault("ai_provider", "gemini")
	v.SetDefault("ai_max_tokens", 2000)
	v.SetDefault("ai_retry_base", "2s")

	v.AutomaticEnv()
	_ = v.BindEnv("ai_api_key", "AI_API_KEY")
	_ = v.BindEnv("ai_provider", "AI_PROVIDER")
	_ = v.BindEnv("ai_model", "AI_MODEL")
	_ = v.BindEnv("secret", "SESSION_SECRET")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | AI: %s\n", cfg.Mode, cfg.Port, cfg.AIProvider)
	return &cfg, nil
}
