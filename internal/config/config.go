package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type SMSConfig struct {
	APIKey   string `yaml:"api_key"`
	SenderID string `yaml:"sender_id"`
	DryRun   bool   `yaml:"dry_run"`
}

type JWTConfig struct {
	Secret         string `yaml:"secret"`
	AccessTTLHours int    `yaml:"access_ttl_hours"`
	RefreshTTLDays int    `yaml:"refresh_ttl_days"`
}

type KakaoConfig struct {
	RESTAPIKey string `yaml:"rest_api_key"`
	BaseURL    string `yaml:"base_url"`
}

type FCMConfig struct {
	ServerKey string `yaml:"server_key"`
}

type TelegramConfig struct {
	BotToken  string `yaml:"bot_token"`
	OpsChatID int64  `yaml:"ops_chat_id"`
}

type FilesConfig struct {
	RootDir string `yaml:"root_dir"`
}

type Config struct {
	Environment string `yaml:"environment"` // development | production
	Server      struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	JWT             JWTConfig      `yaml:"jwt"`
	AIWebhookSecret string         `yaml:"ai_webhook_secret"`
	SMS             SMSConfig      `yaml:"sms"`
	Kakao           KakaoConfig    `yaml:"kakao"`
	FCM             FCMConfig      `yaml:"fcm"`
	Telegram        TelegramConfig `yaml:"telegram"`
	Files           FilesConfig    `yaml:"files"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func LoadConfig() *Config {
	// секреты держим в .env рядом с config.yaml
	_ = godotenv.Load("config/.env")

	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("AI_WEBHOOK_SECRET"); v != "" {
		cfg.AIWebhookSecret = v
	}
	if v := os.Getenv("SMS_API_KEY"); v != "" {
		cfg.SMS.APIKey = v
	}
	if v := os.Getenv("KAKAO_REST_API_KEY"); v != "" {
		cfg.Kakao.RESTAPIKey = v
	}
	if v := os.Getenv("FCM_SERVER_KEY"); v != "" {
		cfg.FCM.ServerKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_OPS_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.OpsChatID = id
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.JWT.AccessTTLHours <= 0 {
		cfg.JWT.AccessTTLHours = 24 * 7
	}
	if cfg.JWT.RefreshTTLDays <= 0 {
		cfg.JWT.RefreshTTLDays = 30
	}
	if cfg.Kakao.BaseURL == "" {
		cfg.Kakao.BaseURL = "https://dapi.kakao.com"
	}
	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./uploads"
	}
}
