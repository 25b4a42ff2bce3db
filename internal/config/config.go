package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type PartnerConfig struct {
	Env          string `yaml:"env" env:"PARTNER_ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	PartnerDB    `yaml:"partner_db"`
	Redis        `yaml:"redis"`
	KafkaService `yaml:"kafka-service"`
	Auth         `yaml:"auth"`
	Captcha      `yaml:"captcha"`
	MailService  `yaml:"mail-service"`
	Commission   `yaml:"commission"`
	LogConfig    `yaml:"log_config"`
}

type HTTPServer struct {
	Host           string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port           string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env-default:"15s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-separator:","`
	AuthRateLimit  float64       `yaml:"auth_rate_limit" env-default:"5"`
	TrustedProxies []string      `yaml:"trusted_proxies" env:"HTTP_TRUSTED_PROXIES" env-separator:","`
}

type PartnerDB struct {
	Dsn            string `yaml:"dsn" env:"PARTNER_DB_DSN" env-required:"true"`
	MigrationsPath string `yaml:"migrations_path" env-default:"./migrations"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
}

type KafkaService struct {
	Enabled bool   `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"KAFKA_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	Topic   string `yaml:"topic" env-default:"partner-events"`
}

type Auth struct {
	JWTSecret     string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	Issuer        string        `yaml:"issuer" env-default:"shvark-partner-service"`
	TokenTTL      time.Duration `yaml:"token_ttl" env-default:"24h"`
	BcryptCost    int           `yaml:"bcrypt_cost" env-default:"12"`
	ResetTokenTTL time.Duration `yaml:"reset_token_ttl" env-default:"30m"`
	ResetLinkURL  string        `yaml:"reset_link_url" env:"AUTH_RESET_LINK_URL" env-default:"http://localhost:3000/reset-password"`
}

type Captcha struct {
	Secret    string        `yaml:"secret" env:"CAPTCHA_SECRET"`
	VerifyURL string        `yaml:"verify_url" env-default:"https://www.google.com/recaptcha/api/siteverify"`
	Timeout   time.Duration `yaml:"timeout" env-default:"5s"`
}

type MailService struct {
	Host    string        `yaml:"host" env:"MAIL_HOST" env-default:"http://localhost"`
	Port    string        `yaml:"port" env:"MAIL_PORT" env-default:"8025"`
	From    string        `yaml:"from" env-default:"no-reply@tradi.io"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type Commission struct {
	MaxChainDepth     int           `yaml:"max_chain_depth" env-default:"32"`
	RankSyncInterval  time.Duration `yaml:"rank_sync_interval" env-default:"10m"`
	RankSyncBatchSize int           `yaml:"rank_sync_batch_size" env-default:"500"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

func (c *PartnerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTPServer.Host, c.HTTPServer.Port)
}

func (c *PartnerConfig) IsLocal() bool {
	return c.Env == "local"
}

// Load reads the YAML file at path, then applies env overrides.
func Load(path string) (*PartnerConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg PartnerConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *PartnerConfig {

	// Processing env config variable and file
	configPath := os.Getenv("PARTNER_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("PARTNER_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}

	return cfg
}
