package configs

import (
	"HamqadamBot/configs/loader"
	"fmt"
	"github.com/go-playground/validator/v10"
	"log"
	"strconv"
	"time"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultCoreAPIBaseURL = "http://hamqadam-core:8080/api/v1"
)

type CoreAPIConfig struct {
	BaseURL   string        `validate:"required,url"`
	Timeout   time.Duration `validate:"gt=0"`
	RateLimit float64       `validate:"gt=0"`
	Burst     int           `validate:"gt=0"`
}

type TelegramConfig struct {
	Token             string        `validate:"required"`
	ConnectionTimeout time.Duration `validate:"gt=0"`
	UpdateTimeout     int           `validate:"gte=0"`
	Debug             bool
}

type BotConfig struct {
	DefaultLanguage string `validate:"required,oneof=en fa"`
	DraftsPageSize  int    `validate:"gt=0"`
}

type MetricsConfig struct {
	Addr string `validate:"required"`
}

type Config struct {
	Core    CoreAPIConfig
	TG      TelegramConfig
	Bot     BotConfig
	Metrics MetricsConfig
	Env     string `validate:"oneof=local dev prod"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Load(loader loader.ConfigLoader, env string) (*Config, error) {
	const op = "configs.Load"
	envs, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("%s: config load failed: %w", op, err)
	}
	cfg := &Config{
		Core: CoreAPIConfig{
			BaseURL:   getEnvOrDefault(envs["CORE_API_BASE_URL"], defaultCoreAPIBaseURL),
			Timeout:   getEnvAsDuration(envs["CORE_API_TIMEOUT"], 10*time.Second),
			RateLimit: getEnvAsFloat(envs["CORE_API_RATE_LIMIT"], 20),
			Burst:     getEnvAsInt(envs["CORE_API_BURST"], 10),
		},
		TG: TelegramConfig{
			Token:             envs["TELEGRAM_TOKEN"],
			ConnectionTimeout: getEnvAsDuration(envs["TELEGRAM_CONNECTION_TIMEOUT"], 65*time.Second),
			UpdateTimeout:     getEnvAsInt(envs["TELEGRAM_UPDATE_TIMEOUT"], 60),
			Debug:             getEnvAsBool(envs["TELEGRAM_DEBUG"], false),
		},
		Bot: BotConfig{
			DefaultLanguage: getEnvOrDefault(envs["BOT_DEFAULT_LANGUAGE"], "en"),
			DraftsPageSize:  getEnvAsInt(envs["BOT_DRAFTS_PAGE_SIZE"], 5),
		},
		Metrics: MetricsConfig{
			Addr: getEnvOrDefault(envs["METRICS_ADDR"], ":8080"),
		},
		Env: getEnvOrDefault(env, EnvDev),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%s: config validation failed: %w", op, err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	return validate.Struct(cfg)
}

func getEnvOrDefault(strValue, defaultValue string) string {
	if strValue == "" {
		return defaultValue
	}
	return strValue
}

func getEnvAsDuration(strValue string, defaultValue time.Duration) time.Duration {
	const op = "configs.getEnvAsDuration"
	if strValue == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(strValue)
	if err != nil {
		log.Printf("%s:Invalid value for %s, using default: %v", op, strValue, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsInt(strValue string, defaultValue int) int {
	const op = "configs.getEnvAsInt"
	if strValue == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("%s:Invalid value for %s, using default: %v", op, strValue, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(strValue string, defaultValue float64) float64 {
	const op = "configs.getEnvAsFloat"
	if strValue == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		log.Printf("%s:Invalid value for %s, using default: %v", op, strValue, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(strValue string, defaultValue bool) bool {
	if strValue == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(strValue)
	if err != nil {
		return defaultValue
	}
	return value
}
