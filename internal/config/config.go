package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev" validate:"oneof=dev prod"`

	HttpServerPort  uint16        `env:"HTTP_SERVER_PORT" envDefault:"8000" validate:"min=1000,max=65535"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"  validate:"gt=0"`

	WsReadLimit int64         `env:"WS_READ_LIMIT" envDefault:"67108864" validate:"min=2048"`
	WsWriteWait time.Duration `env:"WS_WRITE_WAIT" envDefault:"10s"   validate:"gt=0"`

	RedisRelayEnabled  bool   `env:"REDIS_RELAY_ENABLED"  envDefault:"false"`
	RedisHost          string `env:"REDIS_HOST"           envDefault:"localhost"`
	RedisPort          uint16 `env:"REDIS_PORT"           envDefault:"6379"     validate:"min=1000,max=65535"`
	RedisChannelPrefix string `env:"REDIS_CHANNEL_PREFIX" envDefault:"birdroom" validate:"required"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
