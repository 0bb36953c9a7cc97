package config

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"shift-planner-bot/internal/models"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type BotConfig struct {
	TelegramToken   string `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramDebug   bool   `env:"TELEGRAM_DEBUG" envDefault:"false"`
	BaseAdminChatID int64  `env:"BASE_ADMIN_CHAT_ID,required"`
	DatabaseURL     string `env:"DATABASE_URL" envDefault:"shifts.db"`
	CompanyID       string `env:"COMPANY_ID" envDefault:"default"`
	PlanName        string `env:"PLAN" envDefault:"pro-plus"`
	HolidaysFile    string `env:"HOLIDAYS_FILE"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`

	Clocking struct {
		EarlyWindow    time.Duration `env:"CLOCK_IN_EARLY_WINDOW" envDefault:"10m"`
		AutoCloseGrace time.Duration `env:"AUTO_CLOCKOUT_GRACE" envDefault:"30m"`
		AutoCloseEvery time.Duration `env:"AUTO_CLOCKOUT_INTERVAL" envDefault:"60s"`
	}
	InboxPollInterval time.Duration `env:"INBOX_POLL_INTERVAL" envDefault:"60s"`

	Plan models.Plan
}

var instance *BotConfig
var once sync.Once

// GetBotConfig загружает конфигурацию один раз. Ошибка конфигурации фатальна.
func GetBotConfig() *BotConfig {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Warnf("could not load .env file: %s", err.Error())
		}

		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("invalid configuration: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load читает конфигурацию из переменных окружения процесса
func Load() (*BotConfig, error) {
	return parse(env.Options{})
}

// LoadFrom читает конфигурацию из переданного набора переменных
func LoadFrom(vars map[string]string) (*BotConfig, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*BotConfig, error) {
	cfg := &BotConfig{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			// только первая ошибка, чтобы лог был понятнее
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	plan, err := models.ParsePlan(cfg.PlanName)
	if err != nil {
		return nil, err
	}
	cfg.Plan = plan

	if cfg.Clocking.AutoCloseEvery <= 0 || cfg.InboxPollInterval <= 0 {
		return nil, fmt.Errorf("task intervals must be positive")
	}
	if cfg.Clocking.EarlyWindow < 0 || cfg.Clocking.AutoCloseGrace < 0 {
		return nil, fmt.Errorf("clocking windows must not be negative")
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Level возвращает уровень логирования
func (c *BotConfig) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
