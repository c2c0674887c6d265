package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/utils"
)

type Optimizer struct {
	TimeBudget     int     `env:"TIME_BUDGET_MS" envDefault:"1000"`
	Epsilon        float64 `env:"EPSILON" envDefault:"0.01"`
	MaxMeals       int     `env:"MAX_MEALS" envDefault:"4"`
	MaxGenerations int     `env:"MAX_GENERATIONS" envDefault:"0"` // 0 表示不限制
	Seed           int64   `env:"SEED" envDefault:"0"`            // 0 表示使用当前时间
	Pricing        struct {
		PerKilometre      float64 `env:"PER_KILOMETRE" envDefault:"0.8358"`
		PerDay            float64 `env:"PER_DAY" envDefault:"45"`
		OneNightReduction float64 `env:"ONE_NIGHT_REDUCTION" envDefault:"30"`
		PerMeal           float64 `env:"PER_MEAL" envDefault:"11.25"`
	} `envPrefix:"PRICING_"`
}

func (o *Optimizer) PricingTable() domain.Pricing {
	return domain.Pricing{
		PerKilometre:      o.Pricing.PerKilometre,
		PerDay:            o.Pricing.PerDay,
		OneNightReduction: o.Pricing.OneNightReduction,
		PerMeal:           o.Pricing.PerMeal,
	}
}

// env 会把 NaN、Inf 解析为合法的浮点数，需要额外检查
func (o *Optimizer) validate() error {
	pricing := o.PricingTable()
	if err := utils.ValidatePricing(&pricing); err != nil {
		return fmt.Errorf("默认价格表无效: %w", err)
	}
	return nil
}

func (o *Optimizer) TimeBudgetDuration() time.Duration {
	return time.Duration(o.TimeBudget) * time.Millisecond
}

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required,notEmpty"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Admin struct {
		Username string `env:"USERNAME" envDefault:"admin"`
		Password string `env:"PASSWORD,required,notEmpty"`
	} `envPrefix:"ADMIN_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"336"` // 单位为小时，14 天
		Secret     string `env:"SECRET,required,notEmpty"`
	} `envPrefix:"JWT_"`
	Email struct {
		Enabled bool `env:"ENABLED" envDefault:"false"`
		SMTP    struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required,notEmpty"`
		Queue          string `env:"QUEUE" envDefault:"optimization_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD"`
		ConnectTimeout   int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		StatusExpiration int    `env:"STATUS_EXPIRATION" envDefault:"86400"` // 任务状态的保存时长，单位为秒
	} `envPrefix:"REDIS_"`
	Optimizer Optimizer `envPrefix:"OPTIMIZER_"`
}

// loadDotEnv 尝试加载 .env 文件，文件不存在时直接使用环境变量
func loadDotEnv() {
	_ = godotenv.Load()
}

func firstError(err error) error {
	aggErr := env.AggregateError{}
	if ok := errors.As(err, &aggErr); ok {
		// 只返回第一个错误使得日志更清晰
		return aggErr.Errors[0]
	}
	return err
}

func LoadConfig() (*Config, error) {
	loadDotEnv()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, firstError(err)
	}
	if err := cfg.Optimizer.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOptimizerConfig 只读取优化器相关的配置，命令行工具不需要数据库等外部依赖
func LoadOptimizerConfig() (*Optimizer, error) {
	loadDotEnv()

	cfg := &Optimizer{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "OPTIMIZER_"}); err != nil {
		return nil, firstError(err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
