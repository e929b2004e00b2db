package ioc

import (
	"time"

	"github.com/spf13/viper"
)

type EngineConfig struct {
	Interval         time.Duration `mapstructure:"interval"`
	CycleTimeout     time.Duration `mapstructure:"cycle_timeout"`
	ReminderInterval time.Duration `mapstructure:"reminder_interval"`
	HealthAddr       string        `mapstructure:"health_addr"`
	CallsPerMinute   int           `mapstructure:"calls_per_minute"`
	MaxParallel      int           `mapstructure:"max_parallel"`
}

func InitEngineConfig() EngineConfig {
	cfg := EngineConfig{
		Interval:         30 * time.Second,
		CycleTimeout:     2 * time.Minute,
		ReminderInterval: time.Minute,
		HealthAddr:       ":8080",
		CallsPerMinute:   300,
		MaxParallel:      4,
	}
	if err := viper.UnmarshalKey("engine", &cfg); err != nil {
		panic(err)
	}
	return cfg
}

// CallBudget 单周期允许的行情请求数, 由限频上限换算, 不足一分钟按比例折算
func (c EngineConfig) CallBudget() int {
	budget := int(int64(c.CallsPerMinute) * int64(c.Interval) / int64(time.Minute))
	if budget < 1 {
		budget = 1
	}
	return budget
}
