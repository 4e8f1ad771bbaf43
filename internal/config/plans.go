package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PlanConfig describes the subscription plan offered at signup. It lives in a
// config file rather than the database so pricing copy and trial length can be
// changed without a deploy.
type PlanConfig struct {
	TrialDays        int    `mapstructure:"trialDays"`
	GraceDays        int    `mapstructure:"graceDays"`
	MonthlyPriceText string `mapstructure:"monthlyPriceText"`
}

func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		TrialDays:        7,
		GraceDays:        3,
		MonthlyPriceText: "R$ 29,90/mês",
	}
}

// PlanHolder exposes the current plan config and hot-reloads it on change.
type PlanHolder struct {
	current atomic.Value // holds PlanConfig
}

func NewPlanHolder() (*PlanHolder, error) {
	v := viper.New()

	v.SetConfigName("plans")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/delivize/config")
	v.AddConfigPath("/etc/delivize")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DELIVIZE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPlanConfig()
		v.SetDefault("plan.trialDays", defaults.TrialDays)
		v.SetDefault("plan.graceDays", defaults.GraceDays)
		v.SetDefault("plan.monthlyPriceText", defaults.MonthlyPriceText)
	}

	var cfg PlanConfig
	if err := v.UnmarshalKey("plan", &cfg); err != nil {
		return nil, err
	}
	if err := validatePlanConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PlanHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PlanConfig
		if err := v.UnmarshalKey("plan", &updated); err != nil {
			log.Printf("[plan-config] reload failed: %v", err)
			return
		}
		if err := validatePlanConfig(updated); err != nil {
			log.Printf("[plan-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[plan-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPlanHolder wraps a fixed plan config, for tests and tooling.
func NewStaticPlanHolder(cfg PlanConfig) *PlanHolder {
	holder := &PlanHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PlanHolder) Get() PlanConfig {
	return h.current.Load().(PlanConfig)
}

func validatePlanConfig(cfg PlanConfig) error {
	if cfg.TrialDays < 0 {
		return errors.New("plan.trialDays must not be negative")
	}
	if cfg.GraceDays < 0 {
		return errors.New("plan.graceDays must not be negative")
	}
	return nil
}
