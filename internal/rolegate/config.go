package rolegate

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// GateConfig names the service's own role namespace and the roles inside it
// that carry operator access. Roles outside the namespace never grant access.
type GateConfig struct {
	Namespace   string   `mapstructure:"namespace"`
	AllowRoles  []string `mapstructure:"allowRoles"`
	LegacyRoles []string `mapstructure:"legacyRoles"`
}

func DefaultGateConfig() GateConfig {
	return GateConfig{
		Namespace:   "kpa",
		AllowRoles:  []string{"branch_admin", "operator", "admin"},
		LegacyRoles: []string{"admin", "operator", "branch_admin", "manager"},
	}
}

// ConfigHolder hot-reloads the gate config from rolegate.yml when present.
type ConfigHolder struct {
	current atomic.Value // holds GateConfig
}

func NewConfigHolder() (*ConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("rolegate")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/pharmgate")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PHARMGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultGateConfig()
		v.SetDefault("rolegate.namespace", defaults.Namespace)
		v.SetDefault("rolegate.allowRoles", defaults.AllowRoles)
		v.SetDefault("rolegate.legacyRoles", defaults.LegacyRoles)
	}

	var cfg GateConfig
	if err := v.UnmarshalKey("rolegate", &cfg); err != nil {
		return nil, err
	}
	if err := validateGateConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated GateConfig
		if err := v.UnmarshalKey("rolegate", &updated); err != nil {
			log.Printf("[rolegate-config] reload failed: %v", err)
			return
		}
		if err := validateGateConfig(updated); err != nil {
			log.Printf("[rolegate-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[rolegate-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticConfigHolder wraps a fixed config, used by tests.
func NewStaticConfigHolder(cfg GateConfig) *ConfigHolder {
	holder := &ConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *ConfigHolder) Get() GateConfig {
	return h.current.Load().(GateConfig)
}

func validateGateConfig(cfg GateConfig) error {
	if strings.TrimSpace(cfg.Namespace) == "" {
		return errors.New("rolegate.namespace cannot be empty")
	}
	if len(cfg.AllowRoles) == 0 {
		return errors.New("rolegate.allowRoles cannot be empty")
	}
	return nil
}
