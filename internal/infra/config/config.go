package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App AppSettings `mapstructure:"app"`
}

// AppSettings carries the process-level settings. Flags override these.
type AppSettings struct {
	Env        string `mapstructure:"env"`
	ConfigPath string `mapstructure:"config_path"`
	Verbose    bool   `mapstructure:"verbose"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("OTPGEN")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.env",
		"app.config_path",
		"app.verbose",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.config_path", "otpgen.json")
	v.SetDefault("app.verbose", false)
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "OTPGEN_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
