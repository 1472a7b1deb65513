package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Google struct {
		ProjectID string `mapstructure:"projectID"`
		// PivotLanguage is the fixed intermediate language every inbound
		// message is translated into before intent detection.
		PivotLanguage string `mapstructure:"pivotLanguage"`
	} `mapstructure:"google"`
	Session struct {
		Secret     string        `mapstructure:"secret"`
		CookieName string        `mapstructure:"cookieName"`
		TTL        time.Duration `mapstructure:"TTL"`
	} `mapstructure:"session"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// The original deployment drove these through plain env vars; keep
	// those names working on top of the file-based config.
	_ = v.BindEnv("google.pivotLanguage", "TARGET_LANGUAGE")
	_ = v.BindEnv("google.projectID", "PROJECT_ID")
	_ = v.BindEnv("session.secret", "SESSION_SECRET")
	_ = v.BindEnv("server.HTTPPort", "HTTP_PORT")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	if config.Google.ProjectID == "" {
		return Config{}, fmt.Errorf("google.projectID (PROJECT_ID) is required")
	}
	if config.Session.Secret == "" {
		return Config{}, fmt.Errorf("session.secret (SESSION_SECRET) is required")
	}
	return config, nil
}
