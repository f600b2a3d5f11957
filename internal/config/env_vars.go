package config

import (
	"fmt"
	"strings"
	"time"
)

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetRequestTimeout() time.Duration
}

type EnvVars struct {
	Port           string        `yaml:"port" env:"PORT" env-default:"3000"`
	AppName        string        `yaml:"app_name" env:"APP_NAME" env-default:"CRM Event Sync"`
	Env            string        `yaml:"env" env:"ENV" env-default:"DEV"`
	LogLevel       string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"30s"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "3000"
	}
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return e.Env
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) GetRequestTimeout() time.Duration {
	if e.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return e.RequestTimeout
}
