package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config interface {
	EnvConfig
	OAuthConfig
	CRMConfig
	StoreConfig
}

type mainConfig struct {
	EnvVars `yaml:"app"`
	OAuth   `yaml:"oauth"`
	CRM     `yaml:"crm"`
	Store   `yaml:"store"`
}

// Load reads the configuration. Sources, highest priority first:
//  1. explicit path (--config);
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. environment only.
//
// Environment variables always overlay file values.
func Load(path string) (Config, error) {
	var cfg mainConfig

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		if _, err := os.Stat("local.yaml"); err == nil {
			path = "local.yaml"
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("[config Load] config file %q stat failed: %w", path, err)
		}
		// ReadConfig overlays the environment after parsing the file
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("[config Load] failed to read %s: %w", path, err)
		}
		return cfg.validated()
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("[config Load] provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	return cfg.validated()
}

// cleanenv accepts a variable that is set but empty as provided.
func (c mainConfig) validated() (Config, error) {
	if c.GetClientID() == "" {
		return nil, errors.New("[config Load] CLIENT_ID must not be empty")
	}
	if c.GetClientSecret() == "" {
		return nil, errors.New("[config Load] CLIENT_SECRET must not be empty")
	}
	return c, nil
}

// MustLoad panics when the configuration cannot be loaded.
func MustLoad(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// New assembles a Config from already-populated sections.
func New(env EnvVars, oauth OAuth, crm CRM, store Store) Config {
	return mainConfig{EnvVars: env, OAuth: oauth, CRM: crm, Store: store}
}
