package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	APIConfig struct {
		BaseURL string `validate:"required,url"`
		Token   string
	}

	ServerConfig struct {
		Address   string `validate:"required"`
		SecretKey string `validate:"required"`
	}

	Config struct {
		Env     string
		Debug   bool
		AppName string
		Build   string
		Host    string

		API    APIConfig
		Server ServerConfig // development stub API

		TestsPageSize      int           `validate:"min=1"`
		NotificationsLimit int           `validate:"min=0"`
		SearchDebounce     time.Duration `validate:"min=0"`
		WaitTimeout        time.Duration `validate:"min=0"`

		RollbarToken string
	}
)

// dotEnvDir is where `.env.<env>` files are looked up, relative to the working directory.
var dotEnvDir = "config"

func newViper() (*viper.Viper, string, error) {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Ace Brainiac Admin")
	conf.SetDefault("build", "dev")
	conf.SetDefault("host", "localhost")
	conf.SetDefault("api.baseURL", "http://localhost:8000")
	conf.SetDefault("api.token", "")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.secretKey", "s3cr3t-dev-k3y-ch4nge-m3")
	conf.SetDefault("tests.pageSize", 9)
	conf.SetDefault("notifications.limit", 0)
	conf.SetDefault("search.debounce", 500*time.Millisecond)
	conf.SetDefault("wait.timeout", 30*time.Second)
	conf.SetDefault("rollbar.token", "")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(dotEnvDir, ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, "", errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, "", errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	conf.AutomaticEnv()
	return conf, env, nil
}

// NewConfig reads the configuration from the defaults, the optional `.env` file and the environment.
func NewConfig() (*Config, error) {
	v, env, err := newViper()
	if err != nil {
		return nil, err
	}

	conf := &Config{
		Env:     env,
		Debug:   v.GetBool("debug"),
		AppName: v.GetString("appName"),
		Build:   v.GetString("build"),
		Host:    v.GetString("host"),
		API: APIConfig{
			BaseURL: strings.TrimRight(CleanString(v.GetString("api.baseURL")), "/"),
			Token:   CleanString(v.GetString("api.token")),
		},
		Server: ServerConfig{
			Address:   v.GetString("server.address"),
			SecretKey: v.GetString("server.secretKey"),
		},
		TestsPageSize:      v.GetInt("tests.pageSize"),
		NotificationsLimit: v.GetInt("notifications.limit"),
		SearchDebounce:     v.GetDuration("search.debounce"),
		WaitTimeout:        v.GetDuration("wait.timeout"),
		RollbarToken:       v.GetString("rollbar.token"),
	}

	validate, translator := NewValidator()
	if err := ValidateStruct(validate, translator, conf); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	return conf, nil
}
