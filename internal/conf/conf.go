// Package conf loads and validates the application configuration from a
// toml file. Configuration is read once at startup and watched for changes.
package conf

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/awjames6875/shipflow/pkg/httpx"
	"github.com/awjames6875/shipflow/pkg/log"
)

// AppConfig is the root configuration.
type AppConfig struct {
	Log       log.Conf
	Http      httpx.HTTP
	Providers Providers
	Workflow  Workflow
	Schedule  Schedule
}

// Workflow configures pipeline execution.
type Workflow struct {
	// Platforms lists the publish targets for auto-triggered runs.
	Platforms []string
	// UploadIntervalSeconds is the minimum spacing between media uploads,
	// shared across all concurrent runs.
	UploadIntervalSeconds int
	// PublishIntervalSeconds is the minimum spacing between publish calls,
	// shared across all concurrent runs.
	PublishIntervalSeconds int
	// MaxRunSeconds bounds a whole run; zero disables the bound.
	MaxRunSeconds int
}

func (w *Workflow) SetDefaults() {
	if len(w.Platforms) == 0 {
		w.Platforms = []string{"tiktok", "instagram", "youtube"}
	}
	if w.UploadIntervalSeconds == 0 {
		w.UploadIntervalSeconds = 10
	}
	if w.PublishIntervalSeconds == 0 {
		w.PublishIntervalSeconds = 5
	}
}

// Schedule configures cron-triggered automatic runs.
type Schedule struct {
	Enabled bool
	// Spec is a standard cron expression, e.g. "0 9 * * *".
	Spec string
	// Topic seeds the research step for scheduled runs.
	Topic string
}

// LoadConfigFile reads config.toml from confDir, applies defaults, and
// watches the file for changes.
func LoadConfigFile(confDir string) (*AppConfig, error) {
	vCfg := viper.New()
	vCfg.AddConfigPath(confDir)
	vCfg.SetConfigName("config")
	vCfg.SetConfigType("toml")

	// Secrets may come from the environment instead of the file, e.g.
	// SHIPFLOW_PROVIDERS_OPENAI_APIKEY.
	vCfg.SetEnvPrefix("shipflow")
	vCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vCfg.AutomaticEnv()
	for _, key := range []string{
		"providers.perplexity.apikey",
		"providers.openai.apikey",
		"providers.heygen.apikey",
		"providers.blotato.apikey",
	} {
		_ = vCfg.BindEnv(key)
	}

	if err := vCfg.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	c := new(AppConfig)
	if err := vCfg.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	c.SetDefaults()

	vCfg.WatchConfig()
	vCfg.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("configuration changed, reloading: %s", e.Name)
		if err := vCfg.Unmarshal(c); err != nil {
			log.Errorf("failed to reload configuration: %v", err)
			return
		}
		c.SetDefaults()
	})

	return c, nil
}

func (c *AppConfig) SetDefaults() {
	c.Log.SetDefaults()
	c.Http.SetDefaults()
	c.Providers.SetDefaults()
	c.Workflow.SetDefaults()
}
