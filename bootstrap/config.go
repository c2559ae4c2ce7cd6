package bootstrap

import (
	"github.com/kbukum/asreval/config"
)

// Config is the constraint for application configuration types.
// Any struct that embeds config.ServiceConfig satisfies it through
// promoted methods:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Storage storage.Config `yaml:"storage" mapstructure:"storage"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
