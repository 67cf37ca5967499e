package bootstrap

import (
	"github.com/kbukum/trascrivi/config"
)

// Config is the constraint for application config types. A struct embedding
// config.ServiceConfig satisfies it once it defines ApplyDefaults and
// Validate that also call the embedded ones.
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
