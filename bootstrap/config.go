package bootstrap

import (
	"github.com/kbukum/itemfeed/config"
)

// Config is the constraint for application configuration types. Any
// struct embedding config.ServiceConfig satisfies it through promoted
// methods, as long as it defines its own ApplyDefaults and Validate or
// relies on the embedded ones.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
