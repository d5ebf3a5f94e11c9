package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_RELAY_HOST is the loopback address the in-process relay binds to
	RelayHost string `envconfig:"E2E_RELAY_HOST" default:"127.0.0.1"`
	// E2E_TIMEOUT bounds every expected delivery
	Timeout time.Duration `envconfig:"E2E_TIMEOUT" default:"2s"`
	// E2E_DEBUG_DATAGRAMS logs every datagram sent and received by test clients
	DebugDatagrams bool `envconfig:"E2E_DEBUG_DATAGRAMS" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
