package internal

import (
	"chat-relay/errors"
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults_From_Environment(t *testing.T) {
	req := require.New(t)
	t.Setenv("RELAY_PORT", "9000")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)

	req.NoError(config.Validate())
	req.Equal("0.0.0.0:9000", config.ListenAddress())
	req.Equal("INFO", config.LogLevel)
	req.Equal(200*time.Millisecond, config.RestartInterval)
	req.Equal(2048, config.ReadBufferSize)
	req.False(config.StrictMembership)
}

func TestConfig_Port_Argument_Overrides_Environment(t *testing.T) {
	req := require.New(t)
	config := Config{Host: "127.0.0.1", Port: 9000, LogLevel: "INFO", RestartInterval: time.Second, ReadBufferSize: 164}

	config, err := config.WithArgs([]string{"7000"})
	req.NoError(err)
	req.NoError(config.Validate())
	req.Equal(7000, config.Port)
}

func TestConfig_Invalid(t *testing.T) {
	req := require.New(t)

	_, err := Config{}.WithArgs([]string{"not-a-port"})
	req.ErrorIs(err, errors.ErrInvalidConfig)

	// Missing port, and a read buffer too small for one datagram
	err = Config{Host: "0.0.0.0", LogLevel: "INFO", RestartInterval: time.Second, ReadBufferSize: 10}.Validate()
	req.ErrorIs(err, errors.ErrInvalidConfig)
}

func TestClientConfig_Arguments(t *testing.T) {
	req := require.New(t)

	config, err := ClientConfig{ServerHost: "127.0.0.1", LogLevel: "WARN"}.WithArgs([]string{"10.0.0.2", "8888"})
	req.NoError(err)
	req.NoError(config.Validate())
	req.Equal("10.0.0.2:8888", config.ServerAddress())
}
