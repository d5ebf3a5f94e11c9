package internal

import (
	"chat-relay/errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config holds the relay settings. Every field comes from the environment;
// the listen port may also be given as the first command-line argument.
type Config struct {
	Host              string        `env:"RELAY_HOST,default=0.0.0.0" validate:"required"`
	Port              int           `env:"RELAY_PORT" validate:"required,min=1,max=65535"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=30s" validate:"gte=0"`
	StrictMembership  bool          `env:"STRICT_MEMBERSHIP,default=false"`
	ReadBufferSize    int           `env:"READ_BUFFER_SIZE,default=2048" validate:"gte=164"`
}

// WithArgs applies positional arguments: `relay <port>`.
func (c Config) WithArgs(args []string) (Config, error) {
	if len(args) == 0 {
		return c, nil
	}
	port, err := ParsePort(args[0])
	if err != nil {
		return c, err
	}
	c.Port = port
	return c, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) ListenAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ClientConfig holds the client settings: `client <server-host> <server-port>`.
type ClientConfig struct {
	ServerHost string `env:"CHAT_SERVER_HOST,default=127.0.0.1" validate:"required"`
	ServerPort int    `env:"CHAT_SERVER_PORT" validate:"required,min=1,max=65535"`
	LoginName  string `env:"CHAT_LOGIN_NAME"`
	LogLevel   string `env:"LOG_LEVEL,default=WARN" validate:"oneof=DEBUG INFO WARN ERROR"`
	Colours    bool   `env:"CHAT_COLOURS,default=true"`
}

func (c ClientConfig) WithArgs(args []string) (ClientConfig, error) {
	if len(args) > 0 {
		c.ServerHost = args[0]
	}
	if len(args) > 1 {
		port, err := ParsePort(args[1])
		if err != nil {
			return c, err
		}
		c.ServerPort = port
	}
	return c, nil
}

func (c ClientConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}
	return nil
}

func (c ClientConfig) ServerAddress() string {
	return net.JoinHostPort(c.ServerHost, strconv.Itoa(c.ServerPort))
}

func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: port must be a number between 1 and 65535, got %q", errors.ErrInvalidConfig, s)
	}
	return port, nil
}
