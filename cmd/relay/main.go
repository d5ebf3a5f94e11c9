package main

import (
	"chat-relay/infrastructure/udp"
	"chat-relay/internal"
	"chat-relay/runtime"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the relay lifecycle, and centralizes error reporting.
func run(args []string) (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	config, err := config.WithArgs(args)
	if err != nil {
		return exitConfig, err
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Socket
	transport, err := udp.Listen(config.ListenAddress(), config.ReadBufferSize)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		logger.Info("Closing socket...")
		_ = transport.Close()
	}()

	// 3. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Relay: receive-and-route plus console broadcasts
	relay := runtime.NewRelay(logger, transport, runtime.Options{
		StrictMembership:  config.StrictMembership,
		RestartInterval:   config.RestartInterval,
		HeartbeatInterval: config.HeartbeatInterval,
		Console:           os.Stdin,
		ConsoleOutput:     os.Stdout,
	})

	logger.Info("Relay listening", "address", transport.LocalAddr(), "strict_membership", config.StrictMembership)
	if err := relay.Run(ctx); err != nil {
		return exitRuntime, fmt.Errorf("relay error: %w", err)
	}

	logger.Info("Relay stopped cleanly")
	return exitOK, nil
}
