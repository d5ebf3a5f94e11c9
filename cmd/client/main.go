package main

import (
	"bufio"
	"chat-relay/client"
	"chat-relay/domain"
	"chat-relay/infrastructure/udp"
	"chat-relay/internal"
	"context"
	"fmt"
	"net"
	"net/netip"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run(args []string) (int, error) {
	// 1. Load configuration from environment variables and arguments.
	_ = godotenv.Load()
	var config internal.ClientConfig
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
	log := logs.GetLoggerFromString(config.LogLevel)

	server, err := net.ResolveUDPAddr("udp", config.ServerAddress())
	if err != nil {
		return exitConfig, fmt.Errorf("could not resolve %s: %w", config.ServerAddress(), err)
	}

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the socket.
	transport, err := udp.Dial(udp.MessageSize)
	if err != nil {
		return exitRuntime, err
	}
	defer func() { _ = transport.Close() }()

	input := bufio.NewReader(os.Stdin)
	serverAddr := server.AddrPort()
	serverAddr = netip.AddrPortFrom(serverAddr.Addr().Unmap(), serverAddr.Port())
	session := client.NewSession(log, transport, serverAddr, client.NewPrinter(os.Stdout, config.Colours))

	name := domain.NewName(config.LoginName)
	if name == "" {
		if name, err = session.ReadName(input); err != nil {
			return exitRuntime, err
		}
	}

	// 4. Chat until "quit", end of input or Ctrl+C.
	if err := session.Run(ctx, name, input); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}
