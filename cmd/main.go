package main

import (
	"chat-store/internal"
	"chat-store/repositories"
	"chat-store/services"
	"chat-store/ui"
	"fmt"
	"os"

	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the calling shell.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat-store terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires configuration, storage and service, then replays the demonstration.
// Deferred cleanups run before main exits.
func run() (int, error) {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}
	displayConfig, err := ui.LoadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("display config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Storage
	repository, err := repositories.NewChatRepository(config.StoreBackend, log)
	if err != nil {
		return exitConfig, err
	}
	defer func() {
		if err := repository.Close(); err != nil {
			log.Error("Closing chat store failed", "error", err)
		}
	}()
	log.Info("Chat store ready", "backend", config.StoreBackend)

	// 3. Service & demonstration
	service := services.NewChatService(log, repository)
	console := ui.NewConsole(os.Stdout, displayConfig)
	if err = replay(service, console, config.HistorySize); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}
