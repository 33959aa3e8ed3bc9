// ABOUTME: Main entry point for the navigator MCP server with stdio transport
// ABOUTME: Wires config, routing client, navigator and transcript storage, then serves tools
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/hospital-navigator/internal/config"
	"github.com/harper/hospital-navigator/internal/dispatch"
	"github.com/harper/hospital-navigator/internal/llm"
	"github.com/harper/hospital-navigator/internal/logging"
	"github.com/harper/hospital-navigator/internal/mcp"
	"github.com/harper/hospital-navigator/internal/router"
	"github.com/harper/hospital-navigator/internal/storage/sqlite"
)

var version = "dev"

func main() {
	// Load .env file if it exists (for API keys)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	// stdout carries the protocol
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Output: os.Stderr})

	if cfg.APIKey() == "" {
		logger.Warn("OPENAI_API_KEY not set; every routing call will fail until it is")
	}

	client := llm.NewOpenAIClient(&llm.ClientConfig{
		APIKeyEnv:  config.APIKeyEnv,
		BaseURL:    cfg.BaseURL,
		ChatModel:  cfg.ChatModel,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}, logger)
	gateway := router.NewGateway(client, router.WithTemperature(float32(cfg.Temperature)), router.WithLogger(logger))

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open transcript database", "path", cfg.DBPath, "err", err)
	}
	defer func() { _ = db.Close() }()

	recorder, err := sqlite.NewSessionRecorder(sqlite.NewTranscriptStore(db))
	if err != nil {
		logger.Fatal("failed to start transcript session", "err", err)
	}

	navigator := dispatch.New(gateway, dispatch.WithLogger(logger), dispatch.WithRecorder(recorder))
	server := mcp.NewServer(version, gateway, navigator)

	logger.Info("MCP server starting on stdio", "model", client.Model(), "session", recorder.SessionID())
	if err := mcpserver.ServeStdio(server); err != nil {
		logger.Error("server error", "err", err)
		_ = db.Close()
		os.Exit(1)
	}
}
