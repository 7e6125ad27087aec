package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/roandegraaf/ha-mcp/internal/config"
	"github.com/roandegraaf/ha-mcp/internal/confirm"
	"github.com/roandegraaf/ha-mcp/internal/haclient"
	"github.com/roandegraaf/ha-mcp/internal/httpapi"
	"github.com/roandegraaf/ha-mcp/internal/tools"
)

var version = "dev"

const instructions = `This server manages a Home Assistant instance. Read tools return JSON.
Every tool that changes something shows a preview and asks for confirmation
first; pass skip_confirm=true only when the user already approved the change.`

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.LogLevel)
	log := slog.Default()

	client := haclient.NewClient(cfg.HAURL, cfg.WebSocketURL(), cfg.Token, log)
	connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = client.Connect(connectCtx)
	cancel()
	if err != nil {
		var authErr *haclient.AuthError
		if errors.As(err, &authErr) {
			log.Error("Home Assistant rejected the access token, check HA_MCP_TOKEN")
		} else {
			log.Error("cannot reach Home Assistant", "url", cfg.HAURL, "error", err)
		}
		os.Exit(1)
	}
	defer client.Close()
	log.Info("connected to Home Assistant", "url", cfg.HAURL)

	orchestrator := confirm.NewOrchestrator(tools.NewElicitSolicitor(log), cfg.SkipConfirmDefault, log)
	registry := tools.NewRegistry(&tools.Deps{
		Client:  client,
		Confirm: orchestrator,
		Log:     log,
	})

	s := server.NewMCPServer(
		"ha-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	registry.Attach(s)
	log.Info("tools registered", "count", len(registry.Names()))

	switch cfg.Transport {
	case "http":
		runHTTP(cfg, s, log)
	default:
		if err := server.ServeStdio(s); err != nil {
			log.Error("stdio server stopped", "error", err)
			os.Exit(1)
		}
	}
	log.Info("ha-mcp stopped")
}

func runHTTP(cfg *config.Config, s *server.MCPServer, log *slog.Logger) {
	handler := httpapi.New(server.NewStreamableHTTPServer(s))
	httpSrv := &http.Server{Addr: cfg.Host + ":" + cfg.Port, Handler: handler}

	go func() {
		log.Info("ha-mcp listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", "error", err)
	}
}

// setupLogging writes to stderr: stdout belongs to the stdio transport.
func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
