package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sam-maryland/league-mcp-server/internal/bracket"
	"github.com/sam-maryland/league-mcp-server/internal/config"
	"github.com/sam-maryland/league-mcp-server/internal/league"
	"github.com/sam-maryland/league-mcp-server/internal/mcp"
	"github.com/sam-maryland/league-mcp-server/internal/metrics"
	"github.com/sam-maryland/league-mcp-server/internal/remote"
	"github.com/sam-maryland/league-mcp-server/internal/store"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	configureLogger(logger, cfg.Log)

	ctx := context.Background()

	st, err := store.Open(ctx, cfg.Storage, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open session store")
	}
	defer st.Close()
	fatal := fatalClosing(logger, st)

	var rc remote.Client
	if cfg.Remote.Enabled {
		rc = remote.NewHTTPClient(cfg.Remote.BaseURL, cfg.Remote.APIKey, cfg.Remote.Timeout, logger)
		logger.WithField("base_url", cfg.Remote.BaseURL).Info("Remote sync enabled")
	}

	m := metrics.New()
	service := league.NewService(st, rc, m, logger, bracket.WithMinTeams(cfg.League.MinPlayoffTeams))
	if err := service.Load(ctx); err != nil {
		fatal(err, "Failed to load league session")
	}

	if cfg.Metrics.Addr != "" {
		status := metrics.NewStatusServer(cfg.Metrics.Addr, m, service, logger)
		go func() {
			logger.WithField("addr", cfg.Metrics.Addr).Info("Starting status server")
			if err := status.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("Status server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			status.Shutdown(shutdownCtx)
		}()
	}

	mcpServer := mcp.NewLeagueMCPServer(service, cfg.League.Name, logger)
	if mcpServer == nil {
		fatal(errors.New("nil server"), "Failed to create MCP server")
	}

	logger.WithField("league", cfg.League.Name).Info("Starting League MCP Server...")

	if err := server.ServeStdio(mcpServer); err != nil {
		fatal(err, "Server failed to start")
	}
}

// fatalClosing returns a fatal logger that closes st first. Deferred calls
// do not run once the process exits.
func fatalClosing(logger *logrus.Logger, st store.Store) func(err error, msg string) {
	return func(err error, msg string) {
		if cerr := st.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close session store")
		}
		logger.WithError(err).Fatal(msg)
	}
}

// configureLogger applies the configured level and format. Logs go to
// stderr; stdout carries the MCP protocol.
func configureLogger(logger *logrus.Logger, cfg config.LogConfig) {
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithField("level", cfg.Level).Warn("Unknown log level, using info")
	}
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logger.SetOutput(os.Stderr)
}
