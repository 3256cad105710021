package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/sammcj/localllm-mcp/config"
	"github.com/sammcj/localllm-mcp/interactive"
	"github.com/sammcj/localllm-mcp/llm"
	"github.com/sammcj/localllm-mcp/mcpserver"
	"github.com/sammcj/localllm-mcp/metrics"
	"github.com/sammcj/localllm-mcp/server"
	"github.com/sammcj/localllm-mcp/tools"
)

var version = "dev"

func main() {
	envFile := flag.String("env-file", config.DefaultEnvFile, "dotenv file to load before reading the environment")
	printConfig := flag.Bool("print-config", false, "print the resolved configuration and exit")
	interactiveMode := flag.Bool("interactive", false, "chat with the local LLM from the terminal instead of serving MCP")
	flag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		log.Fatal().Err(err).Msg("failed to load env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if *printConfig {
		if err := cfg.Write(os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("failed to print config")
		}
		return
	}

	logger := cfg.Logging.NewLogger(os.Stderr)
	log.Logger = logger
	logger.Info().
		Str("version", version).
		Str("transport", cfg.Server.Transport).
		Str("model", cfg.LLM.Model).
		Msg("starting localllm-mcp")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	client := llm.New(cfg.LLM.BaseURL, cfg.LLM.APIKey,
		llm.WithLogger(logger.With().Str("component", "llm").Logger()),
		llm.WithMetrics(m),
	)
	defer client.Close()
	logger.Info().Str("endpoint", client.Endpoint()).Msg("using chat completions endpoint")

	querier := tools.NewQuerier(client, cfg.LLM, logger.With().Str("component", "tools").Logger())

	if *interactiveMode {
		console := interactive.New(cfg, querier, os.Stdin, os.Stdout, logger)
		if err := console.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("interactive session failed")
		}
		return
	}

	mcp := mcpserver.NewMCPServer(querier, m, logger, version)

	switch cfg.Server.Transport {
	case "http":
		srv := server.New(cfg, mcp.Handler(), registry, logger, client)
		if err := srv.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("http server failed")
		}
	default:
		if err := mcp.Serve(ctx, os.Stdin, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("stdio server failed")
		}
	}

	logger.Info().Msg("stopped")
}
