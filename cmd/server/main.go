// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

// Package main is the entry point for the Tablescout server.
//
// Startup order:
//
//  1. Configuration: defaults, .env, config.yaml, environment (koanf v2)
//  2. Logging: zerolog, json or console
//  3. Upstream clients: Geoapify, optional LLM, reranker and web search
//  4. Pipeline: parser, resolver, candidate source, ranker, enricher
//  5. Event bus with the audit subscriber
//  6. HTTP router
//  7. Supervisor tree, until SIGINT or SIGTERM
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/tablescout/internal/config"
	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer app.Close()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	app.register(tree)

	logging.Info().
		Str("addr", app.server.Addr).
		Str("session_backend", cfg.Session.Backend).
		Bool("llm", cfg.LLM.HasLLM()).
		Bool("rerank", cfg.Rerank.Enabled).
		Msg("Starting Tablescout")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}
	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}
	logging.Info().Msg("Shutdown complete")
}
