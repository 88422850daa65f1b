// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

/*
Package supervisor runs the service's long-lived components under a
suture/v4 supervisor tree.

	tablescout (root)
	├── data-layer       session janitor
	├── messaging-layer  event bus (watermill router), live-feed hub
	└── api-layer        HTTP server

Failed services are restarted with suture's threshold/decay/backoff
policy. Supervisor events go to slog through sutureslog, and slog is bridged
to zerolog by logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewSessionJanitor(store, time.Minute))
	tree.AddMessagingService(bus)
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)
*/
package supervisor
