// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/tablescout/internal/api"
	"github.com/tomtom215/tablescout/internal/config"
	"github.com/tomtom215/tablescout/internal/enrich"
	"github.com/tomtom215/tablescout/internal/events"
	"github.com/tomtom215/tablescout/internal/geo"
	"github.com/tomtom215/tablescout/internal/geoapify"
	"github.com/tomtom215/tablescout/internal/llm"
	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/models"
	"github.com/tomtom215/tablescout/internal/pipeline"
	"github.com/tomtom215/tablescout/internal/places"
	"github.com/tomtom215/tablescout/internal/preferences"
	"github.com/tomtom215/tablescout/internal/recommend"
	"github.com/tomtom215/tablescout/internal/recommend/reranking"
	"github.com/tomtom215/tablescout/internal/session"
	"github.com/tomtom215/tablescout/internal/supervisor"
	"github.com/tomtom215/tablescout/internal/supervisor/services"
	live "github.com/tomtom215/tablescout/internal/websocket"
)

// app holds the wired components between construction and shutdown.
type app struct {
	cfg      *config.Config
	sessions session.Store
	bus      *events.Bus
	hub      *live.Hub
	server   *http.Server
}

// buildApp constructs every component from cfg.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	gazetteer := geo.DefaultGazetteer()

	geoClient := geoapify.NewClient(geoapify.Config{
		BaseURL:           cfg.Geoapify.BaseURL,
		APIKey:            cfg.Geoapify.APIKey,
		Timeout:           cfg.Geoapify.Timeout,
		RequestsPerSecond: cfg.Geoapify.RequestsPerSecond,
		GeocodeCacheTTL:   cfg.Geoapify.GeocodeCacheTTL,
		GeocodeCacheSize:  cfg.Geoapify.GeocodeCacheSize,
	})

	var completer llm.Completer
	if cfg.LLM.HasLLM() {
		c, err := llm.New(ctx, llm.Config{
			Provider:    cfg.LLM.Provider,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			APIKey:      cfg.LLM.APIKey,
			Timeout:     cfg.LLM.Timeout,
			Temperature: cfg.LLM.Temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("llm: %w", err)
		}
		completer = c
	}

	parser := preferences.NewParser(preferences.Config{
		DefaultDistanceKM: cfg.Search.DefaultDistanceKM,
		DefaultLang:       cfg.Search.LangDefault,
		HistoryTurns:      cfg.LLM.HistoryTurns,
		Gazetteer:         gazetteer,
	}, completer)

	resolver := geo.NewResolver(geoClient, gazetteer, geo.ResolverConfig{
		DefaultDistanceKM: cfg.Search.DefaultDistanceKM,
		PaddingKM:         cfg.Search.BBoxPaddingKM,
		MaxRadiusKM:       cfg.Search.MaxRadiusKM,
		DefaultLang:       cfg.Search.LangDefault,
		DefaultRegion:     defaultRegion(cfg.Search.DefaultRegion),
	})

	source := places.NewSource(geoClient, places.Config{
		Categories:   cfg.Geoapify.Categories,
		MaxResults:   cfg.Geoapify.MaxResults,
		RetryBackoff: cfg.Geoapify.RetryBackoff,
	})

	engine, err := buildRanker(cfg)
	if err != nil {
		return nil, err
	}

	enricher, err := buildEnricher(cfg, completer)
	if err != nil {
		return nil, err
	}

	sessions, err := session.New(session.Config{
		Backend:  session.Backend(cfg.Session.Backend),
		MaxTurns: cfg.Session.MaxTurns,
		TTL:      cfg.Session.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	bus := events.NewBus(events.DefaultBusConfig())
	audit := events.NewAudit(events.DefaultAuditSize)
	audit.Register(bus)
	hub := live.NewHub()
	hub.Subscribe(bus)

	p, err := pipeline.New(pipeline.Config{InitialBatch: cfg.Stream.InitialBatch}, sessions, pipeline.Deps{
		Parser:   parser,
		Resolver: resolver,
		Source:   source,
		Ranker:   engine,
		Enricher: enricher,
		Events:   bus,
	})
	if err != nil {
		_ = sessions.Close()
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	hcfg := api.HandlerConfig{
		Recommender: p,
		Sessions:    sessions,
		Audit:       audit,
		Live:        hub,
		Geo:         geoClient,
	}
	if pinger, ok := completer.(llm.Pinger); ok {
		hcfg.LLM = pinger
	}
	handler, err := api.NewHandler(hcfg)
	if err != nil {
		_ = sessions.Close()
		return nil, err
	}
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(cfg.Server)))

	return &app{
		cfg:      cfg,
		sessions: sessions,
		bus:      bus,
		hub:      hub,
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
			Handler:           router,
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.Server.WriteTimeout,
		},
	}, nil
}

// buildRanker creates the engine, with the cross-encoder when enabled.
func buildRanker(cfg *config.Config) (*recommend.Engine, error) {
	rcfg := recommend.DefaultConfig()
	rcfg.ResultLimit = cfg.Search.ResultLimit
	if cfg.Rerank.TopN > 0 {
		rcfg.RerankTopN = cfg.Rerank.TopN
	}
	rcfg.RerankWeight = cfg.Rerank.Weight
	if cfg.Rerank.Timeout > 0 {
		rcfg.RerankTimeout = cfg.Rerank.Timeout
	}

	var reranker recommend.Reranker
	if cfg.Rerank.Enabled {
		ce, err := reranking.NewCrossEncoder(reranking.Config{
			BaseURL: cfg.Rerank.BaseURL,
			Model:   cfg.Rerank.Model,
			Timeout: cfg.Rerank.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("reranker: %w", err)
		}
		reranker = ce
	}

	engine, err := recommend.NewEngine(rcfg, reranker)
	if err != nil {
		return nil, fmt.Errorf("ranker: %w", err)
	}
	return engine, nil
}

// buildEnricher wires the provider-link source, the web search source when
// configured and the LLM reasoner when enabled.
func buildEnricher(cfg *config.Config, completer llm.Completer) (*enrich.Enricher, error) {
	sources := []enrich.DetailSource{enrich.PlaceLinksSource{}}
	if cfg.Enrich.SearchBaseURL != "" && cfg.Enrich.SearchAPIKey != "" {
		ws, err := enrich.NewWebSearchSource(enrich.WebSearchConfig{
			BaseURL:    cfg.Enrich.SearchBaseURL,
			APIKey:     cfg.Enrich.SearchAPIKey,
			MaxResults: cfg.Enrich.MaxResults,
			Timeout:    cfg.Enrich.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("web search: %w", err)
		}
		sources = append(sources, ws)
	} else {
		logging.Warn().Msg("No web search configured; enrichment uses provider links only")
	}

	var reasoner enrich.Reasoner
	if completer != nil && cfg.LLM.ReasonEnabled {
		reasoner = enrich.NewLLMReasoner(completer)
	}

	return enrich.New(enrich.Config{
		TopN:        cfg.Enrich.TopN,
		Concurrency: cfg.Enrich.Concurrency,
		Timeout:     cfg.Enrich.Timeout,
	}, reasoner, sources...), nil
}

func defaultRegion(r config.RegionConfig) *geo.Region {
	if !r.Enabled {
		return nil
	}
	return &geo.Region{
		Label:  r.Label,
		Center: models.LatLon{Lat: r.Latitude, Lon: r.Longitude},
	}
}

// register adds the long-running services to the tree.
func (a *app) register(tree *supervisor.SupervisorTree) {
	if mem, ok := a.sessions.(*session.MemoryStore); ok {
		tree.AddDataService(services.NewSessionJanitor(mem, time.Minute))
	}
	tree.AddMessagingService(a.bus)
	tree.AddMessagingService(a.hub)
	tree.AddAPIService(services.NewHTTPServerService(a.server, a.server.Addr, a.cfg.Server.ShutdownTimeout))
}

// Close releases resources not owned by the supervisor.
func (a *app) Close() {
	if err := a.bus.Close(); err != nil {
		logging.Warn().Err(err).Msg("Event bus close failed")
	}
	if err := a.sessions.Close(); err != nil {
		logging.Warn().Err(err).Msg("Session store close failed")
	}
}
