package main

import (
	"context"
	"fmt"

	"github.com/ochairo/casebot/internal/config"
	domainadapters "github.com/ochairo/casebot/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/casebot/internal/domain-orchestrators"
	"github.com/ochairo/casebot/internal/domain/entities"
	"github.com/ochairo/casebot/internal/domain/interfaces"
	"github.com/ochairo/casebot/internal/domain/interfaces/gateways"
	"github.com/ochairo/casebot/internal/domain/services"
	"github.com/ochairo/casebot/internal/external-adapters/dataset"
	"github.com/ochairo/casebot/internal/external-adapters/zaplog"
)

// app holds the wired components for one command invocation
type app struct {
	cfg          *config.Config
	logger       *zaplog.Logger
	catalog      *services.Catalog
	dispatcher   *services.Dispatcher
	orchestrator *orchestrators.RequestOrchestrator
}

// configOverride adjusts a loaded config for one command
type configOverride func(*config.Config)

// loadConfig reads the config file and environment and builds the logger
func loadConfig(flags *rootFlags, overrides ...configOverride) (*config.Config, *zaplog.Logger, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}
	for _, override := range overrides {
		override(cfg)
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}

	logger, err := zaplog.Build(zaplog.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, logger, nil
}

// newDispatcher builds the dispatcher alone; dispatching needs no catalog
func newDispatcher(cfg *config.Config, logger interfaces.Logger) *services.Dispatcher {
	timeout := cfg.Dispatch.Timeout.Duration()
	gateway := domainadapters.NewHTTPGitHubGateway(domainadapters.GitHubGatewayConfig{
		BaseURL: cfg.Dispatch.APIURL,
		Token:   cfg.Dispatch.Token,
		Timeout: timeout,
	}, logger)

	mode := entities.DispatchModeMock
	if cfg.Dispatch.IsLive() {
		mode = entities.DispatchModeLive
	}

	return services.NewDispatcher(gateway, services.DispatcherConfig{
		Target: entities.WorkflowTarget{
			Owner:      cfg.Dispatch.Owner,
			Repo:       cfg.Dispatch.Repo,
			WorkflowID: cfg.Dispatch.WorkflowID,
			Ref:        cfg.Dispatch.Ref,
		},
		Credential: cfg.Dispatch.Token,
		Mode:       mode,
		Timeout:    timeout,
	}, logger)
}

// newOracle returns the semantic oracle when oracle matching is configured and usable
func newOracle(ctx context.Context, cfg *config.Config, logger interfaces.Logger) gateways.SemanticOracle {
	if cfg.Match.Mode != config.MatchModeOracle {
		return nil
	}
	if cfg.Match.Oracle.APIKey == "" {
		logger.Warn("oracle matching requested without GEMINI_API_KEY, using keyword matching")
		return nil
	}

	oracle, err := domainadapters.NewGenAIOracle(ctx, cfg.Match.Oracle.APIKey, cfg.Match.Oracle.Model)
	if err != nil {
		logger.Warn("failed to create oracle client, using keyword matching", interfaces.F("error", err))
		return nil
	}
	return oracle
}

// newApp loads configuration, builds the catalog and wires the request pipeline
func newApp(ctx context.Context, flags *rootFlags, overrides ...configOverride) (*app, error) {
	cfg, logger, err := loadConfig(flags, overrides...)
	if err != nil {
		return nil, err
	}

	repo := dataset.NewFileRepository(cfg.Dataset.Path)
	scanner := domainadapters.NewArtifactScanner(cfg.Artifacts.Root, cfg.Artifacts.Pattern, logger.Named("scanner"))

	catalog, err := services.LoadCatalog(ctx, repo, scanner, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	oracle := newOracle(ctx, cfg, logger)
	mode := services.MatchModeKeyword
	if oracle != nil {
		mode = services.MatchModeOracle
	}

	matcher := services.NewMatcher(catalog, mode, oracle, logger.Named("matcher"))
	resolver := services.NewScriptResolver(catalog, oracle, logger.Named("resolver"))
	dispatcher := newDispatcher(cfg, logger.Named("dispatcher"))

	logger.Info("catalog ready",
		interfaces.F("dataset", catalog.Location()),
		interfaces.F("records", catalog.Len()),
		interfaces.F("artifacts", catalog.Artifacts().Len()),
		interfaces.F("match_mode", string(mode)),
		interfaces.F("dispatch_mode", string(dispatcher.Mode())),
	)

	return &app{
		cfg:          cfg,
		logger:       logger,
		catalog:      catalog,
		dispatcher:   dispatcher,
		orchestrator: orchestrators.NewRequestOrchestrator(matcher, resolver, dispatcher, logger.Named("orchestrator")),
	}, nil
}

func (a *app) close() {
	//nolint:errcheck // Sync fails on terminals; nothing to do about it
	a.logger.Sync()
}
