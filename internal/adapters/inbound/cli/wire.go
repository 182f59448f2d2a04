package cli

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/openkraft/docsync/internal/adapters/outbound/analyzer"
	"github.com/openkraft/docsync/internal/adapters/outbound/config"
	"github.com/openkraft/docsync/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/docsync/internal/adapters/outbound/linkcheck"
	"github.com/openkraft/docsync/internal/adapters/outbound/logger"
	"github.com/openkraft/docsync/internal/adapters/outbound/scanner"
	"github.com/openkraft/docsync/internal/application"
	"github.com/openkraft/docsync/internal/domain"
)

// session is everything a command needs to run validations.
type session struct {
	cfg    domain.Config
	svc    *application.ValidationService
	logger hclog.Logger
}

// newSession loads configuration and wires the outbound adapters into a
// ValidationService. rulesPath, when set, replaces the configured rules.
func newSession(g *globalFlags, rulesPath string, stderr io.Writer, extra ...application.Option) (*session, error) {
	cfg, err := config.New().Load(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if rulesPath != "" {
		rs, err := config.LoadRules(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("loading rules: %w", err)
		}
		cfg.Rules = rs
	}

	log := logger.NewWithOutput("docsync", g.logLevel, stderr)
	registry := analyzer.NewDefaultRegistry()

	opts := append([]application.Option{
		application.WithLogger(log),
		application.WithGitInfo(gitinfo.New()),
		application.WithLinkChecker(linkCheckerFactory(cfg.Links, log)),
	}, extra...)
	svc, err := application.NewValidationService(
		cfg,
		registry,
		scanner.New(registry.Extensions(), cfg.Analysis),
		opts...,
	)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, svc: svc, logger: log}, nil
}

// linkCheckerFactory gives every request its own memo cache.
func linkCheckerFactory(lc domain.LinkConfig, log hclog.Logger) func() domain.LinkChecker {
	return func() domain.LinkChecker {
		c, err := linkcheck.New(lc.Timeout, lc.CacheSize)
		if err != nil {
			log.Warn("external link checks disabled", "error", err)
			return nil
		}
		return c
	}
}
