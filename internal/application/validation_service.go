package application

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/openkraft/docsync/internal/domain"
	"github.com/openkraft/docsync/internal/domain/docparse"
	"github.com/openkraft/docsync/internal/domain/matcher"
	"github.com/openkraft/docsync/internal/domain/rules"
)

// ValidationService orchestrates the validation pipeline:
// scan → analyze code and parse docs (worker pool) → match → rules → report.
// It is built once from a validated configuration and holds no per-request
// state, so concurrent requests are safe.
type ValidationService struct {
	cfg      domain.Config
	registry domain.AnalyzerRegistry
	scanner  domain.ProjectScanner
	parser   *docparse.Parser
	matching matcher.Options
	engine   *rules.Engine
	links    func() domain.LinkChecker
	git      domain.GitInfo
	cache    domain.AnalysisCache
	logger   hclog.Logger
	now      func() time.Time
	newID    func() string
	workers  int
}

// Option configures a ValidationService.
type Option func(*ValidationService)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l hclog.Logger) Option {
	return func(s *ValidationService) { s.logger = l }
}

// WithLinkChecker sets the factory for external link checkers. One checker
// is created per request. Without it external link rules skip silently.
func WithLinkChecker(factory func() domain.LinkChecker) Option {
	return func(s *ValidationService) { s.links = factory }
}

// WithGitInfo records the code root's commit on project reports.
func WithGitInfo(g domain.GitInfo) Option {
	return func(s *ValidationService) { s.git = g }
}

// WithAnalysisCache reuses analyzer output for code files whose content
// has not changed since the previous project run.
func WithAnalysisCache(c domain.AnalysisCache) Option {
	return func(s *ValidationService) { s.cache = c }
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *ValidationService) { s.now = now }
}

// WithIDGenerator overrides the validation id source.
func WithIDGenerator(f func() string) Option {
	return func(s *ValidationService) { s.newID = f }
}

// WithRuleEngine replaces the rule engine, e.g. to register extra checks.
func WithRuleEngine(e *rules.Engine) Option {
	return func(s *ValidationService) { s.engine = e }
}

func NewValidationService(
	cfg domain.Config,
	registry domain.AnalyzerRegistry,
	scanner domain.ProjectScanner,
	opts ...Option,
) (*ValidationService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	parser, err := docparse.New(cfg.Parsing)
	if err != nil {
		return nil, fmt.Errorf("compiling parsing config: %w", err)
	}
	matching, err := matcher.NewOptions(cfg.Matching)
	if err != nil {
		return nil, fmt.Errorf("compiling matching config: %w", err)
	}

	s := &ValidationService{
		cfg:      cfg,
		registry: registry,
		scanner:  scanner,
		parser:   parser,
		matching: matching,
		engine:   rules.New(rules.WithTimeout(cfg.Links.Timeout + cfg.Analysis.FileTimeout)),
		logger:   hclog.NewNullLogger(),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
		workers:  cfg.Analysis.Workers,
	}
	if s.workers <= 0 {
		s.workers = runtime.NumCPU()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Rules returns the configured rule set.
func (s *ValidationService) Rules() []domain.ValidationRule {
	return s.cfg.Rules
}

func (s *ValidationService) ruleSet(rs []domain.ValidationRule) ([]domain.ValidationRule, error) {
	if rs == nil {
		return s.cfg.Rules, nil
	}
	if err := domain.ValidateRules(rs); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return rs, nil
}

func (s *ValidationService) linkChecker() domain.LinkChecker {
	if s.links == nil || !s.cfg.Links.CheckExternal {
		return nil
	}
	return s.links()
}

// readFile reads path under the configured file timeout.
func (s *ValidationService) readFile(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Analysis.FileTimeout)
	defer cancel()

	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := os.ReadFile(path)
		ch <- result{data, err}
	}()
	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("reading %s: %w", path, ctx.Err())
	}
}

func dirExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, path)
	}
	return nil
}
