package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/openkraft/docsync/internal/domain"
)

// FileName is the configuration file looked up in a project root.
const FileName = ".docsync.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .docsync.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads the configuration at path, or FileName inside path when path
// is a directory. Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(path string) (domain.Config, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	cfg = mergeConfig(domain.DefaultConfig(), cfg)
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// LoadRules reads a standalone rule file: a YAML document with a top-level
// "rules" list.
func LoadRules(path string) ([]domain.ValidationRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Rules []domain.ValidationRule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("%s: no rules defined", filepath.Base(path))
	}
	if err := domain.ValidateRules(doc.Rules); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}
	return doc.Rules, nil
}

// Marshal renders cfg as the YAML written by "docsync init".
func Marshal(cfg domain.Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# docsync configuration. Omitted sections keep their defaults.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// mergeConfig overlays explicit values on top of the defaults.
// Explicit (non-zero) values always win; lists replace, never append.
func mergeConfig(base, override domain.Config) domain.Config {
	result := base

	if len(override.Rules) > 0 {
		result.Rules = override.Rules
	}

	p := override.Parsing
	if len(p.MethodPatterns) > 0 {
		result.Parsing.MethodPatterns = p.MethodPatterns
	}
	if len(p.ParamLabels) > 0 {
		result.Parsing.ParamLabels = p.ParamLabels
	}
	if len(p.ParamPatterns) > 0 {
		result.Parsing.ParamPatterns = p.ParamPatterns
	}
	if len(p.ReturnLabels) > 0 {
		result.Parsing.ReturnLabels = p.ReturnLabels
	}
	if len(p.ThrowsLabels) > 0 {
		result.Parsing.ThrowsLabels = p.ThrowsLabels
	}
	if len(p.ContainerSections) > 0 {
		result.Parsing.ContainerSections = p.ContainerSections
	}
	if len(p.ServiceSections) > 0 {
		result.Parsing.ServiceSections = p.ServiceSections
	}

	m := override.Matching
	if len(m.Strategies) > 0 {
		result.Matching.Strategies = m.Strategies
	}
	if m.MinContentOverlap != 0 {
		result.Matching.MinContentOverlap = m.MinContentOverlap
	}
	if m.IgnoreMethods != nil {
		result.Matching.IgnoreMethods = m.IgnoreMethods
	}
	if m.IgnorePrivate {
		result.Matching.IgnorePrivate = true
	}
	if m.StripPrefixes != nil {
		result.Matching.StripPrefixes = m.StripPrefixes
	}
	if m.StripSuffixes != nil {
		result.Matching.StripSuffixes = m.StripSuffixes
	}

	a := override.Analysis
	if a.Workers != 0 {
		result.Analysis.Workers = a.Workers
	}
	if a.FileTimeout != 0 {
		result.Analysis.FileTimeout = a.FileTimeout
	}
	if len(a.Include) > 0 {
		result.Analysis.Include = a.Include
	}
	if len(a.Exclude) > 0 {
		result.Analysis.Exclude = a.Exclude
	}
	if len(a.DocExtensions) > 0 {
		result.Analysis.DocExtensions = a.DocExtensions
	}

	ln := override.Links
	if ln.CheckExternal {
		result.Links.CheckExternal = true
	}
	if ln.Timeout != 0 {
		result.Links.Timeout = ln.Timeout
	}
	if ln.CacheSize != 0 {
		result.Links.CacheSize = ln.CacheSize
	}

	return result
}
