package domain

import (
	"fmt"
	"regexp"
	"time"
)

// Config is the process-wide configuration loaded from .docsync.yaml. It is
// compiled once at startup and treated as immutable afterwards.
type Config struct {
	Rules    []ValidationRule `yaml:"rules"    json:"rules"`
	Parsing  ParsingConfig    `yaml:"parsing"  json:"parsing"`
	Matching MatchingConfig   `yaml:"matching" json:"matching"`
	Analysis AnalysisConfig   `yaml:"analysis" json:"analysis"`
	Links    LinkConfig       `yaml:"links"    json:"links"`
}

// PatternTarget selects what a method pattern is applied to.
type PatternTarget string

const (
	TargetTitle      PatternTarget = "title"
	TargetExactTitle PatternTarget = "exact_title"
	TargetContent    PatternTarget = "content"
)

// MethodPattern recognizes a documented method. The first non-empty
// capture group is the method name.
type MethodPattern struct {
	Name    string        `yaml:"name"    json:"name"`
	Pattern string        `yaml:"pattern" json:"pattern"`
	Target  PatternTarget `yaml:"target"  json:"target"`
}

// ParsingConfig drives method and parameter extraction from documents.
// ParamPatterns must define the named groups "name" and optionally "type"
// and "desc".
type ParsingConfig struct {
	MethodPatterns    []MethodPattern `yaml:"method_patterns"    json:"method_patterns"`
	ParamLabels       []string        `yaml:"param_labels"       json:"param_labels"`
	ParamPatterns     []string        `yaml:"param_patterns"     json:"param_patterns"`
	ReturnLabels      []string        `yaml:"return_labels"      json:"return_labels"`
	ThrowsLabels      []string        `yaml:"throws_labels"      json:"throws_labels"`
	ContainerSections []string        `yaml:"container_sections" json:"container_sections"`
	ServiceSections   []string        `yaml:"service_sections"   json:"service_sections"`
}

// MatchingConfig tunes the entity matcher.
type MatchingConfig struct {
	Strategies        []MatchStrategy `yaml:"strategies"          json:"strategies"`
	MinContentOverlap int             `yaml:"min_content_overlap" json:"min_content_overlap"`
	IgnoreMethods     []string        `yaml:"ignore_methods"      json:"ignore_methods"`
	IgnorePrivate     bool            `yaml:"ignore_private"      json:"ignore_private"`
	StripPrefixes     []string        `yaml:"strip_prefixes"      json:"strip_prefixes"`
	StripSuffixes     []string        `yaml:"strip_suffixes"      json:"strip_suffixes"`
}

// AnalysisConfig bounds the per-file worker pool and selects files.
// Workers <= 0 means one worker per CPU.
type AnalysisConfig struct {
	Workers       int           `yaml:"workers"        json:"workers"`
	FileTimeout   time.Duration `yaml:"file_timeout"   json:"file_timeout"`
	Include       []string      `yaml:"include"        json:"include,omitempty"`
	Exclude       []string      `yaml:"exclude"        json:"exclude,omitempty"`
	DocExtensions []string      `yaml:"doc_extensions" json:"doc_extensions"`
}

// LinkConfig controls the external link check. Disabled by default, in
// which case link rules skip silently.
type LinkConfig struct {
	CheckExternal bool          `yaml:"check_external" json:"check_external"`
	Timeout       time.Duration `yaml:"timeout"        json:"timeout"`
	CacheSize     int           `yaml:"cache_size"     json:"cache_size"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Rules:    DefaultRules(),
		Parsing:  DefaultParsingConfig(),
		Matching: DefaultMatchingConfig(),
		Analysis: AnalysisConfig{
			FileTimeout:   10 * time.Second,
			DocExtensions: []string{".adoc", ".asciidoc", ".asc"},
		},
		Links: LinkConfig{
			Timeout:   5 * time.Second,
			CacheSize: 256,
		},
	}
}

// DefaultParsingConfig recognizes English and Russian documentation.
func DefaultParsingConfig() ParsingConfig {
	return ParsingConfig{
		MethodPatterns: []MethodPattern{
			{Name: "prefixed_title", Target: TargetTitle,
				Pattern: "(?i)^(?:метод|method|функция|function)\\s+`?([A-Za-z_]\\w*)"},
			{Name: "exact_title", Target: TargetExactTitle,
				Pattern: "^`?(?:([a-z_]\\w*)(?:\\s*\\([^)]*\\))?|([A-Za-z_]\\w*)\\s*\\([^)]*\\))`?$"},
			{Name: "java_signature", Target: TargetContent,
				Pattern: `(?m)^\s*(?:(?:public|private|protected|static|final|abstract|synchronized|default)\s+)+(?:<[^>]+>\s+)?[\w<>\[\],.? ]+?\s+(\w+)\s*\(`},
			{Name: "python_def", Target: TargetContent,
				Pattern: `(?m)^\s*(?:async\s+)?def\s+(\w+)\s*\(`},
			{Name: "go_func", Target: TargetContent,
				Pattern: `(?m)^\s*func\s+(?:\([^)]*\)\s*)?(\w+)\s*\(`},
		},
		ParamLabels: []string{"parameters", "params", "arguments", "args", "параметры", "аргументы"},
		ParamPatterns: []string{
			`^(?P<name>[A-Za-z_]\w*)\s*:\s*(?P<type>[\w\[\]<>.,|]+)\s+[—–-]+\s*(?P<desc>.*)$`,
			"^`?(?P<name>[A-Za-z_]\\w*)`?\\s*(?:\\(\\s*`?(?P<type>[^)`]+?)`?\\s*\\))?\\s*(?:[—–:-]+\\s*(?P<desc>.*))?$",
		},
		ReturnLabels: []string{"returns", "return", "return value", "возвращает", "возвращаемое значение", "результат"},
		ThrowsLabels: []string{"throws", "raises", "exceptions", "исключения", "выбрасывает"},
		ContainerSections: []string{
			"методы класса", "методы", "methods", "class methods",
			"api", "api reference", "функции", "functions", "endpoints", "эндпоинты",
		},
		ServiceSections: []string{
			"введение", "introduction", "описание", "description", "обзор", "overview",
			"установка", "installation", "конфигурация", "configuration",
			"примеры", "пример", "examples", "example", "использование", "usage",
			"заключение", "conclusion", "параметры", "parameters",
			"возвращает", "returns", "исключения", "exceptions", "notes", "примечания", "see also",
			"limitations", "ограничения", "faq", "summary", "требования", "requirements",
			"troubleshooting", "license", "лицензия", "changelog", "history", "references",
		},
	}
}

// DefaultMatchingConfig tries the highest-confidence strategy first.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		Strategies:        []MatchStrategy{StrategyExactName, StrategyClassMention, StrategyContentHeuristic},
		MinContentOverlap: 1,
		IgnoreMethods:     []string{`^__.*__$`, `^_`},
		StripPrefixes: []string{
			"java_", "py_", "python_", "js_", "javascript_", "ts_", "typescript_",
			"cs_", "csharp_", "go_", "module_", "class_", "api_",
		},
		StripSuffixes: []string{"_doc", "_docs", "_documentation", "_api", "_spec"},
	}
}

// Validate checks the configuration for values the engine cannot use.
func (c Config) Validate() error {
	// 1. Rules: known categories, severities, checks and unique ids.
	if err := ValidateRules(c.Rules); err != nil {
		return err
	}

	// 2. Method patterns compile and name a known target.
	for _, mp := range c.Parsing.MethodPatterns {
		switch mp.Target {
		case TargetTitle, TargetExactTitle, TargetContent:
		default:
			return fmt.Errorf("method pattern %q: unknown target %q", mp.Name, mp.Target)
		}
		if _, err := regexp.Compile(mp.Pattern); err != nil {
			return fmt.Errorf("method pattern %q: %w", mp.Name, err)
		}
	}

	// 3. Parameter patterns compile and capture a name.
	for _, p := range c.Parsing.ParamPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("param pattern %q: %w", p, err)
		}
		if re.SubexpIndex("name") < 0 {
			return fmt.Errorf("param pattern %q: missing (?P<name>...) group", p)
		}
	}

	// 4. Strategies are known and not repeated.
	seen := make(map[MatchStrategy]bool)
	for _, s := range c.Matching.Strategies {
		if !isValidStrategy(s) {
			return fmt.Errorf("unknown matching strategy %q", s)
		}
		if seen[s] {
			return fmt.Errorf("matching strategy %q listed twice", s)
		}
		seen[s] = true
	}

	// 5. Content overlap threshold is positive.
	if c.Matching.MinContentOverlap < 1 {
		return fmt.Errorf("min_content_overlap must be >= 1, got %d", c.Matching.MinContentOverlap)
	}

	// 6. Ignore patterns compile.
	for _, p := range c.Matching.IgnoreMethods {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("ignore_methods %q: %w", p, err)
		}
	}

	// 7. Timeouts are positive.
	if c.Analysis.FileTimeout <= 0 {
		return fmt.Errorf("analysis.file_timeout must be > 0, got %s", c.Analysis.FileTimeout)
	}
	if c.Links.Timeout <= 0 {
		return fmt.Errorf("links.timeout must be > 0, got %s", c.Links.Timeout)
	}
	if c.Links.CacheSize < 1 {
		return fmt.Errorf("links.cache_size must be >= 1, got %d", c.Links.CacheSize)
	}

	// 8. At least one documentation extension.
	if len(c.Analysis.DocExtensions) == 0 {
		return fmt.Errorf("analysis.doc_extensions must not be empty")
	}

	return nil
}

func isValidStrategy(s MatchStrategy) bool {
	for _, v := range ValidStrategies {
		if v == s {
			return true
		}
	}
	return false
}
