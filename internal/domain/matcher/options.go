// Package matcher resolves correspondences between code and documentation
// at file, class, method, parameter and endpoint granularity.
package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/openkraft/docsync/internal/domain"
)

// Options is the compiled, immutable form of domain.MatchingConfig.
type Options struct {
	strategies    []domain.MatchStrategy
	minOverlap    int
	ignore        []*regexp.Regexp
	ignorePrivate bool
	stripPrefixes []string
	stripSuffixes []string
}

// NewOptions compiles cfg.
func NewOptions(cfg domain.MatchingConfig) (Options, error) {
	o := Options{
		strategies:    cfg.Strategies,
		minOverlap:    cfg.MinContentOverlap,
		ignorePrivate: cfg.IgnorePrivate,
	}
	if len(o.strategies) == 0 {
		o.strategies = domain.ValidStrategies
	}
	if o.minOverlap < 1 {
		o.minOverlap = 1
	}
	for _, p := range cfg.IgnoreMethods {
		re, err := regexp.Compile(p)
		if err != nil {
			return Options{}, fmt.Errorf("compiling ignore pattern %q: %w", p, err)
		}
		o.ignore = append(o.ignore, re)
	}
	for _, p := range cfg.StripPrefixes {
		o.stripPrefixes = append(o.stripPrefixes, strings.ToLower(p))
	}
	for _, s := range cfg.StripSuffixes {
		o.stripSuffixes = append(o.stripSuffixes, strings.ToLower(s))
	}
	return o, nil
}

// DefaultOptions compiles domain.DefaultMatchingConfig.
func DefaultOptions() Options {
	o, err := NewOptions(domain.DefaultMatchingConfig())
	if err != nil {
		panic(err)
	}
	return o
}

// Strategies returns the configured strategy order.
func (o Options) Strategies() []domain.MatchStrategy {
	return append([]domain.MatchStrategy(nil), o.strategies...)
}

// ignored reports whether a code method takes no part in matching:
// constructors, configured name patterns and, optionally, private methods.
func (o Options) ignored(cl domain.ClassInfo, m domain.MethodInfo) bool {
	if !cl.Module && m.Name == cl.Name {
		return true
	}
	if o.ignorePrivate && m.HasModifier("private") {
		return true
	}
	for _, re := range o.ignore {
		if re.MatchString(m.Name) {
			return true
		}
	}
	return false
}
