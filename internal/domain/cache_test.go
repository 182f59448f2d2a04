package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openkraft/docsync/internal/domain"
)

func TestAnalysisSnapshot_Lookup(t *testing.T) {
	cs := &domain.CodeStructure{FilePath: "calc.py", Language: domain.LanguagePython}
	snap := &domain.AnalysisSnapshot{
		Version: domain.AnalysisCacheVersion,
		Files:   map[string]domain.CachedAnalysis{"calc.py": {Hash: "h1", Structure: cs}},
	}

	got, ok := snap.Lookup("calc.py", "h1")
	assert.True(t, ok)
	assert.Same(t, cs, got)

	_, ok = snap.Lookup("calc.py", "h2")
	assert.False(t, ok, "stale digest")
	_, ok = snap.Lookup("other.py", "h1")
	assert.False(t, ok)

	snap.Version = domain.AnalysisCacheVersion + 1
	_, ok = snap.Lookup("calc.py", "h1")
	assert.False(t, ok, "old format")

	var empty *domain.AnalysisSnapshot
	_, ok = empty.Lookup("calc.py", "h1")
	assert.False(t, ok)
}
