package domain

import "path/filepath"

// MatchStrategy records how a code file was paired with documentation.
// The constants are listed from highest to lowest confidence.
type MatchStrategy string

const (
	StrategyExactName        MatchStrategy = "exact_name"
	StrategyClassMention     MatchStrategy = "class_mention"
	StrategyContentHeuristic MatchStrategy = "content_heuristic"
	StrategyUnmatched        MatchStrategy = "unmatched"
)

// ValidStrategies lists the strategies that can produce a match.
var ValidStrategies = []MatchStrategy{StrategyExactName, StrategyClassMention, StrategyContentHeuristic}

// FileMapping pairs a code file with at most one documentation file.
type FileMapping struct {
	CodeFile  string        `json:"code_file"`
	DocFile   string        `json:"doc_file,omitempty"`
	ClassName string        `json:"class_name,omitempty"`
	Strategy  MatchStrategy `json:"strategy"`
}

// Matched reports whether a documentation file was found.
func (m FileMapping) Matched() bool {
	return m.DocFile != "" && m.Strategy != StrategyUnmatched
}

// Key is the report grouping key: "{code} | {doc}" when both sides exist,
// otherwise the bare file name.
func (m FileMapping) Key() string {
	return PairKey(m.CodeFile, m.DocFile)
}

// PairKey builds a grouping key from two paths; either may be empty.
func PairKey(codeFile, docFile string) string {
	return FileNamer{}.Key(codeFile, docFile)
}

// FileNamer names files in report keys by base name. A base name shared
// by several distinct paths keeps the path it was given instead.
type FileNamer struct {
	shared map[string]bool
}

// NewFileNamer records which base names occur under more than one path.
func NewFileNamer(paths ...string) FileNamer {
	seen := make(map[string]string)
	shared := make(map[string]bool)
	for _, p := range paths {
		base := filepath.Base(p)
		if prev, ok := seen[base]; ok && prev != p {
			shared[base] = true
		}
		seen[base] = p
	}
	return FileNamer{shared: shared}
}

// Name returns the display name of path.
func (n FileNamer) Name(path string) string {
	base := filepath.Base(path)
	if n.shared[base] {
		return filepath.ToSlash(path)
	}
	return base
}

// Key builds the "{code} | {doc}" grouping key, or the single name when
// only one side exists.
func (n FileNamer) Key(codeFile, docFile string) string {
	switch {
	case codeFile != "" && docFile != "":
		return n.Name(codeFile) + " | " + n.Name(docFile)
	case codeFile != "":
		return n.Name(codeFile)
	default:
		return n.Name(docFile)
	}
}
