package domain

import "context"

// CodeAnalyzer turns one source file into a CodeStructure. Implementations
// must be safe for concurrent use.
type CodeAnalyzer interface {
	Language() Language
	Extensions() []string
	Analyze(ctx context.Context, path string, src []byte) (*CodeStructure, error)
}

// AnalyzerRegistry selects analyzers by file extension or language hint.
// Lookups fail with an *UnsupportedLanguageError.
type AnalyzerRegistry interface {
	ForFile(path string) (CodeAnalyzer, error)
	ForLanguage(lang Language) (CodeAnalyzer, error)
}

// ProjectScanner lists candidate files under a root directory.
type ProjectScanner interface {
	Scan(root string) (*ScanResult, error)
}

// ScanResult holds relative paths found by a scan, sorted.
type ScanResult struct {
	RootPath string   `json:"root_path"`
	Files    []string `json:"files"`
	DocFiles []string `json:"doc_files"`
}

// ConfigLoader loads the process configuration.
type ConfigLoader interface {
	Load(path string) (Config, error)
}

// LinkChecker probes external URLs. A nil checker disables link rules.
type LinkChecker interface {
	Check(ctx context.Context, url string) (bool, error)
}

// GitInfo reads repository metadata for the validated code root.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}

// ReportHistory persists report digests.
type ReportHistory interface {
	Save(root string, entry HistoryEntry) error
	Load(root string) ([]HistoryEntry, error)
}

// AnalysisCache persists analyzer output between project runs.
type AnalysisCache interface {
	Load(root string) (*AnalysisSnapshot, error)
	Save(root string, snap *AnalysisSnapshot) error
	Invalidate(root string) error
}
