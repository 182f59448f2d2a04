package domain

// AnalysisCacheVersion changes whenever analyzer output changes shape, so
// snapshots written by older builds are ignored.
const AnalysisCacheVersion = 1

// AnalysisSnapshot is the persisted result of a project analysis, keyed by
// the slash-separated path relative to the code root.
type AnalysisSnapshot struct {
	Version int                       `json:"version"`
	Files   map[string]CachedAnalysis `json:"files"`
}

// CachedAnalysis is one analyzed file together with the digest of the
// source it was produced from.
type CachedAnalysis struct {
	Hash      string         `json:"hash"`
	Structure *CodeStructure `json:"structure"`
}

// Lookup returns the cached structure for path when its digest matches.
func (s *AnalysisSnapshot) Lookup(path, hash string) (*CodeStructure, bool) {
	if s == nil || s.Version != AnalysisCacheVersion {
		return nil, false
	}
	e, ok := s.Files[path]
	if !ok || e.Hash != hash || e.Structure == nil {
		return nil, false
	}
	return e.Structure, true
}
