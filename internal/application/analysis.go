package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/openkraft/docsync/internal/domain"
	"github.com/openkraft/docsync/internal/domain/matcher"
)

// Progress observes the per-file phases of a project run.
type Progress interface {
	Start(total int)
	Done(path string)
}

// RunOption configures a single project request.
type RunOption func(*runOptions)

type runOptions struct {
	progress Progress
}

// WithProgress reports per-file analysis progress.
func WithProgress(p Progress) RunOption {
	return func(o *runOptions) { o.progress = p }
}

func collectRunOptions(opts []RunOption) runOptions {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FileError is a per-file failure that excluded the file from a run.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// ProjectAnalysis is the code side of a project run. Every scanned file is
// accounted for either in Files or in Failures; unsupported files are
// listed in Skipped. Cached counts files served from the analysis cache.
type ProjectAnalysis struct {
	Root     string
	Files    []*domain.CodeStructure
	Failures []FileError
	Skipped  []string
	Cached   int
}

// DocumentSet is the documentation side of a project run.
type DocumentSet struct {
	Root     string
	Docs     []matcher.DocFile
	Failures []FileError
}

// AnalyzeProject scans root and analyzes every code file on a bounded
// worker pool. Individual failures are recorded, never fatal; the method
// returns only after every file has been handled.
func (s *ValidationService) AnalyzeProject(ctx context.Context, root string, opts ...RunOption) (*ProjectAnalysis, error) {
	if err := dirExists(root); err != nil {
		return nil, err
	}
	scan, err := s.scanner.Scan(root)
	if err != nil {
		return nil, err
	}
	o := collectRunOptions(opts)
	if o.progress != nil {
		o.progress.Start(len(scan.Files))
	}

	out := &ProjectAnalysis{Root: scan.RootPath}
	var mu sync.Mutex

	prev := s.loadSnapshot(scan.RootPath)
	next := &domain.AnalysisSnapshot{Files: make(map[string]domain.CachedAnalysis)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, rel := range scan.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := s.analyzeFile(gctx, scan.RootPath, rel, prev)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case res.skipped:
				out.Skipped = append(out.Skipped, rel)
			case res.err != nil:
				out.Failures = append(out.Failures, FileError{Path: rel, Err: res.err})
			default:
				out.Files = append(out.Files, res.cs)
				next.Files[rel] = domain.CachedAnalysis{Hash: res.hash, Structure: res.cs}
				if res.cached {
					out.Cached++
				}
			}
			if o.progress != nil {
				o.progress.Done(rel)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(out.Files, func(i, j int) bool { return out.Files[i].FilePath < out.Files[j].FilePath })
	sort.Slice(out.Failures, func(i, j int) bool { return out.Failures[i].Path < out.Failures[j].Path })
	sort.Strings(out.Skipped)

	if s.cache != nil {
		if err := s.cache.Save(scan.RootPath, next); err != nil {
			s.logger.Warn("analysis cache not saved", "root", scan.RootPath, "error", err)
		}
		s.logger.Debug("analysis cache", "hits", out.Cached, "files", len(out.Files))
	}
	return out, nil
}

func (s *ValidationService) loadSnapshot(root string) *domain.AnalysisSnapshot {
	if s.cache == nil {
		return nil
	}
	snap, err := s.cache.Load(root)
	if err != nil {
		s.logger.Warn("analysis cache unreadable, starting cold", "root", root, "error", err)
		return nil
	}
	return snap
}

type fileResult struct {
	cs      *domain.CodeStructure
	hash    string
	cached  bool
	skipped bool
	err     error
}

func (s *ValidationService) analyzeFile(ctx context.Context, root, rel string, prev *domain.AnalysisSnapshot) fileResult {
	a, err := s.registry.ForFile(rel)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedLanguage) {
			s.logger.Debug("skipping unsupported file", "path", rel)
			return fileResult{skipped: true}
		}
		return fileResult{err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Analysis.FileTimeout)
	defer cancel()
	src, err := s.readFile(ctx, filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return fileResult{err: err}
	}
	sum := sha256.Sum256(src)
	hash := hex.EncodeToString(sum[:])
	if cs, ok := prev.Lookup(rel, hash); ok {
		return fileResult{cs: cs, hash: hash, cached: true}
	}

	cs, err := a.Analyze(ctx, rel, src)
	if err != nil {
		s.logger.Warn("analysis failed", "path", rel, "error", err)
		return fileResult{err: err}
	}
	return fileResult{cs: cs, hash: hash}
}

// ParseDocuments scans root and parses every documentation file on the
// worker pool. Syntax errors are recorded as failures.
func (s *ValidationService) ParseDocuments(ctx context.Context, root string) (*DocumentSet, error) {
	if err := dirExists(root); err != nil {
		return nil, err
	}
	scan, err := s.scanner.Scan(root)
	if err != nil {
		return nil, err
	}

	out := &DocumentSet{Root: scan.RootPath}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, rel := range scan.DocFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var doc *domain.DocStructure
			src, err := s.readFile(gctx, filepath.Join(scan.RootPath, filepath.FromSlash(rel)))
			if err == nil {
				doc, err = s.parser.Parse(string(src))
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("document not parsed", "path", rel, "error", err)
				out.Failures = append(out.Failures, FileError{Path: rel, Err: err})
				return nil
			}
			out.Docs = append(out.Docs, matcher.NewDocFile(rel, doc))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(out.Docs, func(i, j int) bool { return out.Docs[i].Path < out.Docs[j].Path })
	sort.Slice(out.Failures, func(i, j int) bool { return out.Failures[i].Path < out.Failures[j].Path })
	return out, nil
}
