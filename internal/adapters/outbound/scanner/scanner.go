package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/openkraft/docsync/internal/domain"
)

var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"bin":          true,
	"build":        true,
	"target":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	".docsync":     true,
}

// FileScanner implements domain.ProjectScanner by walking the filesystem.
// Files are split into code files (registered analyzer extensions) and
// documentation files; include and exclude are doublestar globs relative
// to the scanned root.
type FileScanner struct {
	codeExts map[string]bool
	docExts  map[string]bool
	includes []string
	excludes []string
}

func New(codeExts []string, cfg domain.AnalysisConfig) *FileScanner {
	includes := cfg.Include
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	return &FileScanner{
		codeExts: extSet(codeExts),
		docExts:  extSet(cfg.DocExtensions),
		includes: includes,
		excludes: cfg.Exclude,
	}
}

func extSet(exts []string) map[string]bool {
	out := make(map[string]bool, len(exts))
	for _, e := range exts {
		out[strings.ToLower(e)] = true
	}
	return out
}

func (s *FileScanner) Scan(root string) (*domain.ScanResult, error) {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	result := &domain.ScanResult{
		RootPath: absPath,
		Files:    []string{},
		DocFiles: []string{},
	}

	err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(absPath, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if path == absPath {
				return nil
			}
			if skipDirs[d.Name()] || s.shouldExclude(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.shouldInclude(relPath) || s.shouldExclude(relPath) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		switch {
		case s.docExts[ext]:
			result.DocFiles = append(result.DocFiles, relPath)
		case s.codeExts[ext]:
			result.Files = append(result.Files, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	sort.Strings(result.Files)
	sort.Strings(result.DocFiles)
	return result, nil
}

func (s *FileScanner) shouldInclude(path string) bool {
	for _, pattern := range s.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (s *FileScanner) shouldExclude(path string) bool {
	for _, pattern := range s.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}
