// Package scan extracts the headers of every source file under a directory.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/albertocavalcante/srcheaders/cmd/javaheaders/internal/langs"
	"github.com/albertocavalcante/srcheaders/internal/log"
	"github.com/albertocavalcante/srcheaders/pkg/headers"
	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// Config configures the scanner.
type Config struct {
	Root       string
	Extensions []string
	Exclude    []string // doublestar globs, relative to Root
	IgnoreDirs []string // additional dir names to skip
	Workers    int      // 0 = GOMAXPROCS
	Options    []headers.Option
}

// Result is the header of one file. Error is set, and Header is empty, for
// files whose header could not be decoded.
type Result struct {
	Path   string `json:"path"`
	Header string `json:"header"`
	Digest string `json:"digest,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Scanner walks a directory tree and extracts file headers.
type Scanner struct {
	root       string
	extensions []string
	exclude    []string
	ignoreDirs langs.DirFilter
	workers    int
	opts       []headers.Option
}

// NewScanner creates a scanner. Invalid exclude patterns are rejected here
// rather than silently never matching.
func NewScanner(cfg Config) (*Scanner, error) {
	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Scanner{
		root:       cfg.Root,
		extensions: cfg.Extensions,
		exclude:    cfg.Exclude,
		ignoreDirs: langs.NewDirFilter(cfg.IgnoreDirs),
		workers:    workers,
		opts:       cfg.Options,
	}, nil
}

// Root returns the scan root.
func (s *Scanner) Root() string {
	return s.root
}

// Matches reports whether a path relative to the root is a tracked source
// file that is not excluded.
func (s *Scanner) Matches(relPath string) bool {
	if !slices.Contains(s.extensions, filepath.Ext(relPath)) {
		return false
	}
	slashed := filepath.ToSlash(relPath)
	for _, pattern := range s.exclude {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return false
		}
	}
	return true
}

// SkipDir reports whether a directory name is ignored.
func (s *Scanner) SkipDir(name string) bool {
	return s.ignoreDirs.Ignored(name)
}

// Scan walks the root and returns the header of every matching file,
// sorted by path. A file that is not valid UTF-8 does not fail the scan; its
// result carries the error instead.
func (s *Scanner) Scan(ctx context.Context) ([]Result, error) {
	logger := log.Component("scan")

	paths, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("collected source files", "root", s.root, "count", len(paths))

	results := make([]Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, rel := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := s.ExtractFile(rel)
			if errors.Is(err, headers.ErrInvalidUTF8) {
				logger.Warn("skipping undecodable file", "file", rel, "error", err)
				results[i] = Result{Path: res.Path, Error: err.Error()}
				return nil
			}
			if err != nil {
				return err
			}
			log.Trace("extracted header", "file", rel, "digest", res.Digest)
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("scan complete", "root", s.root, "files", len(results))
	return results, nil
}

// ExtractFile extracts the header of a file given relative to the root.
// Invalid UTF-8 is reported as headers.ErrInvalidUTF8 with only the Path of
// the result set.
func (s *Scanner) ExtractFile(relPath string) (Result, error) {
	f, err := os.Open(filepath.Join(s.root, relPath))
	if err != nil {
		return Result{}, fmt.Errorf("failed to open %s: %w", relPath, err)
	}
	defer func() { _ = f.Close() }()

	header, err := headers.ExtractReader(f, s.opts...)
	if errors.Is(err, headers.ErrInvalidUTF8) {
		return Result{Path: filepath.ToSlash(relPath)}, err
	}
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", relPath, err)
	}

	return Result{
		Path:   filepath.ToSlash(relPath),
		Header: header,
		Digest: HashHeader(header),
	}, nil
}

// collect returns the sorted relative paths of all matching files.
func (s *Scanner) collect(ctx context.Context) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != s.root && s.SkipDir(d.Name()) {
				log.V(log.VerbosityDebug).Debug("skipping directory", "dir", path)
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if s.Matches(relPath) {
			paths = append(paths, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", s.root, err)
	}

	slices.SortFunc(paths, func(a, b string) int {
		return strings.Compare(filepath.ToSlash(a), filepath.ToSlash(b))
	})
	return paths, nil
}
