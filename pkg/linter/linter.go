// Package linter runs the import order check over files, directories and
// glob patterns.
package linter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/siyuan-infoblox/imports-order/pkg/checker"
	"github.com/siyuan-infoblox/imports-order/pkg/config"
	"github.com/siyuan-infoblox/imports-order/pkg/errors"
	"github.com/siyuan-infoblox/imports-order/pkg/formatter"
	"github.com/siyuan-infoblox/imports-order/pkg/parser"
	"github.com/siyuan-infoblox/imports-order/pkg/utils"
)

// Config configures a Linter
type Config struct {
	// Profiles holds the compiled profiles files are checked against
	Profiles *config.Set

	// InPlace rewrites files that have violations
	InPlace bool

	// Diff renders a unified diff of the fix for files with violations
	Diff bool

	// Parallel bounds the number of files checked at once; 0 means no limit
	Parallel int

	// Logger for logging progress
	Logger *slog.Logger
}

// FileResult is the outcome of checking one file
type FileResult struct {
	Path       string              `json:"path"`
	Profile    string              `json:"profile,omitempty"`
	Violations []checker.Violation `json:"violations"`
	Fixed      bool                `json:"fixed,omitempty"`
	Diff       string              `json:"diff,omitempty"`
	Err        error               `json:"-"`
}

// Linter checks source files
type Linter struct {
	config Config
	logger *slog.Logger
}

// New creates a Linter
func New(config Config) *Linter {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Linter{config: config, logger: logger}
}

// Run checks every source file named by paths. Per-file failures are
// recorded in the results; the returned error is only set when paths cannot
// be expanded or ctx is cancelled. Results are sorted by path.
func (l *Linter) Run(ctx context.Context, paths []string) ([]FileResult, error) {
	files, err := ExpandPaths(paths)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Expanded paths", "paths", paths, "files", len(files))

	results := make([]FileResult, len(files))

	var group errgroup.Group
	if l.config.Parallel > 0 {
		group.SetLimit(l.config.Parallel)
	}

	for i, path := range files {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = l.LintFile(ctx, path)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// LintFile parses path, resolves its profile and checks it. When the file has
// violations it is fixed in place or diffed as configured.
func (l *Linter) LintFile(ctx context.Context, path string) FileResult {
	result := FileResult{Path: path}

	decls, src, err := parser.ParseFile(ctx, path)
	if err != nil {
		result.Err = err
		l.logger.Debug("Failed to parse file", "path", path, "error", err)
		return result
	}

	profile, err := l.config.Profiles.Resolve(decls)
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", errors.ErrMsgFailedToResolveProfile, err)
		return result
	}
	result.Profile = profile.Name

	violations, err := profile.Checker.Check(decls)
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", errors.ErrMsgFailedToCheckImports, err)
		return result
	}
	result.Violations = violations

	l.logger.Debug("Checked file",
		"path", path,
		"profile", profile.Name,
		"imports", len(decls),
		"violations", len(violations))

	if len(violations) == 0 || !(l.config.InPlace || l.config.Diff) {
		return result
	}

	formatted, err := formatter.New(profile.Checker).Format(src, decls)
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", errors.ErrMsgFailedToFormatFile, err)
		return result
	}

	if l.config.Diff {
		if result.Diff, err = formatter.Diff(path, src, formatted); err != nil {
			result.Err = fmt.Errorf("%s: %w", errors.ErrMsgFailedToFormatFile, err)
			return result
		}
	}

	if l.config.InPlace {
		if err := writeFile(path, formatted); err != nil {
			result.Err = err
			return result
		}
		result.Fixed = true
		l.logger.Info("Rewrote file", "path", path, "violations", len(violations))
	}
	return result
}

// writeFile replaces the content of path, keeping its permissions
func writeFile(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", errors.ErrMsgFailedToWriteFile, err)
	}
	if err := os.WriteFile(path, content, info.Mode().Perm()); err != nil {
		return fmt.Errorf("%s: %w", errors.ErrMsgFailedToWriteFile, err)
	}
	return nil
}

// ExpandPaths resolves files, directories and doublestar glob patterns into
// a sorted, de-duplicated list of files. Directories are searched
// recursively for source files; a file named explicitly is kept even if its
// type is unsupported so the caller can report it.
func ExpandPaths(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		if isGlob(path) {
			matches, err := doublestar.FilepathGlob(path, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("%s %q: %w", errors.ErrMsgFailedToExpandGlob, path, err)
			}
			for _, match := range matches {
				if utils.IsSourceFile(match) && !inSkippedDir(match) {
					add(match)
				}
			}
			continue
		}

		isDir, err := utils.IsDirectory(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToCheckPath, err)
		}
		if !isDir {
			add(path)
			continue
		}

		found, err := utils.FindSourceFiles(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToFindSourceFiles, err)
		}
		for _, file := range found {
			add(file)
		}
	}

	sort.Strings(files)
	return files, nil
}

func isGlob(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// inSkippedDir reports whether a glob match lies under node_modules. Other
// skipped directories can still be reached by naming them in the pattern.
func inSkippedDir(path string) bool {
	for _, dir := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		if dir == "node_modules" {
			return true
		}
	}
	return false
}
