package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/siyuan-infoblox/imports-order/pkg/parser"
)

// skippedDirs are never descended into when searching a directory
var skippedDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	"vendor":       true,
}

// IsSkippedDir reports whether a directory is left out of source file searches
func IsSkippedDir(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return skippedDirs[name] || strings.HasPrefix(name, ".")
}

// IsSourceFile checks if a file is a TypeScript or JavaScript source file
func IsSourceFile(filename string) bool {
	return parser.IsSupported(filename)
}

// FindSourceFiles recursively finds all source files in a directory
func FindSourceFiles(root string) ([]string, error) {
	var sourceFiles []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip dependency, build output and hidden directories (but not the root directory)
		if info.IsDir() {
			if path == root {
				return nil
			}
			if IsSkippedDir(filepath.Base(path)) {
				return filepath.SkipDir
			}
			return nil
		}

		if IsSourceFile(filepath.Base(path)) {
			sourceFiles = append(sourceFiles, path)
		}

		return nil
	})

	return sourceFiles, err
}

// IsDirectory checks if the given path is a directory
func IsDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
