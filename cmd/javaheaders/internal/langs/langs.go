// Package langs maps language names to the source file extensions whose
// headers javaheaders can read.
//
// Every language listed here uses // and /* */ comments and may start with a
// package declaration, which is what the header scanner understands.
package langs

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Extensions maps language names to their file extensions.
var Extensions = map[string][]string{
	"java":   {".java"},
	"groovy": {".groovy", ".gvy", ".gy", ".gsh"},
	"kotlin": {".kt", ".kts"},
	"scala":  {".scala", ".sc"},
}

// IgnoredDirPrefixes contains directory name prefixes skipped while scanning
// and watching. "bazel-" matches "bazel-out", "bazel-bin".
var IgnoredDirPrefixes = []string{
	".",      // Hidden directories (.git, .gradle, .idea)
	"bazel-", // Bazel output directories
}

// IgnoredDirNames contains directory names skipped only on an exact match,
// so packages such as "builder" or "output" are still visited.
var IgnoredDirNames = []string{
	"node_modules", // Node.js dependencies
	"target",       // Maven output
	"build",        // Gradle output
	"out",          // IntelliJ output
}

// ExtensionsFor returns the extensions of the named languages, in language
// order and without duplicates. Unknown names are an error.
func ExtensionsFor(languages []string) ([]string, error) {
	var exts []string
	for _, lang := range languages {
		langExts, ok := Extensions[strings.ToLower(lang)]
		if !ok {
			return nil, fmt.Errorf("unknown language %q (known: %s)", lang, strings.Join(Names(), ", "))
		}
		for _, ext := range langExts {
			if !slices.Contains(exts, ext) {
				exts = append(exts, ext)
			}
		}
	}
	return exts, nil
}

// Names returns the known language names, sorted.
func Names() []string {
	names := make([]string, 0, len(Extensions))
	for name := range Extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DirFilter decides which directories are skipped.
type DirFilter struct {
	prefixes []string
	names    map[string]bool
}

// NewDirFilter combines the built-in ignored directories with additional
// exact names.
func NewDirFilter(additional []string) DirFilter {
	names := make(map[string]bool, len(IgnoredDirNames)+len(additional))
	for _, name := range IgnoredDirNames {
		names[name] = true
	}
	for _, name := range additional {
		names[name] = true
	}
	return DirFilter{prefixes: IgnoredDirPrefixes, names: names}
}

// Ignored reports whether a directory name is skipped.
func (f DirFilter) Ignored(name string) bool {
	if f.names[name] {
		return true
	}
	for _, prefix := range f.prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
