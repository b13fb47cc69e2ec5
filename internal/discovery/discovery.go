// Package discovery finds candidate test files on disk, resolving the
// cascaded priority order the original tool used: explicit modules beat a
// named group, which beats a named test type, which beats "everything".
package discovery

import (
	"path/filepath"
	"sort"

	"testrules/internal/config"
)

// Options selects which of the four discovery strategies to apply. At
// most one of Modules, Group, TestType should be set; Modules takes
// precedence, then Group, then TestType, then "all" as in the original
// tool's discover_tests priority chain.
type Options struct {
	Modules  []string
	Group    string
	TestType string
}

// Warning carries a non-fatal discovery problem (unknown test type,
// empty group, module file not found) for the caller to surface.
type Warning struct {
	Message string
}

// Discover resolves opts against cfg and returns the matching file paths
// under searchPath, deduplicated and sorted.
func Discover(opts Options, cfg *config.Config, searchPath string) ([]string, []Warning) {
	switch {
	case len(opts.Modules) > 0:
		return byModules(opts.Modules, searchPath)
	case opts.Group != "":
		return byGroup(opts.Group, cfg, searchPath)
	case opts.TestType != "":
		return byTestType(opts.TestType, cfg, searchPath)
	default:
		return allFiles(cfg, searchPath)
	}
}

func byTestType(testType string, cfg *config.Config, searchPath string) ([]string, []Warning) {
	patterns, ok := cfg.TestPatterns[testType]
	if !ok {
		return nil, []Warning{{Message: "unknown test type: " + testType}}
	}
	return filesMatchingPatterns(patterns, searchPath), nil
}

func allFiles(cfg *config.Config, searchPath string) ([]string, []Warning) {
	types := make([]string, 0, len(cfg.TestPatterns))
	for t := range cfg.TestPatterns {
		types = append(types, t)
	}
	sort.Strings(types)

	var all []string
	for _, t := range types {
		files := filesMatchingPatterns(cfg.TestPatterns[t], searchPath)
		all = append(all, files...)
	}
	return dedupSort(all), nil
}

func byGroup(group string, cfg *config.Config, searchPath string) ([]string, []Warning) {
	modules, ok := cfg.TestGroups[group]
	if !ok {
		return nil, []Warning{{Message: "test group '" + group + "' not found in configuration"}}
	}
	if len(modules) == 0 {
		return nil, []Warning{{Message: "no modules found in group '" + group + "' or group is empty"}}
	}
	return byModules(modules, searchPath)
}

func byModules(moduleNames []string, searchPath string) ([]string, []Warning) {
	var files []string
	var warnings []Warning

	for _, name := range moduleNames {
		found, ok := findModuleFile(name, searchPath)
		if !ok {
			warnings = append(warnings, Warning{Message: "module file not found: " + name})
			continue
		}
		files = append(files, found)
	}

	return dedupSort(files), warnings
}

// findModuleFile mirrors discover_files_by_modules's fallback chain: a
// bare "<module>.go" in the current directory, then directly under
// searchPath, then a recursive search under searchPath.
func findModuleFile(moduleName, searchPath string) (string, bool) {
	candidates := []string{
		moduleName + ".go",
		filepath.Join(searchPath, moduleName+".go"),
	}
	for _, c := range candidates {
		if fileExists(c) {
			return c, true
		}
	}

	matches, _ := globRecursive(searchPath, moduleName+".go")
	if len(matches) > 0 {
		return matches[0], true
	}
	return "", false
}

// filesMatchingPatterns expands each glob pattern recursively under
// searchPath. Go's filepath.Glob has no "**" support, so recursion is
// implemented with filepath.WalkDir instead.
func filesMatchingPatterns(patterns []string, searchPath string) []string {
	var all []string
	for _, pattern := range patterns {
		matches, err := globRecursive(searchPath, pattern)
		if err != nil {
			continue
		}
		all = append(all, matches...)
	}
	return dedupSort(all)
}

func dedupSort(files []string) []string {
	seen := make(map[string]bool, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

