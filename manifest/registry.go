// Package manifest extracts declared dependency names from build and package
// manifests. Every parser is a pure function: the same text always yields the
// same names, and malformed input yields a partial or empty list instead of
// an error. Versions are never resolved.
package manifest

import (
	"sort"
	"strings"

	"readmeai/errs"

	"github.com/rohanthewiz/serr"
)

// Parser extracts dependency identifiers from manifest text
type Parser func(content string) []string

// Registry maps an exact manifest filename to its parser
type Registry map[string]Parser

// DefaultRegistry returns a fresh registry of every supported manifest.
// Callers may add a format by inserting one entry.
func DefaultRegistry() Registry {
	return Registry{
		"build.gradle":        ParseGradle,
		"pom.xml":             ParseMaven,
		"Cargo.toml":          ParseCargoToml,
		"Cargo.lock":          ParseCargoLock,
		"go.mod":              ParseGoMod,
		"go.sum":              ParseGoSum,
		"requirements.txt":    ParseRequirements,
		"environment.yaml":    ParseCondaEnv,
		"environment.yml":     ParseCondaEnv,
		"Pipfile":             ParsePipfile,
		"Pipfile.lock":        ParsePipfileLock,
		"pyproject.toml":      ParsePyproject,
		"package.json":        ParsePackageJSON,
		"yarn.lock":           ParseYarnLock,
		"package-lock.json":   ParsePackageLockJSON,
		"CMakeLists.txt":      ParseCMake,
		"Makefile.am":         ParseMakefileAm,
		"configure.ac":        ParseConfigureAc,
		"docker-compose.yaml": ParseDockerCompose,
		"docker-compose.yml":  ParseDockerCompose,
	}
}

// Filenames returns the registered filenames in sorted order
func (r Registry) Filenames() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MatchMode selects how file names are matched against the registry
type MatchMode string

const (
	// MatchExact dispatches only when a file name equals a registered name
	MatchExact MatchMode = "exact"
	// MatchSubstring dispatches when a file name contains a registered name,
	// so "my-package.json.bak" is treated as "package.json"
	MatchSubstring MatchMode = "substring"
)

// ParseMatchMode validates a configured match mode; empty means exact
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchExact:
		return MatchExact, nil
	case MatchSubstring:
		return MatchSubstring, nil
	}
	return "", errs.NewConfiguration("match_mode", serr.F("unsupported manifest match mode %q", s))
}

// Match returns the registered filename that name dispatches to.
// In substring mode the longest contained registered name wins, so
// "Pipfile.lock" goes to the lockfile parser rather than the Pipfile one.
func (r Registry) Match(name string, mode MatchMode) (string, bool) {
	if _, ok := r[name]; ok {
		return name, true
	}
	if mode != MatchSubstring {
		return "", false
	}

	best := ""
	for registered := range r {
		if strings.Contains(name, registered) {
			if len(registered) > len(best) || (len(registered) == len(best) && registered < best) {
				best = registered
			}
		}
	}
	return best, best != ""
}

// uniq drops empty strings and repeats, keeping first-seen order
func uniq(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// sortedKeys returns the keys of m in sorted order
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
