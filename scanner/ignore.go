package scanner

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rohanthewiz/logger"
)

// IgnorePolicy prunes the walk. The zero value ignores nothing; .git is
// always skipped by the walker itself.
type IgnorePolicy struct {
	Directories []string `toml:"directories" json:"directories"` // directory base names
	Filenames   []string `toml:"filenames" json:"filenames"`     // exact file base names
	Extensions  []string `toml:"extensions" json:"extensions"`   // with or without the leading dot
	Patterns    []string `toml:"patterns" json:"patterns"`       // doublestar globs
}

// IsZero reports whether the policy ignores nothing
func (p IgnorePolicy) IsZero() bool {
	return len(p.Directories) == 0 && len(p.Filenames) == 0 &&
		len(p.Extensions) == 0 && len(p.Patterns) == 0
}

// SkipDir reports whether the directory at rel (slash separated) is pruned
func (p IgnorePolicy) SkipDir(rel string) bool {
	name := path.Base(rel)
	for _, d := range p.Directories {
		if d == name {
			return true
		}
	}
	return p.matchPattern(rel, name)
}

// SkipFile reports whether the file at rel (slash separated) is ignored
func (p IgnorePolicy) SkipFile(rel string) bool {
	name := path.Base(rel)
	for _, f := range p.Filenames {
		if f == name {
			return true
		}
	}
	if ext := Extension(name); ext != "" {
		for _, e := range p.Extensions {
			if strings.TrimPrefix(e, ".") == ext {
				return true
			}
		}
	}
	return p.matchPattern(rel, name)
}

// matchPattern tries each glob against the relative path and the base name,
// so "*.min.js" works at any depth and "docs/**" anchors at the root
func (p IgnorePolicy) matchPattern(rel, name string) bool {
	for _, pattern := range p.Patterns {
		for _, candidate := range []string{rel, name} {
			ok, err := doublestar.Match(pattern, candidate)
			if err != nil {
				logger.Warn("Invalid ignore pattern", "pattern", pattern, "error", err.Error())
				break
			}
			if ok {
				return true
			}
		}
	}
	return false
}
