package scanner

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// VisitFunc receives each entry in walk order. A non-nil error stops the walk.
type VisitFunc func(Entry) error

// Walk visits every regular text file under root in lexical order.
// .git is never entered and symlinks are not followed. Files that are not
// valid UTF-8 (or contain NUL bytes) and entries below root that cannot be
// read are skipped without error; only an unreadable root fails the walk.
// Files under .github/workflows are reported as WorkflowName with no content.
func Walk(root string, policy IgnorePolicy, fn VisitFunc) error {
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			logger.Debug("Skipping unreadable path", "path", p, "error", err.Error())
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return serr.Wrap(err, "failed to relativize path")
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if d.Name() == ".git" || policy.SkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || policy.SkipFile(rel) {
			return nil
		}

		if isWorkflow(rel) {
			return fn(Entry{Name: WorkflowName, Path: rel})
		}

		data, err := os.ReadFile(p)
		if err != nil {
			logger.Debug("Skipping unreadable file", "path", rel, "error", err.Error())
			return nil
		}
		if !isText(data) {
			logger.Debug("Skipping non-text file", "path", rel)
			return nil
		}

		return fn(Entry{Name: d.Name(), Path: rel, Content: string(data)})
	})
	if err != nil {
		return serr.Wrap(err, "failed to walk repository", "root", root)
	}
	return nil
}

// Extension returns the final suffix of name without its dot. Dotfiles such
// as ".gitignore" and names ending in a dot have no extension.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i+1:]
}

func isWorkflow(rel string) bool {
	return strings.HasPrefix(rel, ".github/workflows/") || strings.Contains(rel, "/.github/workflows/")
}

func isText(data []byte) bool {
	return utf8.Valid(data) && bytes.IndexByte(data, 0) < 0
}
