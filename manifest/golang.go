package manifest

import (
	"bufio"
	"strings"

	"golang.org/x/mod/modfile"
)

// ParseGoMod returns the module paths of every require directive
func ParseGoMod(content string) []string {
	f, err := modfile.ParseLax("go.mod", []byte(content), nil)
	if err != nil {
		return goModRequiresByLine(content)
	}

	names := make([]string, 0, len(f.Require))
	for _, req := range f.Require {
		names = append(names, req.Mod.Path)
	}
	return uniq(names)
}

// ParseGoSum returns the distinct module paths listed in a go.sum
func ParseGoSum(content string) []string {
	var names []string
	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		// module version hash
		if len(fields) == 3 && strings.HasPrefix(fields[1], "v") {
			names = append(names, fields[0])
		}
	}
	return uniq(names)
}

// goModRequiresByLine recovers require lines from a go.mod the modfile
// parser rejects
func goModRequiresByLine(content string) []string {
	var names []string
	inRequire := false

	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if i := strings.Index(line, "//"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}

		switch {
		case line == "require (":
			inRequire = true
			continue
		case inRequire && line == ")":
			inRequire = false
			continue
		case strings.HasPrefix(line, "require "):
			line = strings.TrimSpace(strings.TrimPrefix(line, "require "))
		case !inRequire:
			continue
		}

		if parts := strings.Fields(line); len(parts) >= 2 {
			names = append(names, strings.Trim(parts[0], `"`))
		}
	}
	return uniq(names)
}
