package manifest

import (
	"bufio"
	"strings"

	json "github.com/goccy/go-json"
)

var packageJSONSections = []string{"dependencies", "devDependencies", "peerDependencies", "optionalDependencies"}

// ParsePackageJSON returns the packages of every npm dependency map
func ParsePackageJSON(content string) []string {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil
	}

	var names []string
	for _, section := range packageJSONSections {
		raw, ok := doc[section]
		if !ok {
			continue
		}
		var deps map[string]json.RawMessage
		if err := json.Unmarshal(raw, &deps); err != nil {
			continue
		}
		names = append(names, sortedKeys(deps)...)
	}
	return uniq(names)
}

type lockDependency struct {
	Dependencies map[string]lockDependency `json:"dependencies"`
}

// ParsePackageLockJSON returns the installed packages of an npm lockfile.
// Version 2 and 3 lockfiles list them under "packages" keyed by their
// node_modules path; version 1 nests them under "dependencies".
func ParsePackageLockJSON(content string) []string {
	var lock struct {
		Packages     map[string]json.RawMessage `json:"packages"`
		Dependencies map[string]lockDependency  `json:"dependencies"`
	}
	if err := json.Unmarshal([]byte(content), &lock); err != nil {
		return nil
	}

	var names []string
	if len(lock.Packages) > 0 {
		for _, key := range sortedKeys(lock.Packages) {
			i := strings.LastIndex(key, "node_modules/")
			if i < 0 {
				// "" is the root project, other keys are workspace folders
				continue
			}
			names = append(names, key[i+len("node_modules/"):])
		}
		return uniq(names)
	}

	var walk func(deps map[string]lockDependency)
	walk = func(deps map[string]lockDependency) {
		for _, name := range sortedKeys(deps) {
			names = append(names, name)
			walk(deps[name].Dependencies)
		}
	}
	walk(lock.Dependencies)
	return uniq(names)
}

// ParseYarnLock returns the packages of a yarn lockfile, classic or berry.
// Entry headers look like `"@babel/core@^7.0.0", "@babel/core@^7.1.0":`
// or `"lodash@npm:^4.17.21":`.
func ParseYarnLock(content string) []string {
	var names []string

	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == ' ' || line[0] == '\t' || line[0] == '#' {
			continue
		}
		line = strings.TrimSpace(line)
		if !strings.HasSuffix(line, ":") || strings.HasPrefix(line, "__metadata") {
			continue
		}

		for _, spec := range strings.Split(strings.TrimSuffix(line, ":"), ",") {
			spec = strings.Trim(strings.TrimSpace(spec), `"'`)
			if name := yarnPackageName(spec); name != "" {
				names = append(names, name)
			}
		}
	}
	return uniq(names)
}

// yarnPackageName cuts a descriptor at the first '@' past a scope prefix
func yarnPackageName(spec string) string {
	if spec == "" {
		return ""
	}
	i := strings.Index(spec[1:], "@")
	if i < 0 {
		return spec
	}
	return spec[:i+1]
}
