package manifest

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	tomlHeader  = regexp.MustCompile(`^\[\s*([^\[\]]+?)\s*\]$`)
	tomlKey     = regexp.MustCompile(`^["']?([A-Za-z0-9_.@/-]+?)["']?\s*=`)
	cargoLockNm = regexp.MustCompile(`(?m)^name\s*=\s*"([^"]+)"`)
)

var cargoDependencyTables = []string{"dependencies", "dev-dependencies", "build-dependencies"}

// ParseCargoToml returns the crates declared in a Cargo.toml, including
// target-specific and workspace dependency tables
func ParseCargoToml(content string) []string {
	var doc map[string]any
	if _, err := toml.Decode(content, &doc); err != nil {
		return tomlSectionKeys(content, isCargoDependencySection)
	}

	var names []string
	collect := func(table map[string]any) {
		for _, section := range cargoDependencyTables {
			names = append(names, sortedKeys(asTable(table[section]))...)
		}
	}

	collect(doc)
	for _, cfg := range sortedKeys(asTable(doc["target"])) {
		collect(asTable(asTable(doc["target"])[cfg]))
	}
	names = append(names, sortedKeys(asTable(asTable(doc["workspace"])["dependencies"]))...)

	return uniq(names)
}

// ParseCargoLock returns the name of every locked package
func ParseCargoLock(content string) []string {
	var lock struct {
		Package []struct {
			Name string `toml:"name"`
		} `toml:"package"`
	}
	if _, err := toml.Decode(content, &lock); err != nil {
		var names []string
		for _, m := range cargoLockNm.FindAllStringSubmatch(content, -1) {
			names = append(names, m[1])
		}
		return uniq(names)
	}

	names := make([]string, 0, len(lock.Package))
	for _, p := range lock.Package {
		names = append(names, p.Name)
	}
	return uniq(names)
}

func isCargoDependencySection(section string) (bool, string) {
	for _, table := range cargoDependencyTables {
		if section == table || strings.HasSuffix(section, "."+table) {
			return true, ""
		}
		// [dependencies.serde] names the crate in the header itself
		if idx := strings.Index(section, table+"."); idx == 0 || (idx > 0 && section[idx-1] == '.') {
			return false, section[idx+len(table)+1:]
		}
	}
	return false, ""
}

// tomlSectionKeys is a line-oriented fallback for TOML that fails to decode.
// classify reports whether a section lists dependencies as keys, or names
// a single dependency in its header.
func tomlSectionKeys(content string, classify func(section string) (bool, string)) []string {
	var (
		names     []string
		inSection bool
	)

	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m := tomlHeader.FindStringSubmatch(line); m != nil {
			var header string
			inSection, header = classify(strings.ReplaceAll(m[1], `"`, ""))
			if header != "" {
				names = append(names, header)
			}
			continue
		}
		if strings.HasPrefix(line, "[[") {
			inSection = false
			continue
		}
		if inSection {
			if m := tomlKey.FindStringSubmatch(line); m != nil {
				names = append(names, m[1])
			}
		}
	}
	return uniq(names)
}

// asTable returns v as a TOML table, or nil
func asTable(v any) map[string]any {
	t, _ := v.(map[string]any)
	return t
}
