package manifest

import (
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var requirementNamePattern = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)`)

// requirementName returns the distribution name of a PEP 508 style
// requirement, dropping extras, version specifiers and markers
func requirementName(spec string) string {
	spec = strings.TrimSpace(spec)
	if i := strings.Index(spec, ";"); i >= 0 {
		spec = spec[:i]
	}
	if i := strings.Index(spec, " @ "); i >= 0 {
		spec = spec[:i]
	}
	if m := requirementNamePattern.FindStringSubmatch(strings.TrimSpace(spec)); m != nil {
		return m[1]
	}
	return ""
}

// eggName returns the #egg= fragment of an editable or url requirement
func eggName(line string) string {
	i := strings.Index(line, "#egg=")
	if i < 0 {
		return ""
	}
	egg := line[i+len("#egg="):]
	if j := strings.IndexAny(egg, "&# "); j >= 0 {
		egg = egg[:j]
	}
	return requirementName(egg)
}

// ParseRequirements returns the package names of a pip requirements file
func ParseRequirements(content string) []string {
	// Join backslash continuations first
	content = strings.ReplaceAll(content, "\\\r\n", " ")
	content = strings.ReplaceAll(content, "\\\n", " ")

	var names []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if egg := eggName(line); egg != "" {
			names = append(names, egg)
			continue
		}
		if i := strings.Index(line, " #"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if strings.Contains(line, "://") && !strings.Contains(line, " @ ") {
			continue
		}
		names = append(names, requirementName(line))
	}
	return uniq(names)
}

// ParseCondaEnv returns the packages of a conda environment file, including
// its nested pip section
func ParseCondaEnv(content string) []string {
	var env struct {
		Dependencies []any `yaml:"dependencies"`
	}
	if err := yaml.Unmarshal([]byte(content), &env); err != nil {
		return nil
	}

	var names []string
	for _, dep := range env.Dependencies {
		switch d := dep.(type) {
		case string:
			// channel::package=version
			if i := strings.LastIndex(d, "::"); i >= 0 {
				d = d[i+2:]
			}
			names = append(names, requirementName(d))
		case map[string]any:
			pips, _ := d["pip"].([]any)
			for _, p := range pips {
				if s, ok := p.(string); ok && !strings.HasPrefix(strings.TrimSpace(s), "-") {
					names = append(names, requirementName(s))
				}
			}
		}
	}
	return uniq(names)
}

// ParsePipfile returns the keys of [packages] and [dev-packages]
func ParsePipfile(content string) []string {
	var doc struct {
		Packages    map[string]any `toml:"packages"`
		DevPackages map[string]any `toml:"dev-packages"`
	}
	if _, err := toml.Decode(content, &doc); err != nil {
		return tomlSectionKeys(content, func(section string) (bool, string) {
			return section == "packages" || section == "dev-packages", ""
		})
	}

	names := append(sortedKeys(doc.Packages), sortedKeys(doc.DevPackages)...)
	return uniq(names)
}

// ParsePipfileLock returns the locked packages of the default and develop groups
func ParsePipfileLock(content string) []string {
	var lock struct {
		Default map[string]json.RawMessage `json:"default"`
		Develop map[string]json.RawMessage `json:"develop"`
	}
	if err := json.Unmarshal([]byte(content), &lock); err != nil {
		return nil
	}

	names := append(sortedKeys(lock.Default), sortedKeys(lock.Develop)...)
	return uniq(names)
}

// ParsePyproject returns PEP 621 dependencies (required and optional) and
// Poetry dependencies, without the python version constraint
func ParsePyproject(content string) []string {
	var doc map[string]any
	if _, err := toml.Decode(content, &doc); err != nil {
		return dropPython(tomlSectionKeys(content, isPoetryDependencySection))
	}

	var names []string

	project := asTable(doc["project"])
	names = append(names, requirementList(project["dependencies"])...)
	optional := asTable(project["optional-dependencies"])
	for _, group := range sortedKeys(optional) {
		names = append(names, requirementList(optional[group])...)
	}

	poetry := asTable(asTable(doc["tool"])["poetry"])
	names = append(names, sortedKeys(asTable(poetry["dependencies"]))...)
	names = append(names, sortedKeys(asTable(poetry["dev-dependencies"]))...)
	groups := asTable(poetry["group"])
	for _, group := range sortedKeys(groups) {
		names = append(names, sortedKeys(asTable(asTable(groups[group])["dependencies"]))...)
	}

	return dropPython(uniq(names))
}

func requirementList(v any) []string {
	items, _ := v.([]any)
	names := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			names = append(names, requirementName(s))
		}
	}
	return names
}

func isPoetryDependencySection(section string) (bool, string) {
	switch {
	case section == "tool.poetry.dependencies", section == "tool.poetry.dev-dependencies":
		return true, ""
	case strings.HasPrefix(section, "tool.poetry.group.") && strings.HasSuffix(section, ".dependencies"):
		return true, ""
	}
	return false, ""
}

func dropPython(names []string) []string {
	out := names[:0]
	for _, n := range names {
		if !strings.EqualFold(n, "python") {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
