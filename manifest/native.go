package manifest

import (
	"path"
	"regexp"
	"strings"
)

var (
	cmakeCommand = regexp.MustCompile(`(?is)\b(find_package|target_link_libraries)\s*\(([^)]*)\)`)
	cmakeComment = regexp.MustCompile(`(?m)#.*$`)

	amLibVariable = regexp.MustCompile(`^\s*[A-Za-z0-9_]*(?:LDADD|LIBADD|LIBS)\s*[+:]?=\s*(.*)$`)
	amLaLibrary   = regexp.MustCompile(`^lib([A-Za-z0-9_+.-]+)\.la$`)

	acCheckLib     = regexp.MustCompile(`\bAC_CHECK_LIB\s*\(\s*\[?\s*([^,\]\)]+)`)
	acPkgModules   = regexp.MustCompile(`\bPKG_CHECK_MODULES\s*\(\s*\[?[^,]*\]?\s*,\s*\[?([^\],\)]+)`)
	acCheckHeaders = regexp.MustCompile(`\bAC_CHECK_HEADERS?\s*\(\s*\[?([^,\]\)]+)`)
)

var cmakeKeywords = map[string]bool{
	"PRIVATE": true, "PUBLIC": true, "INTERFACE": true,
	"LINK_PRIVATE": true, "LINK_PUBLIC": true, "LINK_INTERFACE_LIBRARIES": true,
	"debug": true, "optimized": true, "general": true,
	"REQUIRED": true, "QUIET": true, "CONFIG": true, "MODULE": true, "NO_MODULE": true,
	"COMPONENTS": true, "OPTIONAL_COMPONENTS": true, "EXACT": true,
}

// ParseCMake returns the packages found with find_package and the libraries
// linked with target_link_libraries. Variables and generator expressions
// are skipped.
func ParseCMake(content string) []string {
	content = cmakeComment.ReplaceAllString(content, "")

	var names []string
	for _, m := range cmakeCommand.FindAllStringSubmatch(content, -1) {
		args := strings.Fields(m[2])
		if len(args) == 0 {
			continue
		}

		if strings.EqualFold(m[1], "find_package") {
			names = append(names, args[0])
			continue
		}

		// first argument is the target being linked
		for _, arg := range args[1:] {
			arg = strings.Trim(arg, `"`)
			if cmakeKeywords[arg] || strings.HasPrefix(arg, "${") || strings.HasPrefix(arg, "$<") {
				continue
			}
			names = append(names, arg)
		}
	}
	return uniq(names)
}

// ParseMakefileAm returns the libraries linked through *_LDADD, *_LIBADD
// and LIBS assignments, both -lname flags and libname.la archives
func ParseMakefileAm(content string) []string {
	content = strings.ReplaceAll(content, "\\\r\n", " ")
	content = strings.ReplaceAll(content, "\\\n", " ")

	var names []string
	for _, line := range strings.Split(content, "\n") {
		m := amLibVariable.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value := m[1]
		if i := strings.Index(value, "#"); i >= 0 {
			value = value[:i]
		}

		for _, tok := range strings.Fields(value) {
			switch {
			case strings.HasPrefix(tok, "-l") && len(tok) > 2:
				names = append(names, tok[2:])
			case strings.HasSuffix(tok, ".la"):
				if lm := amLaLibrary.FindStringSubmatch(path.Base(tok)); lm != nil {
					names = append(names, lm[1])
				}
			}
		}
	}
	return uniq(names)
}

// ParseConfigureAc returns the libraries checked by AC_CHECK_LIB, the
// pkg-config modules of PKG_CHECK_MODULES and the headers of AC_CHECK_HEADERS
func ParseConfigureAc(content string) []string {
	var names []string

	for _, m := range acCheckLib.FindAllStringSubmatch(content, -1) {
		names = append(names, strings.Fields(m[1])...)
	}
	for _, m := range acPkgModules.FindAllStringSubmatch(content, -1) {
		names = append(names, pkgConfigModules(m[1])...)
	}
	for _, m := range acCheckHeaders.FindAllStringSubmatch(content, -1) {
		names = append(names, strings.Fields(m[1])...)
	}
	return uniq(names)
}

// pkgConfigModules drops the version constraints of a module list such as
// "glib-2.0 >= 2.40 gio-2.0"
func pkgConfigModules(list string) []string {
	var mods []string
	skipNext := false
	for _, tok := range strings.Fields(list) {
		if skipNext {
			skipNext = false
			continue
		}
		switch tok {
		case ">=", "<=", ">", "<", "=", "==", "!=":
			skipNext = true
			continue
		}
		if strings.HasPrefix(tok, "$") {
			continue
		}
		mods = append(mods, tok)
	}
	return mods
}
