package manifest

import (
	"encoding/xml"
	"io"
	"regexp"
	"strings"
)

const gradleConfigs = `implementation|api|compile|compileOnly|runtime|runtimeOnly|` +
	`testImplementation|testCompile|testCompileOnly|testRuntimeOnly|androidTestImplementation|` +
	`debugImplementation|releaseImplementation|kapt|ksp|annotationProcessor|classpath`

var (
	// implementation 'group:artifact:version' and implementation("group:artifact:version")
	gradleCoordinate = regexp.MustCompile(`(?m)\b(?:` + gradleConfigs + `)\b\s*\(?\s*['"]([^'"\s]+)['"]`)
	// implementation group: 'g', name: 'artifact', version: 'v'
	gradleMapNotation = regexp.MustCompile(`(?m)\b(?:` + gradleConfigs + `)\b[^\n]*?\bname\s*:\s*['"]([^'"]+)['"]`)

	mavenDependency = regexp.MustCompile(`(?s)<dependency>.*?<artifactId>\s*([^<\s]+)\s*</artifactId>.*?</dependency>`)
)

// ParseGradle returns the artifact names declared in a build.gradle
func ParseGradle(content string) []string {
	var names []string
	for _, m := range gradleCoordinate.FindAllStringSubmatch(content, -1) {
		parts := strings.Split(m[1], ":")
		if len(parts) >= 2 {
			names = append(names, parts[1])
		} else {
			names = append(names, parts[0])
		}
	}
	for _, m := range gradleMapNotation.FindAllStringSubmatch(content, -1) {
		names = append(names, m[1])
	}
	return uniq(names)
}

// ParseMaven returns the artifactId of every <dependency> in a pom.xml,
// including managed, profile and plugin dependencies
func ParseMaven(content string) []string {
	names, err := mavenArtifacts(content)
	if err != nil {
		// Malformed XML: salvage what a plain pattern match can find
		names = append(names, regexpArtifacts(content)...)
	}
	return uniq(names)
}

func mavenArtifacts(content string) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	dec.Strict = false

	var (
		names []string
		stack []string
		text  strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return names, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			text.Reset()
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			n := len(stack)
			if n >= 2 && stack[n-1] == "artifactId" && stack[n-2] == "dependency" {
				names = append(names, strings.TrimSpace(text.String()))
			}
			if n > 0 {
				stack = stack[:n-1]
			}
			text.Reset()
		}
	}
}

func regexpArtifacts(content string) []string {
	var names []string
	for _, m := range mavenDependency.FindAllStringSubmatch(content, -1) {
		names = append(names, m[1])
	}
	return names
}
