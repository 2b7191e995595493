package manifest

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseDockerCompose returns each service name and the image it runs,
// without tag or digest
func ParseDockerCompose(content string) []string {
	var doc struct {
		Services map[string]struct {
			Image string `yaml:"image"`
		} `yaml:"services"`
	}
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil
	}

	var names []string
	for _, name := range sortedKeys(doc.Services) {
		names = append(names, name)
		if img := imageName(doc.Services[name].Image); img != "" {
			names = append(names, img)
		}
	}
	return uniq(names)
}

// imageName strips the tag and digest from an image reference.
// A colon before the last slash is a registry port, not a tag.
func imageName(ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.Index(ref, "@"); i >= 0 {
		ref = ref[:i]
	}
	if i := strings.LastIndex(ref, ":"); i > strings.LastIndex(ref, "/") {
		ref = ref[:i]
	}
	return ref
}
