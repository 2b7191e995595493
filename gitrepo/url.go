package gitrepo

import (
	"regexp"
	"strings"
)

var (
	urlPattern = regexp.MustCompile(`(?i)^(?:http|ftp)s?://` +
		`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+(?:[A-Z]{2,63}|[A-Z]{2,63}\.[A-Z]{2,63}))` +
		`(?::\d+)?` +
		`(?:/?|[/?]\S+)$`)

	githubPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+)`)
)

// InvalidGitHubURL is returned by OwnerRepo when the url is not a GitHub repository url
const InvalidGitHubURL = "Invalid GitHub URL"

// ValidURL reports whether s looks like an http(s) or ftp(s) url with a domain host
func ValidURL(s string) bool {
	return urlPattern.MatchString(s)
}

// IsRemote guesses whether a repository argument names a remote rather than a local path
func IsRemote(s string) bool {
	s = strings.TrimSpace(s)
	return ValidURL(s) || strings.HasPrefix(s, "git@") || strings.HasPrefix(s, "ssh://")
}

// OwnerRepo extracts "owner/repo" from a GitHub url
func OwnerRepo(url string) string {
	m := githubPattern.FindStringSubmatch(url)
	if m == nil {
		return InvalidGitHubURL
	}
	return m[1] + "/" + strings.TrimSuffix(m[2], ".git")
}
