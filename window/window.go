// Package window packs an extraction result into a token budget, producing
// the condensed repository summary handed to prompt construction.
package window

import (
	"fmt"
	"sort"
	"strings"

	"readmeai/deps"
	"readmeai/manifest"
	"readmeai/scanner"
)

// Encoder counts and truncates text by tokens
type Encoder interface {
	Count(text string) int
	Truncate(text string, maxTokens int) string
}

const (
	// reserveDivisor keeps a tenth of the budget free for the prompt itself
	reserveDivisor = 10
	// minPartialTokens is the smallest remainder worth a truncated excerpt
	minPartialTokens = 100
)

// File is one snapshot file considered for the window
type File struct {
	Path      string `json:"path"`
	Tokens    int    `json:"tokens"`
	Included  bool   `json:"included"`
	Truncated bool   `json:"truncated,omitempty"`
	Content   string `json:"-"`
}

// Summary is the packed view of one extraction result
type Summary struct {
	Root         string   `json:"root"`
	Budget       int      `json:"budget"`
	Used         int      `json:"used"`
	Dependencies string   `json:"dependencies"`
	Files        []File   `json:"files"`
	Languages    []string `json:"languages"`
}

// Build selects file excerpts for budget tokens. The dependency list goes
// first, then READMEs, manifests, source files and everything else, smaller
// files first within a rank. The first file that does not fit is truncated
// when a useful remainder is left; later files are listed as excluded.
func Build(res deps.Result, enc Encoder, budget int) Summary {
	s := Summary{Budget: budget}
	if res.Snapshot != nil {
		s.Root = res.Snapshot.Root
	}

	limit := budget - budget/reserveDivisor
	if limit <= 0 {
		return s
	}

	depLine := "Dependencies: " + strings.Join(res.Dependencies, ", ")
	if n := enc.Count(depLine); n > limit {
		depLine = enc.Truncate(depLine, limit)
	}
	s.Dependencies = depLine
	s.Used = enc.Count(depLine)

	if res.Snapshot == nil {
		return s
	}

	records := rank(res.Snapshot.Records)
	langs := map[string]bool{}
	full := false

	for _, r := range records {
		if r.Language != "" && !langs[r.Language] {
			langs[r.Language] = true
			s.Languages = append(s.Languages, r.Language)
		}

		f := File{Path: r.Path, Tokens: r.Tokens}
		cost := enc.Count(fileHeader(r.Path)) + r.Tokens

		switch {
		case full:
		case s.Used+cost <= limit:
			f.Included, f.Content = true, r.Content
			s.Used += cost
		default:
			full = true
			remaining := limit - s.Used - enc.Count(fileHeader(r.Path))
			if remaining > minPartialTokens {
				f.Content = enc.Truncate(r.Content, remaining)
				f.Included, f.Truncated = true, true
				f.Tokens = enc.Count(f.Content)
				s.Used += enc.Count(fileHeader(r.Path)) + f.Tokens
			}
		}
		s.Files = append(s.Files, f)
	}
	sort.Strings(s.Languages)
	return s
}

// Text renders the included excerpts as prompt context
func (s Summary) Text() string {
	var b strings.Builder
	if s.Root != "" {
		fmt.Fprintf(&b, "Repository: %s\n", s.Root)
	}
	if len(s.Languages) > 0 {
		fmt.Fprintf(&b, "Languages: %s\n", strings.Join(s.Languages, ", "))
	}
	b.WriteString(s.Dependencies)
	b.WriteString("\n")

	for _, f := range s.Files {
		if !f.Included {
			continue
		}
		b.WriteString("\n")
		b.WriteString(fileHeader(f.Path))
		b.WriteString(f.Content)
		if !strings.HasSuffix(f.Content, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Included returns the number of files with content in the window
func (s Summary) Included() (n int) {
	for _, f := range s.Files {
		if f.Included {
			n++
		}
	}
	return n
}

func fileHeader(path string) string {
	return "--- " + path + " ---\n"
}

var manifests = manifest.DefaultRegistry()

// rank orders records for packing; synthetic entries have nothing to show
// and are dropped
func rank(records []scanner.FileRecord) []scanner.FileRecord {
	out := make([]scanner.FileRecord, 0, len(records))
	for _, r := range records {
		if r.Content != "" {
			out = append(out, r)
		}
	}

	score := func(r scanner.FileRecord) int {
		switch {
		case strings.HasPrefix(strings.ToLower(r.Name), "readme"):
			return 3
		case manifests[r.Name] != nil:
			return 2
		case r.Language != "":
			return 1
		}
		return 0
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := score(out[i]), score(out[j])
		if si != sj {
			return si > sj
		}
		if out[i].Tokens != out[j].Tokens {
			return out[i].Tokens < out[j].Tokens
		}
		return out[i].Path < out[j].Path
	})
	return out
}
