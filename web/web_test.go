package web

import (
	"errors"
	"strings"
	"testing"

	"readmeai/db"
	"readmeai/errs"
)

func TestParseAnalyzeRequest(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantErr    bool
		wantRemote bool
	}{
		{name: "local path", body: `{"repository": " ./repo "}`, wantRemote: false},
		{name: "url is remote", body: `{"repository": "https://github.com/owner/repo"}`, wantRemote: true},
		{name: "explicit flag wins", body: `{"repository": "https://github.com/owner/repo", "remote": false}`, wantRemote: false},
		{name: "missing repository", body: `{"summary": true}`, wantErr: true},
		{name: "not json", body: `repository=x`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := parseAnalyzeRequest([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %+v", req)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAnalyzeRequest: %v", err)
			}
			if strings.TrimSpace(req.Repository) != req.Repository {
				t.Errorf("repository not trimmed: %q", req.Repository)
			}
			if got := req.isRemote(); got != tt.wantRemote {
				t.Errorf("isRemote = %v, want %v", got, tt.wantRemote)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errNoRepository, 400},
		{db.ErrRunNotFound, 404},
		{errRateLimited, 429},
		{errs.NewRepositoryUnavailable("x", errors.New("clone failed")), 502},
		{errShuttingDown, 503},
		{errs.NewConfiguration("encoding", errors.New("unknown")), 500},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRenderIndexPage(t *testing.T) {
	page := renderIndexPage()
	for _, want := range []string{`action="/report"`, `name="repository"`, "Analyze"} {
		if !strings.Contains(page, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestRenderReportPage(t *testing.T) {
	rep := &db.Report{
		RunID:        "run-1",
		Root:         "<repo>",
		Files:        3,
		Tokens:       42,
		Dependencies: 2,
		Languages:    []db.LanguageStat{{Language: "go", Files: 2, Tokens: 40}},
		Largest:      []db.FileStat{{Path: "main.go", Language: "go", Tokens: 30}},
	}
	page := renderReportPage(rep, []string{"cobra", "go"})

	for _, want := range []string{"3 files, 42 tokens, 2 dependencies", "main.go", "cobra", "repo"} {
		if !strings.Contains(page, want) {
			t.Errorf("report page missing %q", want)
		}
	}
	if strings.Contains(page, "<repo>") {
		t.Error("repository name was not escaped")
	}
	if !strings.Contains(page, "&lt;repo&gt;") {
		t.Error("repository name should be escaped exactly once")
	}

	amp := renderReportPage(&db.Report{
		RunID:   "run-3",
		Largest: []db.FileStat{{Path: "docs/q&a.md", Tokens: 5}},
	}, []string{"a&b"})
	if !strings.Contains(amp, "docs/q&amp;a.md") || !strings.Contains(amp, "a&amp;b") {
		t.Error("ampersands not escaped")
	}
	if strings.Contains(amp, "&amp;amp;") {
		t.Error("ampersands escaped twice")
	}

	empty := renderReportPage(&db.Report{RunID: "run-2"}, nil)
	if !strings.Contains(empty, "None found") {
		t.Error("empty dependency list not rendered")
	}
}
