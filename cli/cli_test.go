package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"readmeai/config"

	json "github.com/goccy/go-json"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.FromEnv(func(string) string { return "" })
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	return cfg
}

func writeRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"README.md":        "# demo\n",
		"main.go":          "package main\n\nfunc main() {}\n",
		"requirements.txt": "flask==2.0\nrequests>=2\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestRunAnalyzeJSON(t *testing.T) {
	root := writeRepo(t)
	var out bytes.Buffer

	err := runAnalyze(context.Background(), &out, testConfig(t), root, false, analyzeOptions{asJSON: true, summary: true})
	if err != nil {
		t.Fatalf("runAnalyze: %v", err)
	}

	var got analyzeOutput
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, out.String())
	}
	if got.RunID == "" || got.Repository != root || got.Remote {
		t.Errorf("header = %+v", got)
	}
	if len(got.Files) != 3 {
		t.Errorf("got %d files, want 3", len(got.Files))
	}
	for _, want := range []string{"flask", "requests", "go", "main.go"} {
		found := false
		for _, dep := range got.Dependencies {
			if dep == want {
				found = true
			}
		}
		if !found {
			t.Errorf("dependency %q missing from %v", want, got.Dependencies)
		}
	}
	if got.Summary == nil || got.Summary.Budget != testConfig(t).ContextTokens {
		t.Errorf("summary = %+v", got.Summary)
	}
}

func TestRunAnalyzeText(t *testing.T) {
	root := writeRepo(t)
	var out bytes.Buffer

	if err := runAnalyze(context.Background(), &out, testConfig(t), root, false, analyzeOptions{}); err != nil {
		t.Fatalf("runAnalyze: %v", err)
	}
	for _, want := range []string{"Repository: " + root, "Files: 3", "main.go", "flask"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if strings.Contains(out.String(), "Summary:") {
		t.Error("summary printed without --summary")
	}
}

func TestAnalyzeCommandRequiresOneArgument(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"analyze"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Error("expected an error without a repository argument")
	}
}

func TestAnalyzeCommandMissingDirectory(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"analyze", filepath.Join(t.TempDir(), "missing")})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
