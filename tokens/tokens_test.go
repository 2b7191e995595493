package tokens

import (
	"strings"
	"testing"
	"unicode/utf8"

	"readmeai/errs"
)

func TestNewEncoderConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		enc     string
		wantErr bool
	}{
		{name: "default encoding", enc: DefaultEncoding},
		{name: "padded name", enc: "  cl100k_base "},
		{name: "empty name", enc: "", wantErr: true},
		{name: "blank name", enc: "   ", wantErr: true},
		{name: "unknown name", enc: "no_such_encoding", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := NewEncoder(tt.enc)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errs.IsConfiguration(err) {
					t.Errorf("expected ConfigurationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEncoder: %v", err)
			}
			if enc.Name() != DefaultEncoding {
				t.Errorf("Name = %q", enc.Name())
			}
		})
	}
}

func TestCountIsDeterministic(t *testing.T) {
	enc, err := NewEncoder(DefaultEncoding)
	if err != nil {
		t.Fatal(err)
	}

	if got := enc.Count(""); got != 0 {
		t.Errorf("Count(\"\") = %d, want 0", got)
	}
	if got := enc.Count("hello world"); got != 2 {
		t.Errorf("Count(hello world) = %d, want 2", got)
	}

	text := "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"
	first := enc.Count(text)
	if first <= 0 {
		t.Fatalf("expected positive count, got %d", first)
	}

	// A second encoder for the same name comes from the cache and must agree
	again, err := NewEncoder(DefaultEncoding)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if got := again.Count(text); got != first {
			t.Fatalf("Count not deterministic: %d vs %d", got, first)
		}
	}
}

func TestTruncate(t *testing.T) {
	enc, err := NewEncoder(DefaultEncoding)
	if err != nil {
		t.Fatal(err)
	}

	text := strings.Repeat("token budget ", 50)
	full := enc.Count(text)

	if got := enc.Truncate(text, full+10); got != text {
		t.Errorf("text within budget must be returned unchanged")
	}
	if got := enc.Truncate(text, 0); got != "" {
		t.Errorf("zero budget must yield empty text, got %q", got)
	}

	cut := enc.Truncate(text, 10)
	if n := enc.Count(cut); n > 10 {
		t.Errorf("truncated text has %d tokens, want <= 10", n)
	}
	if !strings.HasPrefix(text, cut) {
		t.Errorf("truncated text must be a prefix, got %q", cut)
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	enc, err := NewEncoder(DefaultEncoding)
	if err != nil {
		t.Fatal(err)
	}

	text := strings.Repeat("日本語のテキスト🙂🚀 ", 20)
	total := enc.Count(text)
	for limit := 1; limit < total; limit++ {
		out := enc.Truncate(text, limit)
		if !utf8.ValidString(out) {
			t.Fatalf("Truncate(%d) returned invalid UTF-8: %q", limit, out)
		}
		if !strings.HasPrefix(text, out) {
			t.Fatalf("Truncate(%d) = %q is not a prefix", limit, out)
		}
	}
}
