// Package tokens counts and truncates text by BPE tokens so summaries can be
// budgeted against a model's context window.
package tokens

import (
	"strings"
	"sync"
	"unicode/utf8"

	"readmeai/errs"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
	"github.com/rohanthewiz/serr"
)

// DefaultEncoding is used when no encoding is configured
const DefaultEncoding = "cl100k_base"

// Counter counts the tokens of a text. Implementations must be deterministic.
type Counter interface {
	Count(text string) int
}

var (
	loaderOnce sync.Once
	encodings  *lru.Cache[string, *tiktoken.Tiktoken]
)

func init() {
	var err error
	if encodings, err = lru.New[string, *tiktoken.Tiktoken](8); err != nil {
		panic(err) // only fails for a non-positive size
	}
}

// Encoder is a Counter backed by a named tiktoken encoding
type Encoder struct {
	name string
	enc  *tiktoken.Tiktoken
}

// NewEncoder resolves an encoding by name. A missing or unknown name is a
// configuration error, reported here rather than on first use.
func NewEncoder(name string) (*Encoder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewConfiguration("encoding", serr.New("encoding name is required"))
	}

	// BPE ranks are embedded; never fetch them over the network
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	if enc, ok := encodings.Get(name); ok {
		return &Encoder{name: name, enc: enc}, nil
	}

	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, errs.NewConfiguration("encoding", serr.Wrap(err, "unknown encoding "+name))
	}
	encodings.Add(name, enc)

	return &Encoder{name: name, enc: enc}, nil
}

// Name returns the encoding name
func (e *Encoder) Name() string {
	return e.name
}

// Encode returns the token ids of text. Special-token text is encoded as
// ordinary text.
func (e *Encoder) Encode(text string) []int {
	if text == "" {
		return nil
	}
	return e.enc.Encode(text, nil, nil)
}

// Count returns the number of tokens in text
func (e *Encoder) Count(text string) int {
	return len(e.Encode(text))
}

// Truncate returns the longest token prefix of text that fits in maxTokens
// and is valid UTF-8. Tokens ending inside a multi-byte rune are dropped.
func (e *Encoder) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	ids := e.Encode(text)
	if len(ids) <= maxTokens {
		return text
	}
	for n := maxTokens; n > 0; n-- {
		if out := e.enc.Decode(ids[:n]); utf8.ValidString(out) {
			return out
		}
	}
	return ""
}
