// Package language maps file extensions to languages and languages to their
// conventional install, run and test commands.
package language

import (
	"strings"

	"readmeai/errs"

	"github.com/rohanthewiz/serr"
)

// Names maps a file extension (without the leading dot) to a language name
type Names map[string]string

// Setup maps a language name to its conventional commands
type Setup map[string]Commands

// Commands is the ordered (install, run, test) triple of a language.
// An empty field means the command is unknown.
type Commands struct {
	Install string `json:"install,omitempty" toml:"install"`
	Run     string `json:"run,omitempty" toml:"run"`
	Test    string `json:"test,omitempty" toml:"test"`
}

// IsZero reports whether no command is known
func (c Commands) IsZero() bool {
	return c.Install == "" && c.Run == "" && c.Test == ""
}

// Classifier joins extensions against the language tables.
// It is immutable once built and safe for concurrent use.
type Classifier struct {
	names map[string]string
	setup map[string]Commands
}

// NewClassifier validates and copies both tables. Language names are
// lowercased on both sides of the join so "Python" in one table meets
// "python" in the other.
func NewClassifier(names Names, setup Setup) (*Classifier, error) {
	c := &Classifier{
		names: make(map[string]string, len(names)),
		setup: make(map[string]Commands, len(setup)),
	}

	for ext, lang := range names {
		key := strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if key == "" {
			return nil, errs.NewConfiguration("language_names", serr.New("empty extension key"))
		}
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == "" {
			return nil, errs.NewConfiguration("language_names", serr.F("extension %q maps to an empty language", ext))
		}
		if prev, ok := c.names[key]; ok && prev != lang {
			return nil, errs.NewConfiguration("language_names", serr.F("extension %q maps to both %q and %q", key, prev, lang))
		}
		c.names[key] = lang
	}

	for lang, cmds := range setup {
		key := strings.ToLower(strings.TrimSpace(lang))
		if key == "" {
			return nil, errs.NewConfiguration("language_setup", serr.New("empty language key"))
		}
		if prev, ok := c.setup[key]; ok && prev != cmds {
			return nil, errs.NewConfiguration("language_setup", serr.F("language %q has conflicting setup entries", key))
		}
		c.setup[key] = cmds
	}

	return c, nil
}

// Language returns the lowercase language for an extension, or "" when unmapped
func (c *Classifier) Language(ext string) string {
	return c.names[strings.TrimPrefix(ext, ".")]
}

// Commands returns the setup triple for a language; the zero value when unknown
func (c *Classifier) Commands(lang string) Commands {
	if lang == "" {
		return Commands{}
	}
	return c.setup[strings.ToLower(lang)]
}

// Classify left-joins an extension against both tables.
// Unmapped extensions yield an empty language and zero commands.
func (c *Classifier) Classify(ext string) (string, Commands) {
	lang := c.Language(ext)
	return lang, c.Commands(lang)
}

// Len returns the number of mapped extensions
func (c *Classifier) Len() int {
	return len(c.names)
}
