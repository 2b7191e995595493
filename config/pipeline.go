package config

import (
	"readmeai/deps"
	"readmeai/gitrepo"
	"readmeai/scanner"
	"readmeai/tokens"
)

// Pipeline bundles the collaborators of one analysis configuration.
// It is safe for concurrent use.
type Pipeline struct {
	Encoder   *tokens.Encoder
	Analyzer  *scanner.Analyzer
	Extractor *deps.Extractor
}

// Pipeline wires the tokenizer, classifier, cloner and extractor from c.
// Unknown encodings and malformed tables fail here, before any repository
// is touched.
func (c *Config) Pipeline() (*Pipeline, error) {
	enc, err := tokens.NewEncoder(c.Encoding)
	if err != nil {
		return nil, err
	}
	classifier, err := c.Classifier()
	if err != nil {
		return nil, err
	}

	analyzer, err := scanner.NewAnalyzer(classifier, enc,
		scanner.WithCloner(gitrepo.NewGitCLI(c.CloneTimeout)),
		scanner.WithIgnorePolicy(c.Tables.IgnoreFiles),
		scanner.WithScratchDir(c.ScratchDir),
	)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		Encoder:   enc,
		Analyzer:  analyzer,
		Extractor: deps.NewExtractor(analyzer, deps.WithMatchMode(c.MatchMode)),
	}, nil
}
