// Package deps merges manifest declarations with the extensions, languages
// and file names of a snapshot into one deduplicated dependency set.
package deps

import (
	"context"
	"runtime"
	"sort"

	"readmeai/errs"
	"readmeai/manifest"
	"readmeai/scanner"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one extraction
type Result struct {
	Snapshot     *scanner.Snapshot `json:"snapshot"`
	Dependencies []string          `json:"dependencies"`
	// Contents maps a record path to its text; the last record wins
	Contents map[string]string `json:"-"`
}

// Extractor dispatches manifest files to their parsers
type Extractor struct {
	analyzer *scanner.Analyzer
	registry manifest.Registry
	mode     manifest.MatchMode
	workers  int
}

// Option customizes an Extractor
type Option func(*Extractor)

// WithRegistry replaces the default manifest registry
func WithRegistry(r manifest.Registry) Option {
	return func(e *Extractor) { e.registry = r }
}

// WithMatchMode selects exact or substring manifest matching
func WithMatchMode(m manifest.MatchMode) Option {
	return func(e *Extractor) { e.mode = m }
}

// WithWorkers bounds concurrent parser calls
func WithWorkers(n int) Option {
	return func(e *Extractor) { e.workers = n }
}

// NewExtractor builds an extractor; analyzer may be nil when only Extract
// is used
func NewExtractor(analyzer *scanner.Analyzer, opts ...Option) *Extractor {
	e := &Extractor{
		analyzer: analyzer,
		registry: manifest.DefaultRegistry(),
		mode:     manifest.MatchExact,
		workers:  runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = 1
	}
	return e
}

// FromRepository analyzes a repository and extracts its dependencies
func (e *Extractor) FromRepository(ctx context.Context, repository string, isRemote bool) (Result, error) {
	if e.analyzer == nil {
		return Result{}, errs.NewConfiguration("analyzer", serr.New("extractor has no analyzer"))
	}
	snap, err := e.analyzer.Analyze(ctx, repository, isRemote)
	if err != nil {
		return Result{}, err
	}
	return e.Extract(ctx, snap)
}

// Extract parses every manifest in the snapshot and unions the results with
// the snapshot's extensions, languages and names. The returned dependencies
// are sorted and contain no empty strings or repeats.
func (e *Extractor) Extract(ctx context.Context, snap *scanner.Snapshot) (Result, error) {
	if snap == nil {
		return Result{}, serr.New("no snapshot to extract from")
	}
	res := Result{Snapshot: snap, Contents: make(map[string]string, len(snap.Records))}

	type job struct {
		path   string
		parser manifest.Parser
		text   string
	}
	var jobs []job

	set := make(map[string]struct{})
	add := func(items ...string) {
		for _, it := range items {
			if it != "" {
				set[it] = struct{}{}
			}
		}
	}

	for _, r := range snap.Records {
		res.Contents[r.Path] = r.Content
		add(r.Extension, r.Language, r.Name)

		if name, ok := e.registry.Match(r.Name, e.mode); ok {
			jobs = append(jobs, job{path: r.Path, parser: e.registry[name], text: r.Content})
		}
	}

	parsed := make([][]string, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed[i] = j.parser(j.text)
			if len(parsed[i]) == 0 {
				logger.Debug("Manifest yielded no dependencies", "path", j.path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, serr.Wrap(err, "dependency extraction interrupted")
	}

	for _, names := range parsed {
		add(names...)
	}

	res.Dependencies = make([]string, 0, len(set))
	for dep := range set {
		res.Dependencies = append(res.Dependencies, dep)
	}
	sort.Strings(res.Dependencies)

	logger.Info("Extracted dependencies", "run", snap.ID, "manifests", len(jobs), "dependencies", len(res.Dependencies))
	return res, nil
}
