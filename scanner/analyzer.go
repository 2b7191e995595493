package scanner

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"readmeai/errs"
	"readmeai/gitrepo"
	"readmeai/language"
	"readmeai/tokens"

	"github.com/google/uuid"
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// ScratchPattern names the temporary clone directories
const ScratchPattern = "readmeai-*"

// Analyzer produces a Snapshot for a local directory or a remote repository
type Analyzer struct {
	classifier  *language.Classifier
	counter     tokens.Counter
	cloner      gitrepo.Cloner
	policy      IgnorePolicy
	scratchBase string
}

// Option customizes an Analyzer
type Option func(*Analyzer)

// WithCloner replaces the default git CLI cloner
func WithCloner(c gitrepo.Cloner) Option {
	return func(a *Analyzer) { a.cloner = c }
}

// WithIgnorePolicy sets the paths pruned from the walk
func WithIgnorePolicy(p IgnorePolicy) Option {
	return func(a *Analyzer) { a.policy = p }
}

// WithScratchDir sets where remote repositories are cloned; empty means the
// OS temp directory
func WithScratchDir(dir string) Option {
	return func(a *Analyzer) { a.scratchBase = dir }
}

// NewAnalyzer requires a classifier and a token counter; everything else
// has a default
func NewAnalyzer(classifier *language.Classifier, counter tokens.Counter, opts ...Option) (*Analyzer, error) {
	if classifier == nil {
		return nil, errs.NewConfiguration("language_names", serr.New("no language classifier"))
	}
	if counter == nil {
		return nil, errs.NewConfiguration("encoding", serr.New("no token counter"))
	}

	a := &Analyzer{
		classifier: classifier,
		counter:    counter,
		cloner:     gitrepo.NewGitCLI(0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Analyze walks root, or a fresh shallow clone of it when isRemote, and
// returns one record per text file in walk order. The clone is removed
// before Analyze returns, whatever the outcome.
func (a *Analyzer) Analyze(ctx context.Context, root string, isRemote bool) (*Snapshot, error) {
	start := time.Now()
	snap := &Snapshot{ID: uuid.NewString(), Root: root, Remote: isRemote}

	local := root
	if isRemote {
		dir, err := os.MkdirTemp(a.scratchBase, ScratchPattern)
		if err != nil {
			return nil, serr.Wrap(err, "failed to create scratch directory")
		}
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				logger.LogErr(err, "failed to remove scratch directory")
			}
		}()

		logger.Debug("Created scratch directory", "dir", dir, "run", snap.ID)
		if err := a.cloner.Clone(ctx, root, dir); err != nil {
			return nil, errs.NewRepositoryUnavailable(root, err)
		}
		local = dir
	} else {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errs.NewRepositoryUnavailable(root, err)
		}
		if !info.IsDir() {
			return nil, errs.NewRepositoryUnavailable(root, serr.New("not a directory"))
		}
	}

	err := Walk(local, a.policy, func(e Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		snap.Records = append(snap.Records, a.record(e))
		return nil
	})
	if err != nil {
		return nil, serr.Wrap(err, "failed to analyze repository")
	}

	logger.Info("Analyzed repository", "root", root, "run", snap.ID,
		"files", len(snap.Records), "tokens", snap.TotalTokens(),
		"elapsed", time.Since(start).String())
	return snap, nil
}

// record counts tokens and left-joins the extension against the tables
func (a *Analyzer) record(e Entry) FileRecord {
	r := FileRecord{
		Name:      e.Name,
		Path:      e.Path,
		Content:   e.Content,
		Extension: Extension(e.Name),
		Tokens:    a.counter.Count(e.Content),
	}
	lang, cmds := a.classifier.Classify(r.Extension)
	if lang != "" {
		r.Language = lang
		r.Install, r.Run, r.Test = cmds.Install, cmds.Run, cmds.Test
	}
	return r
}

// CleanScratch removes clone directories left in base by interrupted runs
// and returns how many it removed
func CleanScratch(base string) (int, error) {
	if base == "" {
		base = os.TempDir()
	}
	dirs, err := filepath.Glob(filepath.Join(base, ScratchPattern))
	if err != nil {
		return 0, serr.Wrap(err, "failed to list scratch directories")
	}

	removed := 0
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			logger.LogErr(err, "failed to remove scratch directory")
			continue
		}
		removed++
	}
	return removed, nil
}
