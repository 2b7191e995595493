package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"readmeai/config"
	"readmeai/deps"
	"readmeai/gitrepo"
	"readmeai/scanner"
	"readmeai/window"

	json "github.com/goccy/go-json"
	"github.com/rohanthewiz/serr"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	remote  bool
	asJSON  bool
	summary bool
}

func newAnalyzeCommand(cfg func() *config.Config) *cobra.Command {
	opts := analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <path|url>",
		Short: "Analyze a repository and print its files and dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repository := strings.TrimSpace(args[0])
			remote := opts.remote
			if !cmd.Flags().Changed("remote") {
				remote = gitrepo.IsRemote(repository)
			}
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), cfg(), repository, remote, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "Clone the repository instead of reading a local directory (default: detect)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print machine-readable output")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Include the token-budgeted repository summary")
	return cmd
}

type analyzeOutput struct {
	RunID        string               `json:"run_id"`
	Repository   string               `json:"repository"`
	Remote       bool                 `json:"remote"`
	Tokens       int                  `json:"tokens"`
	Dependencies []string             `json:"dependencies"`
	Files        []scanner.FileRecord `json:"files"`
	Summary      *window.Summary      `json:"summary,omitempty"`
}

func runAnalyze(ctx context.Context, w io.Writer, cfg *config.Config, repository string, remote bool, opts analyzeOptions) error {
	pipeline, err := cfg.Pipeline()
	if err != nil {
		return err
	}

	res, err := pipeline.Extractor.FromRepository(ctx, repository, remote)
	if err != nil {
		return err
	}

	var summary *window.Summary
	if opts.summary {
		s := window.Build(res, pipeline.Encoder, cfg.ContextTokens)
		summary = &s
	}

	if opts.asJSON {
		out := analyzeOutput{
			RunID:        res.Snapshot.ID,
			Repository:   res.Snapshot.Root,
			Remote:       res.Snapshot.Remote,
			Tokens:       res.Snapshot.TotalTokens(),
			Dependencies: res.Dependencies,
			Files:        res.Snapshot.Records,
			Summary:      summary,
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return serr.Wrap(err, "failed to encode result")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	return printResult(w, res, summary)
}

func printResult(w io.Writer, res deps.Result, summary *window.Summary) error {
	snap := res.Snapshot
	fmt.Fprintf(w, "Repository: %s\n", snap.Root)
	fmt.Fprintf(w, "Run: %s\n", snap.ID)
	fmt.Fprintf(w, "Files: %d (%d tokens)\n", len(snap.Records), snap.TotalTokens())
	for _, r := range snap.Records {
		lang := r.Language
		if lang == "" {
			lang = "-"
		}
		fmt.Fprintf(w, "  %-50s %-12s %6d\n", r.Path, lang, r.Tokens)
	}
	fmt.Fprintf(w, "Dependencies (%d): %s\n", len(res.Dependencies), strings.Join(res.Dependencies, ", "))

	if summary != nil {
		fmt.Fprintf(w, "\nSummary: %d of %d tokens, %d files included\n", summary.Used, summary.Budget, summary.Included())
		_, err := fmt.Fprint(w, summary.Text())
		return err
	}
	return nil
}
