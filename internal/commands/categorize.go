package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnkit/internal/categorize"
	"github.com/cleared-dev/txnkit/internal/changelog"
	"github.com/cleared-dev/txnkit/internal/config"
	"github.com/cleared-dev/txnkit/internal/gitops"
	"github.com/cleared-dev/txnkit/internal/logger"
	"github.com/cleared-dev/txnkit/internal/merchants"
)

type categorizeParams struct {
	Root        string
	MappingFile string
	Pattern     string
	Files       []string
	AuditLog    string // empty disables the change log
	Commit      bool
	Git         config.GitConfig
	Now         time.Time
	RunID       string
}

func newCategorizeCommand(a *app) *cobra.Command {
	var (
		root    string
		mapping string
		pattern string
		commit  bool
		noAudit bool
	)

	cmd := &cobra.Command{
		Use:   "categorize [file...]",
		Short: "Fill Uncategorized rows from the merchant mapping",
		Long: "Back-fill the category column of transaction CSVs whose category is Uncategorized,\n" +
			"matching descriptions against the merchant mapping. Without arguments the files\n" +
			"matching --pattern under --dir are processed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := a.cfg.Categorize
			flags := cmd.Flags()
			if flags.Changed("mapping") {
				cc.MappingFile = mapping
			}
			if flags.Changed("pattern") {
				cc.Pattern = pattern
			}
			if flags.Changed("commit") {
				cc.AutoCommit = commit
			}
			if noAudit {
				cc.AuditLog = ""
			}

			p := categorizeParams{
				Root:        root,
				MappingFile: inRoot(root, cc.MappingFile),
				Pattern:     cc.Pattern,
				Files:       args,
				Commit:      cc.AutoCommit,
				Git:         a.cfg.Git,
				Now:         time.Now().UTC(),
				RunID:       uuid.NewString(),
			}
			if cc.AuditLog != "" {
				p.AuditLog = inRoot(root, cc.AuditLog)
			}
			return runCategorize(cmd.Context(), cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVar(&root, "dir", ".", "workspace root")
	cmd.Flags().StringVar(&mapping, "mapping", "", "merchant mapping CSV (relative to --dir)")
	cmd.Flags().StringVar(&pattern, "pattern", categorize.DefaultPattern, "glob of transaction CSVs under --dir")
	cmd.Flags().BoolVar(&commit, "commit", false, "commit rewritten files and the change log")
	cmd.Flags().BoolVar(&noAudit, "no-audit", false, "do not append to the change log")

	return cmd
}

func runCategorize(ctx context.Context, out io.Writer, p categorizeParams) error {
	log := logger.FromContext(ctx).With().Str("run_id", p.RunID).Logger()

	fmt.Fprintf(out, "Loading merchant mapping from %s\n", p.MappingFile)
	m, err := merchants.Load(p.MappingFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Loaded %d merchant mappings\n", m.Merchants())

	files := p.Files
	if len(files) == 0 {
		files, err = categorize.Discover(p.Root, p.Pattern)
		if err != nil {
			return err
		}
	}
	if len(files) == 0 {
		log.Warn().Str("dir", p.Root).Str("pattern", p.Pattern).Msg("no transaction files found")
	}

	var (
		total        int
		filesUpdated int
		audited      bool
		changed      []string
	)
	for _, file := range files {
		res, err := categorize.File(file, m)
		if err != nil {
			return err
		}
		if res.Updated() == 0 {
			log.Debug().Str("file", file).Msg("nothing to update")
			continue
		}

		for _, c := range res.Changes {
			log.Debug().
				Str("file", file).
				Int("row", c.Row).
				Str("description", c.Description).
				Str("category", c.Category).
				Str("match", string(c.Match)).
				Str("key", c.Key).
				Msg("category set")
		}

		fmt.Fprintf(out, "Updated %d rows in %s\n", res.Updated(), filepath.Base(file))
		total += res.Updated()
		filesUpdated++
		rel := relTo(p.Root, file)
		changed = append(changed, rel)

		// A rewritten file is logged before the next file is read.
		if p.AuditLog != "" {
			if err := changelog.Append(p.AuditLog, changelog.FromResult(p.Now, p.RunID, rel, res)); err != nil {
				return err
			}
			audited = true
		}
	}

	fmt.Fprintf(out, "\nTotal rows updated: %d\n", total)

	if audited {
		changed = append(changed, relTo(p.Root, p.AuditLog))
	}

	if !p.Commit || total == 0 {
		return nil
	}
	if !gitops.IsRepo(p.Root) {
		log.Warn().Str("dir", p.Root).Msg("not a git repository, skipping commit")
		return nil
	}

	msg := fmt.Sprintf("categorize: %d rows in %d files", total, filesUpdated)
	hash, err := gitops.CommitPaths(p.Root, changed, msg, p.Git.AuthorName, p.Git.AuthorEmail)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Committed %s\n", hash)
	return nil
}

// inRoot resolves a workspace-relative path.
func inRoot(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, filepath.FromSlash(path))
}

// relTo returns path relative to root when it lies inside it.
func relTo(root, path string) string {
	absRoot, err1 := filepath.Abs(root)
	absPath, err2 := filepath.Abs(path)
	if err1 != nil || err2 != nil {
		return path
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
