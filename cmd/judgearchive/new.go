package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pevans/judgearchive/archive"
	"github.com/pevans/judgearchive/catalog"
	"github.com/pevans/judgearchive/workspace"
	"github.com/spf13/cobra"
)

type newOptions struct {
	judge    string
	dryRun   bool
	noReadme bool
}

var newOpts newOptions

var newCmd = &cobra.Command{
	Use:   "new <problem-url>",
	Short: "Create the workspace for a problem",
	Long: `Scrape the problem page, create solutions/<ID> - <Name>/ with its
info.json, record the creation in the catalog and regenerate the README.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNew(cmd.Context(), state, args[0], newOpts, cmd.OutOrStdout())
	},
}

func init() {
	newCmd.Flags().StringVar(&newOpts.judge, "judge", workspace.JudgeAuto, "Online judge (auto, uva or none)")
	newCmd.Flags().BoolVar(&newOpts.dryRun, "dry-run", false, "Resolve the judge but write nothing")
	newCmd.Flags().BoolVar(&newOpts.noReadme, "no-readme", false, "Don't regenerate the README afterwards")
	rootCmd.AddCommand(newCmd)
}

func runNew(ctx context.Context, a *app, problemURL string, opts newOptions, out io.Writer) error {
	judge := opts.judge
	if judge == "" || judge == workspace.JudgeAuto {
		detected, err := workspace.DetectJudge(problemURL)
		if err != nil {
			return err
		}
		judge = detected
	}
	if opts.dryRun {
		fmt.Fprintf(out, "Dry run: %s problem, nothing written\n", judge)
		judge = workspace.JudgeNone
	}

	deps := workspace.Deps{
		ScraperOptions: a.cfg.ScraperOptions(),
		Logger:         a.logger,
	}
	deps.ScraperOptions.Logger = a.logger

	if judge != workspace.JudgeNone {
		arch, err := archive.New(a.cfg.SolutionsPath())
		if err != nil {
			return err
		}
		deps.Archive = arch
	}

	creator, err := workspace.ForURL(judge, problemURL, deps)
	if err != nil {
		return err
	}

	result, err := creator.CreateWorkspace(ctx)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	if result == nil {
		return nil
	}

	if result.Created {
		fmt.Fprintf(out, "✓ Created workspace: %s\n", result.Dir)
	} else {
		fmt.Fprintf(out, "✓ Updated workspace: %s\n", result.Dir)
	}
	fmt.Fprintf(out, "  ID: %s\n", result.Metadata.ID)
	fmt.Fprintf(out, "  Name: %s\n", result.Metadata.Name)
	fmt.Fprintf(out, "  Statement: %s\n", result.Metadata.ExternalURL)

	if err := recordHistory(a, result); err != nil {
		a.logger.Warn("failed to record workspace in catalog", "error", err)
	}

	if opts.noReadme {
		return nil
	}
	if a.cfg.SolutionBaseURL == "" {
		a.logger.Warn("solution base URL is not configured, skipping README regeneration")
		return nil
	}
	return runReadme(a, a.cfg.SolutionBaseURL, out)
}

// recordHistory appends result to the catalog.
func recordHistory(a *app, result *workspace.Result) error {
	if dir := filepath.Dir(a.cfg.CatalogDSN); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	store, err := catalog.NewStore(a.cfg.CatalogDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	record, err := store.Add(result.Judge, result.Dir, result.Created, result.Metadata)
	if err != nil {
		return err
	}

	a.logger.Debug("recorded workspace", "record_id", record.RecordID.String())
	return nil
}
