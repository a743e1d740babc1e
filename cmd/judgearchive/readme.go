package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/pevans/judgearchive/archive"
	"github.com/pevans/judgearchive/readme"
	"github.com/spf13/cobra"
)

var baseURLFlag string

var readmeCmd = &cobra.Command{
	Use:   "readme",
	Short: "Regenerate the README index",
	Long: `Rebuild the README table from every info.json under the solutions
directory. The previous README is replaced.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL := state.cfg.SolutionBaseURL
		if baseURLFlag != "" {
			baseURL = baseURLFlag
		}
		if baseURL == "" {
			return errors.New("solution base URL is not configured (set readme.solution_base_url, JUDGEARCHIVE_SOLUTION_BASE_URL or --base-url)")
		}
		return runReadme(state, baseURL, cmd.OutOrStdout())
	},
}

func init() {
	readmeCmd.Flags().StringVar(&baseURLFlag, "base-url", "", "Web URL of the repository's default branch (JUDGEARCHIVE_SOLUTION_BASE_URL)")
	rootCmd.AddCommand(readmeCmd)
}

func runReadme(a *app, baseURL string, out io.Writer) error {
	arch, err := archive.New(a.cfg.SolutionsPath())
	if err != nil {
		return err
	}

	content := readme.NewUVaContentProvider(baseURL)
	report, err := readme.Generate(arch, content, a.cfg.ReadmeFile(), a.logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Wrote %s (%d problems)\n", report.Path, report.Entries)
	for _, skipped := range report.Skipped {
		fmt.Fprintf(out, "  skipped %s\n", skipped.Error())
	}
	return nil
}
