package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pevans/judgearchive/archive"
	"github.com/pevans/judgearchive/catalog"
	"github.com/pevans/judgearchive/problem"
	"github.com/spf13/cobra"
)

var (
	listJSON     bool
	historyLimit int
	historyID    string

	historyRecordID string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived problems",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		arch, err := archive.New(state.cfg.SolutionsPath())
		if err != nil {
			return err
		}

		result, err := arch.List()
		if err != nil {
			return err
		}
		for _, readErr := range result.Errors {
			state.logger.Warn("skipping unreadable metadata", "path", readErr.Path, "error", readErr.Err)
		}

		if listJSON {
			return printProblemsJSON(cmd.OutOrStdout(), result.Records)
		}
		printProblemsTable(cmd.OutOrStdout(), result.Records)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently created workspaces",
	Long: `List catalog records newest first. With --id, show one record and the
metadata currently stored in its workspace.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyRecordID != "" {
			return runHistoryRecord(state, historyRecordID, cmd.OutOrStdout())
		}
		return runHistory(state, historyID, historyLimit, cmd.OutOrStdout())
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print records as JSON")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of records (0 for all)")
	historyCmd.Flags().StringVar(&historyID, "problem", "", "Only show records for this problem number")
	historyCmd.Flags().StringVar(&historyRecordID, "id", "", "Show a single record by its ID")
	rootCmd.AddCommand(listCmd, historyCmd)
}

func runHistory(a *app, problemID string, limit int, out io.Writer) error {
	store, err := catalog.NewStore(a.cfg.CatalogDSN)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer store.Close()

	filter := catalog.Filter{Limit: limit}
	if problemID != "" {
		number, err := strconv.Atoi(problemID)
		if err != nil || number < 0 {
			return fmt.Errorf("invalid problem ID %q", problemID)
		}
		filter.ProblemID = problem.PadID(number)
	}

	records, err := store.List(filter)
	if err != nil {
		return err
	}

	printHistoryTable(out, records)
	return nil
}

// runHistoryRecord prints one catalog record and, if its workspace is still
// in the archive, the info.json stored there.
func runHistoryRecord(a *app, id string, out io.Writer) error {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid record ID %q: %w", id, err)
	}

	store, err := catalog.NewStore(a.cfg.CatalogDSN)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer store.Close()

	record, err := store.Get(recordID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Record: %s\n", record.RecordID)
	fmt.Fprintf(out, "  When: %s\n", record.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  ID: %s\n", record.ProblemID)
	fmt.Fprintf(out, "  Name: %s\n", record.Name)
	fmt.Fprintf(out, "  Judge: %s\n", record.Judge)
	fmt.Fprintf(out, "  URL: %s\n", record.URL)
	fmt.Fprintf(out, "  Workspace: %s\n", record.WorkspaceDir)

	arch, err := archive.New(a.cfg.SolutionsPath())
	if err != nil {
		return err
	}
	meta, err := arch.ReadInfo(filepath.Base(record.WorkspaceDir))
	if err != nil {
		a.logger.Debug("workspace metadata unavailable", "dir", record.WorkspaceDir, "error", err)
		fmt.Fprintln(out, "  Current metadata: not found")
		return nil
	}

	fmt.Fprintf(out, "  Current metadata: %s (%s)\n", meta.Name, meta.ExternalURL)
	return nil
}

// printProblemsTable prints records as a human-readable table
func printProblemsTable(out io.Writer, records []problem.Metadata) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No problems archived.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"ID", "Name", "Statement"})
	for _, meta := range records {
		t.AppendRow(table.Row{meta.ID, meta.Name, meta.ExternalURL})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// printProblemsJSON prints records in JSON format
func printProblemsJSON(out io.Writer, records []problem.Metadata) error {
	if records == nil {
		records = []problem.Metadata{}
	}
	output := map[string]any{
		"problems": records,
		"total":    len(records),
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(out, string(data))
	return nil
}

// printHistoryTable prints catalog records newest first
func printHistoryTable(out io.Writer, records []catalog.Record) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No workspaces recorded.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"When", "ID", "Name", "Judge", "New"})
	for _, r := range records {
		created := "no"
		if r.Created {
			created = "yes"
		}
		t.AppendRow(table.Row{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.ProblemID,
			r.Name,
			r.Judge,
			created,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
