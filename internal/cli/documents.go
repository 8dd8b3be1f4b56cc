package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/notate/pkg/document"
	"github.com/matzehuels/notate/pkg/pipeline"
	"github.com/matzehuels/notate/pkg/store"
)

// documentsCommand creates the documents command for managing the local store.
func (c *CLI) documentsCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Manage the local document store",
		Long: `Manage the local document store.

Documents are stored as JSON files under ~/.config/notate/documents (or the
directory given with --dir). The same directory can back 'serve --store file',
so documents added here are served by the HTTP API.`,
	}

	cmd.PersistentFlags().StringVar(&dir, "dir", "", "store directory (default: ~/.config/notate/documents)")

	cmd.AddCommand(c.documentsListCommand(&dir))
	cmd.AddCommand(c.documentsAddCommand(&dir))
	cmd.AddCommand(c.documentsShowCommand(&dir))
	cmd.AddCommand(c.documentsDeleteCommand(&dir))
	cmd.AddCommand(c.documentsBrowseCommand(&dir))

	return cmd
}

// documentsListCommand creates the "documents list" subcommand.
func (c *CLI) documentsListCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewFileStore(*dir)
			if err != nil {
				return err
			}
			recs, err := st.List(cmd.Context(), store.ListOptions{})
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No documents stored")
				return nil
			}
			for _, rec := range recs {
				fmt.Println(StyleValue.Render(rec.Name))
				printDetail("%s · %d charts · %s", rec.ID, len(rec.Document.Charts), formatRelativeTime(rec.UpdatedAt))
			}
			return nil
		},
	}
}

// documentsAddCommand creates the "documents add" subcommand.
func (c *CLI) documentsAddCommand(dir *string) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add [document.json]",
		Short: "Add a document to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := document.ImportJSON(args[0])
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("loaded document", "path", args[0], "charts", len(d.Charts))
			if name == "" {
				base := filepath.Base(args[0])
				name = strings.TrimSuffix(base, filepath.Ext(base))
			}

			st, err := store.NewFileStore(*dir)
			if err != nil {
				return err
			}
			rec, err := st.Create(cmd.Context(), name, d)
			if err != nil {
				return err
			}

			printSuccess("Added %q", rec.Name)
			printDetail("ID: %s", rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "document name (default: file name)")

	return cmd
}

// documentsShowCommand creates the "documents show" subcommand.
func (c *CLI) documentsShowCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Print a stored document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewFileStore(*dir)
			if err != nil {
				return err
			}
			rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return document.WriteJSON(&rec.Document, os.Stdout)
		},
	}
}

// documentsDeleteCommand creates the "documents delete" subcommand.
func (c *CLI) documentsDeleteCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewFileStore(*dir)
			if err != nil {
				return err
			}
			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// documentsBrowseCommand creates the "documents browse" subcommand.
func (c *CLI) documentsBrowseCommand(dir *string) *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse stored documents and render one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), *dir, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runBrowse shows the interactive document list and renders the selection.
func (c *CLI) runBrowse(ctx context.Context, dir string, noCache bool) error {
	st, err := store.NewFileStore(dir)
	if err != nil {
		return err
	}
	recs, err := st.List(ctx, store.ListOptions{Limit: 500})
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		printInfo("No documents stored")
		return nil
	}

	m := NewDocumentListModel(recs)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(DocumentListModel)
	if !ok || fm.Selected == nil {
		printDetail("No selection made")
		return nil
	}
	rec := fm.Selected.Record
	printInfo("Document: %s", StyleHighlight.Render(rec.Name))

	source, err := json.Marshal(&rec.Document)
	if err != nil {
		return fmt.Errorf("serialize document: %w", err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		Source:  source,
		Formats: []string{pipeline.FormatSVG},
		Logger:  c.Logger,
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", rec.Name))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	outputPath := strings.ReplaceAll(rec.Name, string(os.PathSeparator), "-") + ".svg"
	if err := os.WriteFile(outputPath, result.Artifacts[pipeline.FormatSVG], 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Render complete")
	printFile(outputPath)
	return nil
}
