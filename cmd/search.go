package cmd

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/rogersnm/doctag/internal/archive"
	"github.com/rogersnm/doctag/internal/markdown"
	"github.com/rogersnm/doctag/internal/model"
	"github.com/rogersnm/doctag/internal/search"
	"github.com/rogersnm/doctag/internal/session"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Find documents by tags, comment or name",
	Long: heredoc.Doc(`
		Find documents whose field matches the query.

		The query is split on ", ". On tags, each token must equal a tag exactly
		and --all requires every token. On comment and name, any token found as a
		substring matches. Matching is case-sensitive.
	`),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		found, err := runQuery(cmd, args)
		if err != nil {
			return err
		}
		fmt.Println(markdown.RenderDocumentTable(found))

		dest, _ := cmd.Flags().GetString("export")
		if dest == "" {
			return nil
		}
		return exportDocs(cmd, found, dest)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <dest> <query>...",
	Short: "Search and write the matching documents to a zip archive",
	Long: heredoc.Doc(`
		Search like "doctag search" and write the matches to dest, adding .zip
		when missing. Entries are named <n>/<name>, or <n>-<name> with
		--single-folder, numbered from 1 in catalogue order. Files that cannot
		be read are skipped.
	`),
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		found, err := runQuery(cmd, args[1:])
		if err != nil {
			return err
		}
		return exportDocs(cmd, found, args[0])
	},
}

// runQuery joins args with the query delimiter and searches the catalogue
// with the resolved field and the --all flag.
func runQuery(cmd *cobra.Command, args []string) ([]model.Document, error) {
	field, err := search.ParseField(settings.SearchField)
	if err != nil {
		return nil, err
	}
	mode := search.Any
	if all, _ := cmd.Flags().GetBool("all"); all {
		mode = search.All
	}
	q := search.Query{
		Text:  strings.Join(args, model.Delimiter),
		Field: field,
		Mode:  mode,
	}
	found := search.Run(repo.Catalogue.Documents(), q)
	logger.Debug("search", "query", q.Text, "field", field, "mode", mode, "found", len(found))
	return found, nil
}

func exportDocs(cmd *cobra.Command, docs []model.Document, dest string) error {
	if len(docs) == 0 {
		return session.ErrNothingToExport
	}
	res, err := archive.Export(docs, dest, archive.Options{
		SingleFolder: settings.SingleFolder,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d document(s) to %s\n", res.Written, res.Path)
	if res.Skipped > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), markdown.RenderWarning(fmt.Sprintf("%d document(s) could not be read", res.Skipped)))
	}
	return nil
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("field", "f", "tags", "field to match (tags, comment, name)")
	cmd.Flags().BoolP("all", "a", false, "require every tag (tags field only)")
	cmd.Flags().Bool("single-folder", false, "export into one flat folder as <n>-<name>")
}

func init() {
	addQueryFlags(searchCmd)
	searchCmd.Flags().StringP("export", "e", "", "also write the results to this zip archive")
	addQueryFlags(exportCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exportCmd)
}
