package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	mtp "github.com/modeltoolsprotocol/go-sdk"
	"github.com/rogersnm/doctag/internal/config"
	"github.com/rogersnm/doctag/internal/repofile"
	"github.com/rogersnm/doctag/internal/store"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	dataDir  string
	settings *config.Config
	repo     *store.Repository
	logger   *slog.Logger
)

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".doctag")
	}
	return filepath.Join(home, ".doctag")
}

var rootCmd = &cobra.Command{
	Use:     "doctag",
	Short:   "Tag, search and export a local document archive",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		var err error
		settings, err = config.Resolve(dataDir, cmd.Flags())
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}
		logger = config.NewLogger(os.Stderr, settings.Verbose)
		slog.SetDefault(logger)

		root, err := resolveRoot()
		if err != nil {
			return err
		}
		config.Log(settings, root, logger)

		repo, err = store.Open(root, logger)
		if err != nil {
			return fmt.Errorf("opening %s: %w", root, err)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "data directory path")
	rootCmd.PersistentFlags().String("root", "", "managed root holding config.json and docs/")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")

	mtpOpts := &mtp.DescribeOptions{
		Commands: map[string]*mtp.CommandAnnotation{
			"upload": {
				Examples: []mtp.Example{
					{Description: "Upload two files with the same tags", Command: "doctag upload a.pdf b.pdf --tags \"invoice, 2024\""},
					{Description: "Upload using a tag template", Command: "doctag upload scan.pdf --template tax --comment \"paper copy\""},
					{Description: "Tag each file interactively", Command: "doctag upload *.pdf -i"},
				},
			},
			"search": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of matching documents with ID, name, tags and comment",
				},
				Examples: []mtp.Example{
					{Description: "Documents with any of the tags", Command: "doctag search \"invoice, 2024\""},
					{Description: "Documents with all of the tags", Command: "doctag search \"invoice, 2024\" --all"},
					{Description: "Search comments", Command: "doctag search \"paper\" --field comment"},
					{Description: "Search and export results", Command: "doctag search invoice --export invoices.zip"},
				},
			},
			"export": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Path of the written zip archive",
				},
				Examples: []mtp.Example{
					{Description: "Export tagged documents into numbered folders", Command: "doctag export out.zip invoice"},
					{Description: "Export into a single flat folder", Command: "doctag export out.zip invoice --single-folder"},
				},
			},
			"doc list": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of all catalogued documents",
				},
			},
			"doc show": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/markdown",
					Description: "Document metadata, or its editable markdown form with --raw",
				},
				Examples: []mtp.Example{
					{Description: "Show a document", Command: "doctag doc show 3"},
					{Description: "Print the editable form", Command: "doctag doc show 3 --raw"},
				},
			},
			"doc edit": {
				Examples: []mtp.Example{
					{Description: "Edit tags, name and comment in $EDITOR", Command: "doctag doc edit 3"},
				},
			},
			"doc delete": {
				Examples: []mtp.Example{
					{Description: "Delete a document (interactive confirm)", Command: "doctag doc delete 3"},
					{Description: "Delete a document (skip confirm)", Command: "doctag doc delete 3 --force"},
				},
			},
			"tags add": {
				Examples: []mtp.Example{
					{Description: "Add default tags", Command: "doctag tags add \"invoice, receipt\""},
				},
			},
			"template set": {
				Examples: []mtp.Example{
					{Description: "Define two templates with the same tags", Command: "doctag template set \"tax, vat\" \"invoice, receipt\""},
				},
			},
			"config edit": {
				Examples: []mtp.Example{
					{Description: "Edit config.json in $EDITOR", Command: "doctag config edit"},
				},
			},
			"config import": {
				Stdin: &mtp.IODescriptor{
					ContentType: "application/json",
					Description: "Replacement config.json when the file argument is -",
				},
				Examples: []mtp.Example{
					{Description: "Replace the tag config", Command: "doctag config import tags.json"},
				},
			},
			"root link": {
				Examples: []mtp.Example{
					{Description: "Use a root for the current directory tree", Command: "doctag root link /srv/archive"},
				},
			},
		},
	}

	mtp.WithDescribe(rootCmd, mtpOpts)
}

func Execute() error {
	return rootCmd.Execute()
}

// resolveRoot returns the managed root from settings (flag, env or
// settings.yaml), a .doctag-root link above the working directory, or the
// data directory's default root.
func resolveRoot() (string, error) {
	if settings != nil && settings.Root != "" {
		return settings.Root, nil
	}
	if cwd, err := os.Getwd(); err == nil {
		root, _, err := repofile.Find(cwd)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", repofile.FileName, err)
		}
		if root != "" {
			return root, nil
		}
	}
	return config.DefaultRoot(dataDir), nil
}
