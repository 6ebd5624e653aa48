package cmd

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/rogersnm/doctag/internal/editor"
	"github.com/rogersnm/doctag/internal/id"
	"github.com/rogersnm/doctag/internal/markdown"
	"github.com/rogersnm/doctag/internal/model"
	"github.com/spf13/cobra"
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage stored documents",
}

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(markdown.RenderDocumentTable(repo.Catalogue.Documents()))
		return nil
	},
}

var docShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show document details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := getDocument(args[0])
		if err != nil {
			return err
		}
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			data, err := markdown.EncodeDocument(d)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		}
		fmt.Print(markdown.RenderDocumentHeader(d))
		rendered, err := markdown.RenderMarkdown(markdown.DocumentMarkdown(d))
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	},
}

var docEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a document's name, tags and comment in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := getDocument(args[0])
		if err != nil {
			return err
		}
		data, err := markdown.EncodeDocument(d)
		if err != nil {
			return err
		}
		edited, err := editor.Edit(fmt.Sprintf("doctag-%d-*.md", d.ID), data)
		if err != nil {
			return err
		}
		if bytes.Equal(edited, data) {
			fmt.Println("No changes.")
			return nil
		}
		updated, err := applyEdit(d, edited)
		if err != nil {
			return err
		}
		fmt.Printf("Updated document %d (%s)\n", updated.ID, updated.FileName)
		return nil
	},
}

var docDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a document and its folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := getDocument(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Document: %s (%d)\n", d.FileName, d.ID)
		if err := confirmDelete(cmd, fmt.Sprintf("document %d", d.ID)); err != nil {
			return err
		}
		if err := repo.Catalogue.Delete(d.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted document %d\n", d.ID)
		return nil
	},
}

var docOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a stored document with the default application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := getDocument(args[0])
		if err != nil {
			return err
		}
		return editor.Launch(d.FilePath)
	},
}

func getDocument(arg string) (model.Document, error) {
	n, err := id.Parse(arg)
	if err != nil {
		return model.Document{}, err
	}
	return repo.Catalogue.Get(n)
}

// applyEdit stores the edited markdown form of d.
func applyEdit(d model.Document, edited []byte) (model.Document, error) {
	changed, err := markdown.DecodeDocument(bytes.NewReader(edited))
	if err != nil {
		return model.Document{}, err
	}
	if changed.ID != d.ID {
		return model.Document{}, fmt.Errorf("id changed from %d to %d; ids are assigned by folder", d.ID, changed.ID)
	}
	if !changed.HasTags() {
		return model.Document{}, fmt.Errorf("document %d needs at least one tag", d.ID)
	}
	changed.FilePath = d.FilePath
	return repo.Catalogue.Update(changed)
}

// confirmDelete asks before deleting what unless --force is set.
func confirmDelete(cmd *cobra.Command, what string) error {
	if force, _ := cmd.Flags().GetBool("force"); force {
		return nil
	}
	var confirm bool
	if err := huh.NewConfirm().Title("Delete " + what + "?").Value(&confirm).Run(); err != nil || !confirm {
		return fmt.Errorf("deletion cancelled")
	}
	return nil
}

func init() {
	docShowCmd.Flags().Bool("raw", false, "print the editable markdown form")
	docDeleteCmd.Flags().BoolP("force", "f", false, "skip confirmation")

	docCmd.AddCommand(docListCmd)
	docCmd.AddCommand(docShowCmd)
	docCmd.AddCommand(docEditCmd)
	docCmd.AddCommand(docDeleteCmd)
	docCmd.AddCommand(docOpenCmd)
	rootCmd.AddCommand(docCmd)
}
