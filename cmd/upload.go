package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rogersnm/doctag/internal/ingest"
	"github.com/rogersnm/doctag/internal/markdown"
	"github.com/rogersnm/doctag/internal/model"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Copy files into the archive with tags and a comment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := sourcePaths(args)
		if err != nil {
			return err
		}

		batch := ingest.NewBatch(repo.Catalogue, logger)
		batch.Stage(paths...)
		all := make([]int, batch.Len())
		for i := range all {
			all[i] = i
		}

		tagsFlag, _ := cmd.Flags().GetString("tags")
		tmpl, _ := cmd.Flags().GetString("template")
		tagText, err := combineTags(repo.Config.Config(), tmpl, tagsFlag)
		if err != nil {
			return err
		}
		batch.SetTags(all, tagText)

		if comment, _ := cmd.Flags().GetString("comment"); comment != "" {
			batch.SetComment(all, comment)
		}
		if name, _ := cmd.Flags().GetString("name"); name != "" {
			if batch.Len() != 1 {
				return fmt.Errorf("--name needs exactly one file, got %d", batch.Len())
			}
			batch.Rename(all, name)
		}

		if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
			if err := promptPending(batch); err != nil {
				return err
			}
		}

		summary, err := batch.Commit(func(done, total int) {
			logger.Debug("upload progress", "done", done, "total", total)
		})
		for _, d := range summary.Committed {
			fmt.Printf("Stored %s as document %d\n", d.FileName, d.ID)
		}
		if err != nil {
			var mt *ingest.MissingTagError
			if errors.As(err, &mt) {
				return fmt.Errorf("%s has no tags (use --tags, --template or -i)", batch.Pending()[mt.Index].FileName)
			}
			return err
		}
		return nil
	},
}

// sourcePaths resolves args to absolute paths of regular files.
func sourcePaths(args []string) ([]string, error) {
	paths := make([]string, 0, len(args))
	for _, a := range args {
		p, err := filepath.Abs(a)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", a, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", a)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// combineTags builds the tag line from an optional template followed by
// explicit tags.
func combineTags(cfg model.TagConfig, tmpl, tags string) (string, error) {
	text := ""
	if tmpl != "" {
		if !cfg.IsTemplate(tmpl) {
			return "", fmt.Errorf("template %q not found", tmpl)
		}
		text = cfg.Expand(text, tmpl)
	}
	for _, t := range model.SplitQuery(tags) {
		if !slices.Contains(model.SplitQuery(text), t) {
			text = model.TagConfig{}.Expand(text, t)
		}
	}
	return text, nil
}

// promptPending asks for tags, comment and name of every staged document.
func promptPending(batch *ingest.Batch) error {
	cfg := repo.Config.Config()
	for i, d := range batch.Pending() {
		var picked []string
		tagText := model.JoinTags(d.Tags)
		comment := d.Comment
		name := d.FileName

		fields := []huh.Field{
			huh.NewNote().Title(fmt.Sprintf("%d/%d  %s", i+1, batch.Len(), d.FilePath)),
		}
		if entries := cfg.Entries(); len(entries) > 0 {
			fields = append(fields, huh.NewMultiSelect[string]().
				Title("Insert tags or templates").
				Options(huh.NewOptions(entries...)...).
				Value(&picked))
		}
		fields = append(fields,
			huh.NewInput().Title("Tags").Description("separated by \""+model.Delimiter+"\"").Value(&tagText),
			huh.NewText().Title("Comment").Value(&comment),
			huh.NewInput().Title("Name").Value(&name).Validate(func(s string) error {
				return (&model.Document{FileName: s}).Validate()
			}),
		)
		if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
			return fmt.Errorf("upload cancelled")
		}

		for _, key := range picked {
			tagText = cfg.Expand(tagText, key)
		}
		batch.SetTags([]int{i}, tagText)
		batch.SetComment([]int{i}, strings.TrimSpace(comment))
		batch.Rename([]int{i}, strings.TrimSpace(name))
	}
	fmt.Println(markdown.RenderPendingTable(batch.Pending()))
	return nil
}

func init() {
	uploadCmd.Flags().StringP("tags", "t", "", "tags separated by \", \"")
	uploadCmd.Flags().StringP("template", "T", "", "tag template to apply before --tags")
	uploadCmd.Flags().StringP("comment", "c", "", "comment for every file")
	uploadCmd.Flags().StringP("name", "n", "", "stored name (single file only)")
	uploadCmd.Flags().BoolP("interactive", "i", false, "prompt for tags, comment and name per file")
	rootCmd.AddCommand(uploadCmd)
}
