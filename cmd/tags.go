package cmd

import (
	"fmt"
	"strings"

	"github.com/rogersnm/doctag/internal/markdown"
	"github.com/rogersnm/doctag/internal/model"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage the default tag list",
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List default tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(markdown.RenderTagTable(repo.Config.Config()))
		return nil
	},
}

var tagsAddCmd = &cobra.Command{
	Use:   "add <tags>...",
	Short: "Add default tags",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := repo.Config.Config()
		added, err := cfg.AddTags(joinArgs(args))
		if err != nil {
			return err
		}
		if err := repo.Config.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d tag(s)\n", added)
		return nil
	},
}

var tagsRemoveCmd = &cobra.Command{
	Use:   "remove <tags>...",
	Short: "Remove default tags",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := repo.Config.Config()
		removed := cfg.RemoveTags(model.SplitQuery(joinArgs(args))...)
		if removed == 0 {
			return fmt.Errorf("no matching tags")
		}
		if err := repo.Config.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d tag(s)\n", removed)
		return nil
	},
}

// joinArgs treats separate arguments like one delimited list.
func joinArgs(args []string) string {
	return strings.Join(args, model.Delimiter)
}

func init() {
	tagsCmd.AddCommand(tagsListCmd)
	tagsCmd.AddCommand(tagsAddCmd)
	tagsCmd.AddCommand(tagsRemoveCmd)
	rootCmd.AddCommand(tagsCmd)
}
