package cmd

import (
	"fmt"

	"github.com/rogersnm/doctag/internal/markdown"
	"github.com/rogersnm/doctag/internal/model"
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"templates"},
	Short:   "Manage named tag templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates and their tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(markdown.RenderTemplateTable(repo.Config.Config()))
		return nil
	},
}

var templateSetCmd = &cobra.Command{
	Use:   "set <names> <tags>",
	Short: "Give one or more templates the same tag list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := repo.Config.Config()
		if err := cfg.SetTemplates(args[0], args[1]); err != nil {
			return err
		}
		if err := repo.Config.Save(cfg); err != nil {
			return err
		}
		names := model.SplitQuery(args[0])
		fmt.Printf("Set %d template(s): %s\n", len(names), model.JoinTags(cfg.Templates[names[0]]))
		return nil
	},
}

var templateRemoveCmd = &cobra.Command{
	Use:   "remove <names>...",
	Short: "Remove templates",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := repo.Config.Config()
		var names []string
		for _, n := range model.SplitQuery(joinArgs(args)) {
			if cfg.IsTemplate(n) {
				names = append(names, n)
			}
		}
		if len(names) == 0 {
			return fmt.Errorf("no matching templates")
		}
		for _, n := range names {
			delete(cfg.Templates, n)
		}
		if err := repo.Config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Removed %d template(s)\n", len(names))
		return nil
	},
}

var templateExpandCmd = &cobra.Command{
	Use:   "expand <name> [current tags]",
	Short: "Print the tag line a picker entry produces",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := repo.Config.Config()
		current := ""
		if len(args) == 2 {
			current = model.Simplify(args[1])
		}
		if !cfg.IsTemplate(args[0]) && !containsTag(cfg, args[0]) {
			return fmt.Errorf("%q is neither a tag nor a template", args[0])
		}
		fmt.Println(cfg.Expand(current, args[0]))
		return nil
	},
}

func containsTag(cfg model.TagConfig, tag string) bool {
	for _, t := range cfg.DefaultTags {
		if t == tag {
			return true
		}
	}
	return false
}

func init() {
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateSetCmd)
	templateCmd.AddCommand(templateRemoveCmd)
	templateCmd.AddCommand(templateExpandCmd)
	rootCmd.AddCommand(templateCmd)
}
