package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rogersnm/doctag/internal/editor"
	"github.com/rogersnm/doctag/internal/markdown"
	"github.com/rogersnm/doctag/internal/store"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or replace the tag config (config.json)",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print config.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := repo.Config.Raw()
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the location of config.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(repo.Config.Path())
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit config.json in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := repo.Config.Raw()
		if err != nil {
			return err
		}
		edited, err := editor.Edit("doctag-config-*.json", data)
		if err != nil {
			return err
		}
		return saveRawConfig(edited)
	},
}

var configImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace config.json with the contents of a file or stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		return saveRawConfig(data)
	},
}

func saveRawConfig(data []byte) error {
	if err := repo.Config.SaveRaw(data); err != nil {
		var perr *store.ConfigParseError
		if errors.As(err, &perr) {
			fmt.Fprintln(os.Stderr, markdown.RenderWarning("config not saved, the previous config is unchanged"))
		}
		return err
	}
	cfg := repo.Config.Config()
	fmt.Printf("Saved config: %d tag(s), %d template(s)\n", len(cfg.DefaultTags), len(cfg.Templates))
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configImportCmd)
	rootCmd.AddCommand(configCmd)
}
