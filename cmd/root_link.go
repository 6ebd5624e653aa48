package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rogersnm/doctag/internal/config"
	"github.com/rogersnm/doctag/internal/repofile"
	"github.com/spf13/cobra"
)

var rootLinkCmd = &cobra.Command{
	Use:   "root",
	Short: "Choose which managed root commands use",
}

var rootShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the managed root in use and where it came from",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(repo.Layout.Root)
		switch {
		case settings.Root != "":
			fmt.Println("(from --root, DOCTAG_ROOT or " + config.FileName + ")")
		default:
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			if root, dir, _ := repofile.Find(cwd); root != "" {
				fmt.Printf("(from %s)\n", filepath.Join(dir, repofile.FileName))
			} else {
				fmt.Println("(default)")
			}
		}
		fmt.Printf("%d document(s), next id %d\n", repo.Catalogue.Len(), repo.Catalogue.NextDocID())
		return nil
	},
}

var rootLinkDirCmd = &cobra.Command{
	Use:   "link [path]",
	Short: "Link the current directory tree to a managed root",
	Long:  "Write " + repofile.FileName + " in the current directory. Without a path the root in use is linked.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := repo.Layout.Root
		if len(args) == 1 {
			abs, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			root = abs
		}
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		if err := repofile.Write(cwd, root); err != nil {
			return err
		}
		fmt.Printf("Linked %s to %s\n", repofile.FileName, root)
		return nil
	},
}

var rootUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Remove the link in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		linked, err := repofile.Read(cwd)
		if err != nil {
			return err
		}
		if linked == "" {
			fmt.Println("No root linked.")
			return nil
		}
		if err := repofile.Remove(cwd); err != nil {
			return err
		}
		fmt.Println("Unlinked root.")
		return nil
	},
}

var rootSetCmd = &cobra.Command{
	Use:   "set <path>",
	Short: "Save a default managed root in " + config.FileName,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		saved, err := config.Load(dataDir)
		if err != nil {
			return err
		}
		saved.Root = abs
		if err := config.Save(dataDir, saved); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Printf("Default root set to %s\n", abs)
		return nil
	},
}

func init() {
	rootLinkCmd.AddCommand(rootShowCmd)
	rootLinkCmd.AddCommand(rootLinkDirCmd)
	rootLinkCmd.AddCommand(rootUnlinkCmd)
	rootLinkCmd.AddCommand(rootSetCmd)
	rootCmd.AddCommand(rootLinkCmd)
}
