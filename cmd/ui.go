package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/rogersnm/doctag/internal/markdown"
	"github.com/rogersnm/doctag/internal/model"
	"github.com/rogersnm/doctag/internal/search"
	"github.com/rogersnm/doctag/internal/session"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Upload, search and edit tags interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := session.New(repo, logger)
		for {
			ev, err := promptScreen(s)
			if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				return err
			}
			if ev == nil {
				continue
			}
			if err := s.Handle(ev); err != nil {
				fmt.Fprintln(os.Stderr, markdown.RenderWarning(err.Error()))
			}
		}
	},
}

var errQuit = errors.New("quit")

// promptScreen shows the active screen and returns the chosen event.
func promptScreen(s *session.Session) (session.Event, error) {
	switch sc := s.Screen().(type) {
	case *session.MainScreen:
		return promptMain()
	case *session.UploadScreen:
		return promptUpload(sc)
	case *session.SearchScreen:
		return promptSearch(sc)
	case *session.EditScreen:
		return promptEdit(sc)
	}
	return nil, fmt.Errorf("unknown screen %T", s.Screen())
}

func choose(title string, options ...string) (string, error) {
	var choice string
	err := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&choice).
		Run()
	return choice, err
}

func ask(title, value string) (string, error) {
	err := huh.NewInput().Title(title).Value(&value).Run()
	return value, err
}

// pick asks for a subset of docs and returns their indices.
func pick(title string, docs []model.Document) ([]int, error) {
	opts := make([]huh.Option[int], len(docs))
	for i, d := range docs {
		opts[i] = huh.NewOption(fmt.Sprintf("%d  %s  [%s]", i+1, d.FileName, model.JoinTags(d.Tags)), i)
	}
	var picked []int
	err := huh.NewMultiSelect[int]().Title(title).Options(opts...).Value(&picked).Run()
	return picked, err
}

func promptMain() (session.Event, error) {
	choice, err := choose("doctag "+repo.Layout.Root, "Upload", "Search", "Edit tags", "Quit")
	if err != nil {
		return nil, err
	}
	switch choice {
	case "Upload":
		return session.GoUpload{}, nil
	case "Search":
		return session.GoSearch{}, nil
	case "Edit tags":
		return session.GoEdit{}, nil
	}
	return nil, errQuit
}

func promptUpload(sc *session.UploadScreen) (session.Event, error) {
	fmt.Println(markdown.RenderPendingTable(sc.Batch.Pending()))
	fmt.Println(markdown.RenderField("Tags", sc.Input))
	choice, err := choose("Upload",
		"Add files", "Insert tag or template", "Edit tag line", "Apply tags",
		"Set comment", "Rename", "Remove", "Upload", "Back")
	if err != nil {
		return nil, err
	}
	switch choice {
	case "Add files":
		text, err := ask("Paths (separated by \""+model.Delimiter+"\")", "")
		if err != nil {
			return nil, err
		}
		paths, err := sourcePaths(model.SplitPaths(text))
		if err != nil {
			fmt.Fprintln(os.Stderr, markdown.RenderWarning(err.Error()))
			return nil, nil
		}
		return session.Stage{Paths: paths}, nil
	case "Insert tag or template":
		return promptInsert(sc.Entries)
	case "Edit tag line":
		text, err := ask("Tags", sc.Input)
		return session.SetInput{Text: text}, err
	case "Apply tags":
		picked, err := pick("Apply \""+sc.Input+"\" to", sc.Batch.Pending())
		return session.ApplyTags{Indices: picked}, err
	case "Set comment":
		picked, err := pick("Comment on", sc.Batch.Pending())
		if err != nil {
			return nil, err
		}
		var text string
		if err := huh.NewText().Title("Comment").Value(&text).Run(); err != nil {
			return nil, err
		}
		return session.SetComment{Indices: picked, Text: text}, nil
	case "Rename":
		pending := sc.Batch.Pending()
		if len(pending) == 0 {
			return nil, nil
		}
		opts := make([]string, len(pending))
		for i, d := range pending {
			opts[i] = strconv.Itoa(i+1) + "  " + d.FileName
		}
		which, err := choose("Rename", opts...)
		if err != nil {
			return nil, err
		}
		i := indexOf(opts, which)
		name, err := ask("Name", pending[i].FileName)
		return session.Rename{Index: i, Name: name}, err
	case "Remove":
		picked, err := pick("Remove from list", sc.Batch.Pending())
		return session.RemovePending{Indices: picked}, err
	case "Upload":
		return session.Commit{Progress: func(done, total int) {
			fmt.Printf("Stored %d/%d\n", done, total)
		}}, nil
	}
	return session.Back{}, nil
}

func promptInsert(entries []string) (session.Event, error) {
	if len(entries) == 0 {
		fmt.Println("No tags or templates defined.")
		return nil, nil
	}
	key, err := choose("Insert", entries...)
	return session.InsertEntry{Key: key}, err
}

func promptSearch(sc *session.SearchScreen) (session.Event, error) {
	fmt.Println(markdown.RenderDocumentTable(sc.Found))
	fmt.Println(markdown.RenderField("Query", sc.Input))
	choice, err := choose("Search",
		"Edit query", "Insert tag or template", "Find any tag", "Find all tags",
		"Find in comments", "Find in names", "Remove from results", "Save as zip", "Back")
	if err != nil {
		return nil, err
	}
	switch choice {
	case "Edit query":
		text, err := ask("Query", sc.Input)
		return session.SetInput{Text: text}, err
	case "Insert tag or template":
		return promptInsert(sc.Entries)
	case "Find any tag":
		return session.Find{Field: search.Tags, Mode: search.Any}, nil
	case "Find all tags":
		return session.Find{Field: search.Tags, Mode: search.All}, nil
	case "Find in comments":
		return session.Find{Field: search.Comment}, nil
	case "Find in names":
		return session.Find{Field: search.Name}, nil
	case "Remove from results":
		picked, err := pick("Remove from results", sc.Found)
		return session.RemoveFound{Indices: picked}, err
	case "Save as zip":
		dest, err := ask("Archive path", "documents.zip")
		if err != nil {
			return nil, err
		}
		single := settings.SingleFolder
		if err := huh.NewConfirm().Title("Put all files in one folder?").Value(&single).Run(); err != nil {
			return nil, err
		}
		return session.Export{Dest: dest, SingleFolder: single}, nil
	}
	return session.Back{}, nil
}

func promptEdit(sc *session.EditScreen) (session.Event, error) {
	fmt.Println(markdown.RenderTagTable(sc.Draft))
	fmt.Println(markdown.RenderTemplateTable(sc.Draft))
	choice, err := choose("Edit tags", "Add tags", "Set templates", "Delete", "OK", "Cancel")
	if err != nil {
		return nil, err
	}
	switch choice {
	case "Add tags":
		text, err := ask("Tags", "")
		return session.AddTags{Text: text}, err
	case "Set templates":
		var names, tags string
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Template names").Value(&names),
			huh.NewInput().Title("Tags").Value(&tags),
		)).Run()
		return session.SetTemplates{Names: names, Tags: tags}, err
	case "Delete":
		entries := sc.Draft.Entries()
		if len(entries) == 0 {
			return nil, nil
		}
		var picked []string
		err := huh.NewMultiSelect[string]().
			Title("Delete tags and templates").
			Options(huh.NewOptions(entries...)...).
			Value(&picked).
			Run()
		return session.DeleteEntries{Names: picked}, err
	case "OK":
		return session.SaveConfig{}, nil
	}
	return session.Back{}, nil
}

func indexOf(opts []string, s string) int {
	for i, o := range opts {
		if o == s {
			return i
		}
	}
	return 0
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
