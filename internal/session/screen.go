// Package session is the headless state behind the interactive front-end.
// Exactly one Screen is active at a time and every user action reaches it
// through Session.Handle.
package session

import (
	"github.com/rogersnm/doctag/internal/ingest"
	"github.com/rogersnm/doctag/internal/model"
	"github.com/rogersnm/doctag/internal/search"
)

// Screen is one of *MainScreen, *UploadScreen, *SearchScreen or *EditScreen.
type Screen interface {
	Name() string
	screen()
}

// MainScreen is the menu. It holds no state.
type MainScreen struct{}

func (*MainScreen) Name() string { return "main" }
func (*MainScreen) screen()      {}

// UploadScreen stages files and assigns their metadata before a commit.
type UploadScreen struct {
	Batch *ingest.Batch
	// Input is the tag line the picker entries are inserted into.
	Input string
	// Entries are the default tags followed by template names.
	Entries    []string
	LastCommit ingest.CommitSummary
}

func (*UploadScreen) Name() string { return "upload" }
func (*UploadScreen) screen()      {}

// SearchScreen holds the query line and the documents it last found.
type SearchScreen struct {
	Input      string
	Entries    []string
	Field      search.Field
	Mode       search.Mode
	Found      []model.Document
	LastExport string
}

func (*SearchScreen) Name() string { return "search" }
func (*SearchScreen) screen()      {}

// EditScreen buffers changes to the tag config until OK.
type EditScreen struct {
	Draft model.TagConfig
}

func (*EditScreen) Name() string { return "edit" }
func (*EditScreen) screen()      {}
