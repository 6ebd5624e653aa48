package session

import (
	"github.com/rogersnm/doctag/internal/search"
)

// Event is a user action. Which events a screen accepts is decided in Handle.
type Event interface {
	event()
}

type (
	// Navigation, accepted on the main screen.
	GoUpload struct{}
	GoSearch struct{}
	GoEdit   struct{}
	// Back returns to the main screen, dropping the current screen's state.
	Back struct{}

	// SetInput replaces the entry line of the upload or search screen.
	SetInput struct{ Text string }
	// InsertEntry applies a picker entry to the entry line.
	InsertEntry struct{ Key string }

	Stage         struct{ Paths []string }
	RemovePending struct{ Indices []int }
	// ApplyTags sets the tags of the selected pending documents from the entry line.
	ApplyTags  struct{ Indices []int }
	SetComment struct {
		Indices []int
		Text    string
	}
	Rename struct {
		Index int
		Name  string
	}
	Commit struct{ Progress func(done, total int) }

	// Find runs the entry line as a query.
	Find struct {
		Field search.Field
		Mode  search.Mode
	}
	RemoveFound struct{ Indices []int }
	Export      struct {
		Dest         string
		SingleFolder bool
		Progress     func(done, total int)
	}

	AddTags       struct{ Text string }
	SetTemplates  struct{ Names, Tags string }
	DeleteEntries struct{ Names []string }
	// SaveConfig writes the draft and returns to the main screen.
	SaveConfig struct{}
)

func (GoUpload) event()      {}
func (GoSearch) event()      {}
func (GoEdit) event()        {}
func (Back) event()          {}
func (SetInput) event()      {}
func (InsertEntry) event()   {}
func (Stage) event()         {}
func (RemovePending) event() {}
func (ApplyTags) event()     {}
func (SetComment) event()    {}
func (Rename) event()        {}
func (Commit) event()        {}
func (Find) event()          {}
func (RemoveFound) event()   {}
func (Export) event()        {}
func (AddTags) event()       {}
func (SetTemplates) event()  {}
func (DeleteEntries) event() {}
func (SaveConfig) event()    {}
