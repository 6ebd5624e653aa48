package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rogersnm/doctag/internal/archive"
	"github.com/rogersnm/doctag/internal/ingest"
	"github.com/rogersnm/doctag/internal/search"
	"github.com/rogersnm/doctag/internal/store"
)

var (
	// ErrUnexpectedEvent is returned for an event the active screen does not accept.
	ErrUnexpectedEvent = errors.New("event not accepted on this screen")
	// ErrNothingToExport is returned when exporting an empty result list.
	ErrNothingToExport = errors.New("no files to save")
)

// Session owns the active screen of one interactive run over a repository.
type Session struct {
	repo   *store.Repository
	log    *slog.Logger
	screen Screen
}

func New(repo *store.Repository, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{repo: repo, log: logger, screen: &MainScreen{}}
}

// Screen returns the active screen.
func (s *Session) Screen() Screen {
	return s.screen
}

// Handle applies ev to the active screen. A failed event leaves the screen
// where it was.
func (s *Session) Handle(ev Event) error {
	var err error
	switch sc := s.screen.(type) {
	case *MainScreen:
		err = s.handleMain(ev)
	case *UploadScreen:
		err = s.handleUpload(sc, ev)
	case *SearchScreen:
		err = s.handleSearch(sc, ev)
	case *EditScreen:
		err = s.handleEdit(sc, ev)
	default:
		err = fmt.Errorf("unknown screen %T", sc)
	}
	if err != nil {
		s.log.Debug("event failed", "screen", s.screen.Name(), "event", fmt.Sprintf("%T", ev), "error", err)
	}
	return err
}

func (s *Session) unexpected(ev Event) error {
	return fmt.Errorf("%w: %T on %s", ErrUnexpectedEvent, ev, s.screen.Name())
}

func (s *Session) handleMain(ev Event) error {
	switch ev.(type) {
	case GoUpload:
		s.screen = &UploadScreen{
			Batch:   ingest.NewBatch(s.repo.Catalogue, s.log),
			Entries: s.repo.Config.Config().Entries(),
		}
	case GoSearch:
		s.screen = &SearchScreen{Entries: s.repo.Config.Config().Entries()}
	case GoEdit:
		s.screen = &EditScreen{Draft: s.repo.Config.Config()}
	case Back:
	default:
		return s.unexpected(ev)
	}
	return nil
}

func (s *Session) handleUpload(sc *UploadScreen, ev Event) error {
	switch ev := ev.(type) {
	case Back:
		s.screen = &MainScreen{}
	case SetInput:
		sc.Input = ev.Text
	case InsertEntry:
		sc.Input = s.repo.Config.Config().Expand(sc.Input, ev.Key)
	case Stage:
		sc.Batch.Stage(ev.Paths...)
	case RemovePending:
		sc.Batch.Remove(ev.Indices)
	case ApplyTags:
		sc.Batch.SetTags(ev.Indices, sc.Input)
	case SetComment:
		sc.Batch.SetComment(ev.Indices, ev.Text)
	case Rename:
		sc.Batch.Rename([]int{ev.Index}, ev.Name)
	case Commit:
		summary, err := sc.Batch.Commit(ev.Progress)
		sc.LastCommit = summary
		if err != nil {
			return err
		}
		s.log.Info("upload committed", "documents", len(summary.Committed))
	default:
		return s.unexpected(ev)
	}
	return nil
}

func (s *Session) handleSearch(sc *SearchScreen, ev Event) error {
	switch ev := ev.(type) {
	case Back:
		s.screen = &MainScreen{}
	case SetInput:
		sc.Input = ev.Text
	case InsertEntry:
		sc.Input = s.repo.Config.Config().Expand(sc.Input, ev.Key)
	case Find:
		sc.Field, sc.Mode = ev.Field, ev.Mode
		sc.Found = search.Run(s.repo.Catalogue.Documents(), search.Query{
			Text:  sc.Input,
			Field: ev.Field,
			Mode:  ev.Mode,
		})
	case RemoveFound:
		drop := make(map[int]bool, len(ev.Indices))
		for _, i := range ev.Indices {
			drop[i] = true
		}
		kept := sc.Found[:0]
		for i, d := range sc.Found {
			if !drop[i] {
				kept = append(kept, d)
			}
		}
		sc.Found = kept
	case Export:
		if len(sc.Found) == 0 {
			return ErrNothingToExport
		}
		res, err := archive.Export(sc.Found, ev.Dest, archive.Options{
			SingleFolder: ev.SingleFolder,
			Progress:     ev.Progress,
			Logger:       s.log,
		})
		if err != nil {
			return err
		}
		sc.LastExport = res.Path
	default:
		return s.unexpected(ev)
	}
	return nil
}

func (s *Session) handleEdit(sc *EditScreen, ev Event) error {
	switch ev := ev.(type) {
	case Back:
		s.screen = &MainScreen{}
	case AddTags:
		_, err := sc.Draft.AddTags(ev.Text)
		return err
	case SetTemplates:
		return sc.Draft.SetTemplates(ev.Names, ev.Tags)
	case DeleteEntries:
		sc.Draft.Remove(ev.Names...)
	case SaveConfig:
		if err := s.repo.Config.Save(sc.Draft); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		s.screen = &MainScreen{}
	default:
		return s.unexpected(ev)
	}
	return nil
}
