package studio

import "errors"

// ErrNotFound is the load error for a fetch that returned no record.
var ErrNotFound = errors.New("studio not found")

// Action is a state transition input for Reduce.
type Action interface {
	isAction()
}

type (
	LoadStarted   struct{}
	LoadSucceeded struct{ Record Record }
	LoadFailed    struct{ Err error }

	// EditToggled flips between viewing and editing.
	EditToggled struct{}

	FieldChanged struct {
		Field Field
		Value string
	}

	// ImageCaptured carries a data URL from paste, file pick or drop folder.
	ImageCaptured struct{ DataURL string }

	SaveStarted   struct{}
	SaveSucceeded struct{ Record Record }
	SaveFailed    struct{ Err error }

	DeleteStarted  struct{}
	DeleteFinished struct{ Err error }

	AutoTagStarted  struct{}
	AutoTagFinished struct{ Err error }
)

func (LoadStarted) isAction()     {}
func (LoadSucceeded) isAction()   {}
func (LoadFailed) isAction()      {}
func (EditToggled) isAction()     {}
func (FieldChanged) isAction()    {}
func (ImageCaptured) isAction()   {}
func (SaveStarted) isAction()     {}
func (SaveSucceeded) isAction()   {}
func (SaveFailed) isAction()      {}
func (DeleteStarted) isAction()   {}
func (DeleteFinished) isAction()  {}
func (AutoTagStarted) isAction()  {}
func (AutoTagFinished) isAction() {}

// Reduce applies one action. It is pure: the input state is not modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoadStarted:
		if s.Identity.IsNew {
			return s
		}
		s.Load = Loading
	case LoadSucceeded:
		s.Load = Idle
		if !a.Record.Loaded() {
			s.LoadErr = ErrNotFound
			return s
		}
		s.LoadErr = nil
		s = Sync(s, a.Record)
	case LoadFailed:
		// A failed refresh keeps whatever record we already had.
		s.Load = Idle
		s.LoadErr = a.Err
		if s.LoadErr == nil {
			s.LoadErr = ErrNotFound
		}

	case EditToggled:
		if s.Identity.IsNew || s.Busy() {
			return s
		}
		if s.Mode == Editing {
			s.Mode = Viewing
			s.Draft = SeedDraft(s.Record)
			s.Preview = s.Record.ImagePath
		} else {
			s.Mode = Editing
			s.Draft = SeedDraft(s.Record)
		}
	case FieldChanged:
		if s.Mode != Editing {
			return s
		}
		switch a.Field {
		case FieldName:
			s.Draft.Name = ptr(a.Value)
		case FieldURL:
			s.Draft.URL = ptr(a.Value)
		}
	case ImageCaptured:
		// Viewing always shows the saved record, so a capture needs edit mode.
		if s.Mode != Editing || a.DataURL == "" {
			return s
		}
		s.Draft.PendingImage = ptr(a.DataURL)
		s.Preview = a.DataURL

	case SaveStarted:
		s.Save = Loading
	case SaveSucceeded:
		s.Save = Idle
		s = Sync(s, a.Record)
	case SaveFailed:
		s.Save = Idle

	case DeleteStarted:
		s.Delete = Loading
	case DeleteFinished:
		s.Delete = Idle

	case AutoTagStarted:
		s.AutoTag = Loading
	case AutoTagFinished:
		s.AutoTag = Idle
	}
	return s
}

// Sync replaces the record and re-derives everything that depends on it.
// Draft edits never survive this. Existing studios drop back to viewing;
// new ones stay editable until they have been created.
func Sync(s State, r Record) State {
	s.Record = r
	s.Preview = r.ImagePath
	s.Draft = SeedDraft(r)
	if !s.Identity.IsNew {
		s.Mode = Viewing
	}
	return s
}

// SeedDraft copies the record's editable fields into a fresh draft. An
// unloaded record seeds an empty draft.
func SeedDraft(r Record) Draft {
	if !r.Loaded() {
		return Draft{}
	}
	return Draft{
		Name: ptr(r.Name),
		URL:  ptr(r.URL),
	}
}
