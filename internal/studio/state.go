package studio

// ViewMode is whether the screen is read-only or accepting edits.
type ViewMode int

const (
	Viewing ViewMode = iota
	Editing
)

func (m ViewMode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

// AsyncStatus tracks one in-flight operation.
type AsyncStatus int

const (
	Idle AsyncStatus = iota
	Loading
)

// Record is the last server-confirmed state of the studio. A zero ID means
// nothing has been loaded yet.
type Record struct {
	ID        string
	Name      string
	URL       string
	ImagePath string
}

// Loaded reports whether the record came from the server.
func (r Record) Loaded() bool {
	return r.ID != ""
}

// Draft holds unsaved edits. A nil field is "unset"; a nil PendingImage
// means the image is left alone on save.
type Draft struct {
	Name         *string
	URL          *string
	PendingImage *string
}

// Field names an editable text field.
type Field int

const (
	FieldName Field = iota
	FieldURL
)

// State is everything one view instance knows.
type State struct {
	Identity Identity
	Record   Record
	Draft    Draft
	// Preview is what the image pane shows: the pending image if one was
	// captured, otherwise the record's image reference.
	Preview string
	Mode    ViewMode

	Load    AsyncStatus
	Save    AsyncStatus
	Delete  AsyncStatus
	AutoTag AsyncStatus

	// LoadErr is set when the last fetch failed or came back empty.
	LoadErr error
}

// NewState is the initial state for the given route parameter. New studios
// start in edit mode.
func NewState(param string) State {
	id := ResolveIdentity(param)
	s := State{Identity: id, Mode: Viewing}
	if id.IsNew {
		s.Mode = Editing
	}
	return s
}

// Busy reports whether any operation is in flight. Mutating actions are
// disabled while busy.
func (s State) Busy() bool {
	return s.Load == Loading || s.Save == Loading || s.Delete == Loading
}

// CanSave reports whether a save may be issued now.
func (s State) CanSave() bool {
	return s.Mode == Editing && !s.Busy()
}

// CanDelete reports whether a delete may be issued now.
func (s State) CanDelete() bool {
	return !s.Identity.IsNew && !s.Busy()
}

// CanAutoTag reports whether an auto-tag request would be sent.
func (s State) CanAutoTag() bool {
	return s.Record.Loaded() && s.AutoTag != Loading
}

// DisplayName is the name shown on screen for the current mode.
func (s State) DisplayName() string {
	if s.Mode == Editing {
		return deref(s.Draft.Name)
	}
	return s.Record.Name
}

// DisplayURL is the URL shown on screen for the current mode.
func (s State) DisplayURL() string {
	if s.Mode == Editing {
		return deref(s.Draft.URL)
	}
	return s.Record.URL
}

// Dirty reports whether the draft differs from the record.
func (s State) Dirty() bool {
	if s.Mode != Editing {
		return false
	}
	seed := SeedDraft(s.Record)
	return deref(s.Draft.Name) != deref(seed.Name) ||
		deref(s.Draft.URL) != deref(seed.URL) ||
		s.Draft.PendingImage != nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ptr(v string) *string {
	return &v
}
