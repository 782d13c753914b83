package studio

import "github.com/gravitrone/studio-cli/internal/api"

// Payload is the request body shared by create, update and delete. ID is
// only present for studios that already exist.
type Payload struct {
	ID    *string
	Name  *string
	URL   *string
	Image *string
}

// BuildPayload derives the request body from the draft and identity.
func BuildPayload(s State) Payload {
	p := Payload{
		Name:  copyPtr(s.Draft.Name),
		URL:   copyPtr(s.Draft.URL),
		Image: copyPtr(s.Draft.PendingImage),
	}
	if !s.Identity.IsNew {
		p.ID = ptr(s.Identity.ID)
	}
	return p
}

func (p Payload) CreateInput() api.StudioCreateInput {
	return api.StudioCreateInput{
		Name:  deref(p.Name),
		URL:   copyPtr(p.URL),
		Image: copyPtr(p.Image),
	}
}

func (p Payload) UpdateInput() api.StudioUpdateInput {
	return api.StudioUpdateInput{
		ID:    deref(p.ID),
		Name:  copyPtr(p.Name),
		URL:   copyPtr(p.URL),
		Image: copyPtr(p.Image),
	}
}

func (p Payload) DestroyInput() api.StudioDestroyInput {
	return api.StudioDestroyInput{ID: deref(p.ID)}
}

// RecordFromAPI converts a server studio into a Record.
func RecordFromAPI(s *api.Studio) Record {
	if s == nil {
		return Record{}
	}
	return Record{
		ID:        s.ID,
		Name:      s.Name,
		URL:       s.URL,
		ImagePath: s.ImagePath,
	}
}

func copyPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
