package api

import "time"

// --- API Response Envelope ---

type apiResponse[T any] struct {
	Data  T       `json:"data"`
	Error *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// QueryParams is a set of optional query-string filters; empty values are dropped.
type QueryParams map[string]string

// --- Studio ---

// Studio is the server-side representation of a studio record.
type Studio struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url,omitempty"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// StudioCreateInput defines the fields accepted when creating a studio.
// Image is a data URL; nil leaves the server default in place.
type StudioCreateInput struct {
	Name  string  `json:"name"`
	URL   *string `json:"url,omitempty"`
	Image *string `json:"image,omitempty"`
}

// StudioUpdateInput defines the fields for updating an existing studio.
// A nil Image means "no change".
type StudioUpdateInput struct {
	ID    string  `json:"id"`
	Name  *string `json:"name,omitempty"`
	URL   *string `json:"url,omitempty"`
	Image *string `json:"image,omitempty"`
}

// StudioDestroyInput identifies the studio to delete.
type StudioDestroyInput struct {
	ID string `json:"id"`
}

// AutoTagInput selects what the auto-tag job should scan.
type AutoTagInput struct {
	Studios []string `json:"studios,omitempty"`
}

// JobStarted is returned when the server queues a background job.
type JobStarted struct {
	JobID string `json:"job_id"`
}

// Image is a studio image as served by the image endpoint.
type Image struct {
	StudioID    string
	ContentType string
	Data        []byte
	FetchedAt   time.Time
}
