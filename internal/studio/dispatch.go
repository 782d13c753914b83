package studio

import (
	"context"
	"log/slog"

	"github.com/gravitrone/studio-cli/internal/api"
	"github.com/gravitrone/studio-cli/internal/logging"
)

// Remote is the slice of the API client the editor needs.
type Remote interface {
	FindStudio(ctx context.Context, id string) (*api.Studio, error)
	CreateStudio(ctx context.Context, input api.StudioCreateInput) (*api.Studio, error)
	UpdateStudio(ctx context.Context, input api.StudioUpdateInput) (*api.Studio, error)
	DestroyStudio(ctx context.Context, input api.StudioDestroyInput) error
	AutoTag(ctx context.Context, input api.AutoTagInput) (*api.JobStarted, error)
}

// ImageRefresher re-downloads a studio image past any cached copy.
type ImageRefresher interface {
	Refresh(ctx context.Context, studioID string) error
}

// Notice is a user-facing message produced by an operation. Exactly one of
// Success and Err is set.
type Notice struct {
	Success string
	Err     error
}

// Outcome is what an operation produced: the action to reduce, an optional
// route to move to, and an optional notice.
type Outcome struct {
	Action   Action
	Navigate string
	Notice   *Notice
}

// Options tunes dispatcher behaviour.
type Options struct {
	// NavigateOnDeleteFailure keeps the historical behaviour of leaving the
	// detail page even when the delete was rejected.
	NavigateOnDeleteFailure bool
}

// DefaultOptions matches the historical behaviour.
func DefaultOptions() Options {
	return Options{NavigateOnDeleteFailure: true}
}

// Dispatcher runs the remote side of each operation. Methods block; callers
// run them off the UI loop.
type Dispatcher struct {
	remote Remote
	images ImageRefresher
	opts   Options
	logger *slog.Logger
}

// NewDispatcher wires a dispatcher. images may be nil.
func NewDispatcher(remote Remote, images ImageRefresher, opts Options, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		remote: remote,
		images: images,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "studio"),
	}
}

// Load fetches the record. New studios are never fetched and yield an empty
// outcome.
func (d *Dispatcher) Load(ctx context.Context, id Identity) Outcome {
	if id.IsNew {
		return Outcome{}
	}
	studio, err := d.remote.FindStudio(ctx, id.ID)
	if err != nil {
		d.logger.Warn("studio load failed", slog.String("studio_id", id.ID), slog.Any("error", err))
		return Outcome{Action: LoadFailed{Err: err}}
	}
	if studio == nil || studio.ID == "" {
		return Outcome{Action: LoadFailed{Err: ErrNotFound}}
	}
	return Outcome{Action: LoadSucceeded{Record: RecordFromAPI(studio)}}
}

// Save creates or updates the studio from the current draft.
func (d *Dispatcher) Save(ctx context.Context, s State) Outcome {
	payload := BuildPayload(s)
	if s.Identity.IsNew {
		return d.create(ctx, payload)
	}
	return d.update(ctx, s.Identity, payload)
}

func (d *Dispatcher) create(ctx context.Context, payload Payload) Outcome {
	created, err := d.remote.CreateStudio(ctx, payload.CreateInput())
	if err != nil {
		d.logger.Warn("studio create failed", slog.Any("error", err))
		return Outcome{Action: SaveFailed{Err: err}, Notice: &Notice{Err: err}}
	}
	rec := RecordFromAPI(created)
	d.logger.Info("studio created", slog.String("studio_id", rec.ID))
	return Outcome{
		Action:   SaveSucceeded{Record: rec},
		Navigate: DetailPath(rec.ID),
		Notice:   &Notice{Success: "Studio created."},
	}
}

func (d *Dispatcher) update(ctx context.Context, id Identity, payload Payload) Outcome {
	updated, err := d.remote.UpdateStudio(ctx, payload.UpdateInput())
	if err != nil {
		d.logger.Warn("studio update failed", slog.String("studio_id", id.ID), slog.Any("error", err))
		return Outcome{Action: SaveFailed{Err: err}, Notice: &Notice{Err: err}}
	}
	rec := RecordFromAPI(updated)
	if payload.Image != nil && d.images != nil {
		// The server keeps the same image URL, so anything cached under it
		// is stale now.
		if err := d.images.Refresh(ctx, rec.ID); err != nil {
			d.logger.Warn("studio image refresh failed", slog.String("studio_id", rec.ID), slog.Any("error", err))
		}
	}
	d.logger.Info("studio updated", slog.String("studio_id", rec.ID), slog.Bool("image_changed", payload.Image != nil))
	return Outcome{
		Action: SaveSucceeded{Record: rec},
		Notice: &Notice{Success: "Studio updated."},
	}
}

// Delete destroys the studio and routes back to the list.
func (d *Dispatcher) Delete(ctx context.Context, s State) Outcome {
	err := d.remote.DestroyStudio(ctx, BuildPayload(s).DestroyInput())
	out := Outcome{Action: DeleteFinished{Err: err}, Navigate: ListPath}
	if err != nil {
		d.logger.Warn("studio delete failed", slog.String("studio_id", s.Identity.ID), slog.Any("error", err))
		out.Notice = &Notice{Err: err}
		if !d.opts.NavigateOnDeleteFailure {
			out.Navigate = ""
		}
		return out
	}
	d.logger.Info("studio deleted", slog.String("studio_id", s.Identity.ID))
	out.Notice = &Notice{Success: "Studio deleted."}
	return out
}

// AutoTag queues an auto-tag job for a persisted studio. Studios without an
// id issue nothing.
func (d *Dispatcher) AutoTag(ctx context.Context, s State) Outcome {
	if !s.Record.Loaded() {
		return Outcome{}
	}
	if _, err := d.remote.AutoTag(ctx, api.AutoTagInput{Studios: []string{s.Record.ID}}); err != nil {
		d.logger.Warn("auto tag failed", slog.String("studio_id", s.Record.ID), slog.Any("error", err))
		return Outcome{Action: AutoTagFinished{Err: err}, Notice: &Notice{Err: err}}
	}
	return Outcome{
		Action: AutoTagFinished{},
		Notice: &Notice{Success: "Started auto tagging"},
	}
}
