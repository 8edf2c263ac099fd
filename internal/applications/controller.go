package applications

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kikuna-park/backend/internal/models"
)

// EventFinder resolves an event by its public slug. A missing slug returns
// (nil, nil); errors are reserved for storage faults.
type EventFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Event, error)
}

// View names a template and carries its data bag. The controller only
// selects views and assembles data; HTTP handlers do the actual rendering.
type View struct {
	Name   string
	Status int
	Data   map[string]any
}

// Controller drives the application lifecycle for one request at a time:
// FORM (show, re-show on validation failure) → PREVIEW (valid confirm POST)
// → SUBMITTED (successful submit). The window gate runs again on every
// entry point; its result is never carried over from an earlier request.
type Controller struct {
	events   EventFinder
	drafts   DraftStore
	recorder *Recorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewController creates a lifecycle controller.
func NewController(events EventFinder, drafts DraftStore, recorder *Recorder, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{events: events, drafts: drafts, recorder: recorder, logger: logger, now: time.Now}
}

// ShowForm handles GET: render the form pre-filled from the session draft.
func (c *Controller) ShowForm(ctx context.Context, sessionID, slug string, kind Kind) (*View, error) {
	event, view, err := c.resolveOpenEvent(ctx, slug)
	if view != nil || err != nil {
		return view, err
	}
	draft, err := c.drafts.Get(ctx, sessionID, kind)
	if err != nil {
		c.logger.Warn("load draft failed", zap.Error(err), zap.String("session_id", sessionID))
		draft = Fields{}
	}
	return formView(event, kind, draft, nil), nil
}

// Confirm handles the form POST: validate and either re-render the form with
// the submitted values and errors, or store the draft and show the preview.
func (c *Controller) Confirm(ctx context.Context, sessionID, slug string, kind Kind, fields Fields) (*View, error) {
	event, view, err := c.resolveOpenEvent(ctx, slug)
	if view != nil || err != nil {
		return view, err
	}
	if errs := Validate(kind, fields); len(errs) > 0 {
		return formView(event, kind, fields, errs), nil
	}
	if err := c.drafts.Put(ctx, sessionID, kind, fields); err != nil {
		// The preview page re-posts every field, so losing the draft only
		// costs the fallback copy; keep going.
		c.logger.Warn("store draft failed", zap.Error(err), zap.String("session_id", sessionID))
	}
	return &View{
		Name:   "apply_confirm",
		Status: http.StatusOK,
		Data: map[string]any{
			"title":     event.Title + " - " + kind.Label() + "（確認）",
			"event":     event,
			"kind":      string(kind),
			"kindLabel": kind.Label(),
			"formData":  fields,
		},
	}, nil
}

// EditBack handles the preview's "edit" POST: back to the form pre-filled
// with whatever was just posted, which may differ from the stored draft.
func (c *Controller) EditBack(ctx context.Context, sessionID, slug string, kind Kind, fields Fields) (*View, error) {
	event, view, err := c.resolveOpenEvent(ctx, slug)
	if view != nil || err != nil {
		return view, err
	}
	return formView(event, kind, fields, nil), nil
}

// Submit handles the final POST. The gate runs one last time (reaching the
// preview earlier proves nothing about the window now), the draft — or the
// re-posted fields when no draft survives — is re-validated and recorded,
// and only after a successful write is the draft cleared. On a persistence
// failure the draft stays so the submitter's input is not lost.
func (c *Controller) Submit(ctx context.Context, sessionID, slug string, kind Kind, fields Fields) (*View, error) {
	event, view, err := c.resolveOpenEvent(ctx, slug)
	if view != nil || err != nil {
		return view, err
	}

	draft, err := c.drafts.Get(ctx, sessionID, kind)
	if err != nil {
		c.logger.Warn("load draft failed", zap.Error(err), zap.String("session_id", sessionID))
		draft = Fields{}
	}
	if len(draft) > 0 {
		fields = draft
	}

	if errs := Validate(kind, fields); len(errs) > 0 {
		return formView(event, kind, fields, errs), nil
	}

	app, err := c.recorder.Record(ctx, event, kind, fields)
	if err != nil {
		return nil, err
	}

	if err := c.drafts.Clear(ctx, sessionID, kind); err != nil {
		// The application is already persisted; an orphaned draft expires on
		// its own.
		c.logger.Warn("clear draft failed", zap.Error(err), zap.String("session_id", sessionID))
	}

	return &View{
		Name:   "apply_thanks",
		Status: http.StatusOK,
		Data: map[string]any{
			"title":       event.Title + " - " + kind.Label() + " 完了",
			"event":       event,
			"kind":        string(kind),
			"kindLabel":   kind.Label(),
			"application": app,
		},
	}, nil
}

// resolveOpenEvent looks the event up by slug and runs the gate. It returns
// either the open event, or the terminal view for the not-found and closed
// cases — which are distinct: a missing slug is a 404, while an existing
// event outside its window gets the closed page.
func (c *Controller) resolveOpenEvent(ctx context.Context, slug string) (*models.Event, *View, error) {
	event, err := c.events.FindBySlug(ctx, slug)
	if err != nil {
		return nil, nil, &PersistenceError{Err: err}
	}
	if event == nil {
		return nil, &View{
			Name:   "error",
			Status: http.StatusNotFound,
			Data: map[string]any{
				"title":   "イベントが見つかりません",
				"message": "指定されたイベントが見つかりません",
			},
		}, nil
	}
	now := c.now()
	if !IsAccepting(event, now) {
		data := map[string]any{
			"title": "申込受付終了",
			"event": event,
		}
		if NotYetOpen(event, now) {
			data["title"] = "申込準備中"
			data["opensAt"] = event.ApplicationStartDate.Format("2006年1月2日")
		}
		return nil, &View{Name: "apply_closed", Status: http.StatusOK, Data: data}, nil
	}
	return event, nil, nil
}

func formView(event *models.Event, kind Kind, fields Fields, errs []string) *View {
	if fields == nil {
		fields = Fields{}
	}
	if errs == nil {
		errs = []string{}
	}
	return &View{
		Name:   "apply_form",
		Status: http.StatusOK,
		Data: map[string]any{
			"title":     event.Title + " - " + kind.Label(),
			"event":     event,
			"kind":      string(kind),
			"kindLabel": kind.Label(),
			"formData":  fields,
			"errors":    errs,
		},
	}
}
