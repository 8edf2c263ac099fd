package applications

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kikuna-park/backend/internal/models"
)

type fakeEventFinder struct {
	events map[string]*models.Event
}

func (f *fakeEventFinder) FindBySlug(ctx context.Context, slug string) (*models.Event, error) {
	return f.events[slug], nil
}

type testFlow struct {
	controller *Controller
	drafts     *MemoryDraftStore
	store      *fakeApplicationStore
	event      *models.Event
}

func newTestFlow(t *testing.T) *testFlow {
	t.Helper()
	event := &models.Event{
		ID:       uuid.New(),
		Title:    "Fall Fest",
		Slug:     "fall-fest",
		IsPublic: true,
		Status:   models.EventStatusOpen,
	}
	store := &fakeApplicationStore{}
	drafts := NewMemoryDraftStore()
	finder := &fakeEventFinder{events: map[string]*models.Event{event.Slug: event}}
	controller := NewController(finder, drafts, NewRecorder(store), nil)
	return &testFlow{controller: controller, drafts: drafts, store: store, event: event}
}

func TestConfirmValidFieldsReachesPreview(t *testing.T) {
	flow := newTestFlow(t)
	ctx := context.Background()

	fields := Fields{
		"groupName":      "Taiko Club",
		"representative": "Taro",
		"email":          "taro@example.com",
		"phone":          "090-1111-2222",
		"performance":    "Drumming",
		"privacyConsent": "on",
	}
	view, err := flow.controller.Confirm(ctx, "sid-1", "fall-fest", KindPerformer, fields)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if view.Name != "apply_confirm" {
		t.Errorf("view = %q, want apply_confirm", view.Name)
	}

	draft, _ := flow.drafts.Get(ctx, "sid-1", KindPerformer)
	if draft["groupName"] != "Taiko Club" {
		t.Errorf("draft not stored on confirm: %v", draft)
	}
}

func TestConfirmMissingEmailStaysOnForm(t *testing.T) {
	flow := newTestFlow(t)

	fields := Fields{
		"groupName":      "Taiko Club",
		"representative": "Taro",
		"phone":          "090-1111-2222",
		"performance":    "Drumming",
		"privacyConsent": "on",
	}
	view, err := flow.controller.Confirm(context.Background(), "sid-1", "fall-fest", KindPerformer, fields)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if view.Name != "apply_form" {
		t.Errorf("view = %q, want apply_form", view.Name)
	}
	errs := view.Data["errors"].([]string)
	if !containsSubstring(errs, "メールアドレス") {
		t.Errorf("errors %v do not mention the missing email", errs)
	}
	// The user's submitted values come back, not a stale draft.
	formData := view.Data["formData"].(Fields)
	if formData["groupName"] != "Taiko Club" {
		t.Errorf("formData = %v, want the submitted values", formData)
	}
}

func TestConfirmRerendersSubmittedFieldsNotDraft(t *testing.T) {
	flow := newTestFlow(t)
	ctx := context.Background()
	_ = flow.drafts.Put(ctx, "sid-1", KindPerformer, Fields{"groupName": "Old Draft"})

	view, err := flow.controller.Confirm(ctx, "sid-1", "fall-fest", KindPerformer, Fields{"groupName": "New Input"})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	formData := view.Data["formData"].(Fields)
	if formData["groupName"] != "New Input" {
		t.Errorf("formData shows %q, want the just-submitted value", formData["groupName"])
	}
}

func TestShowFormBeforeWindowOpensIsClosedNotMissing(t *testing.T) {
	flow := newTestFlow(t)
	tomorrow := time.Now().Add(24 * time.Hour)
	flow.event.ApplicationStartDate = &tomorrow

	view, err := flow.controller.ShowForm(context.Background(), "sid-1", "fall-fest", KindPerformer)
	if err != nil {
		t.Fatalf("ShowForm: %v", err)
	}
	if view.Name != "apply_closed" {
		t.Errorf("view = %q, want apply_closed", view.Name)
	}
	if view.Status == http.StatusNotFound {
		t.Error("closed window reported as not found")
	}
	if view.Data["opensAt"] == nil {
		t.Error("not-yet-open view lacks the opening date hint")
	}
}

func TestShowFormUnknownSlugIsNotFound(t *testing.T) {
	flow := newTestFlow(t)

	view, err := flow.controller.ShowForm(context.Background(), "sid-1", "does-not-exist", KindPerformer)
	if err != nil {
		t.Fatalf("ShowForm: %v", err)
	}
	if view.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", view.Status)
	}
	if view.Name != "error" {
		t.Errorf("view = %q, want error", view.Name)
	}
}

func TestShowFormPrefillsFromDraft(t *testing.T) {
	flow := newTestFlow(t)
	ctx := context.Background()
	_ = flow.drafts.Put(ctx, "sid-1", KindPerformer, Fields{"groupName": "Taiko Club"})

	view, err := flow.controller.ShowForm(ctx, "sid-1", "fall-fest", KindPerformer)
	if err != nil {
		t.Fatalf("ShowForm: %v", err)
	}
	formData := view.Data["formData"].(Fields)
	if formData["groupName"] != "Taiko Club" {
		t.Errorf("form not pre-filled from draft: %v", formData)
	}
}

func TestSubmitIgnoresClientEventID(t *testing.T) {
	flow := newTestFlow(t)
	ctx := context.Background()

	fields := validPerformerFields()
	fields["eventId"] = "some-other-event-id"
	_, err := flow.controller.Confirm(ctx, "sid-1", "fall-fest", KindPerformer, fields)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	view, err := flow.controller.Submit(ctx, "sid-1", "fall-fest", KindPerformer, fields)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if view.Name != "apply_thanks" {
		t.Fatalf("view = %q, want apply_thanks", view.Name)
	}
	if len(flow.store.created) != 1 {
		t.Fatalf("created %d applications, want 1", len(flow.store.created))
	}
	if flow.store.created[0].EventID != flow.event.ID {
		t.Errorf("EventID = %s, want the resolved event %s", flow.store.created[0].EventID, flow.event.ID)
	}
}

func TestSubmitPrefersStoredDraft(t *testing.T) {
	flow := newTestFlow(t)
	ctx := context.Background()

	draft := validPerformerFields()
	draft["groupName"] = "Draft Club"
	_, err := flow.controller.Confirm(ctx, "sid-1", "fall-fest", KindPerformer, draft)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	posted := validPerformerFields()
	posted["groupName"] = "Tampered Club"
	if _, err := flow.controller.Submit(ctx, "sid-1", "fall-fest", KindPerformer, posted); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := flow.store.created[0].GroupName; got != "Draft Club" {
		t.Errorf("GroupName = %q, want the confirmed draft value", got)
	}
}

func TestSubmitClearsDraftOnSuccess(t *testing.T) {
	flow := newTestFlow(t)
	ctx := context.Background()

	fields := validPerformerFields()
	if _, err := flow.controller.Confirm(ctx, "sid-1", "fall-fest", KindPerformer, fields); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if _, err := flow.controller.Submit(ctx, "sid-1", "fall-fest", KindPerformer, fields); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	draft, _ := flow.drafts.Get(ctx, "sid-1", KindPerformer)
	if len(draft) != 0 {
		t.Errorf("draft survived a successful submit: %v", draft)
	}
}

func TestSubmitKeepsDraftOnPersistenceFailure(t *testing.T) {
	flow := newTestFlow(t)
	ctx := context.Background()

	fields := validPerformerFields()
	if _, err := flow.controller.Confirm(ctx, "sid-1", "fall-fest", KindPerformer, fields); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	flow.store.err = errors.New("disk full")
	_, err := flow.controller.Submit(ctx, "sid-1", "fall-fest", KindPerformer, fields)
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *PersistenceError", err)
	}

	draft, _ := flow.drafts.Get(ctx, "sid-1", KindPerformer)
	if draft["groupName"] != fields["groupName"] {
		t.Errorf("draft lost after persistence failure: %v", draft)
	}
}

func TestSubmitRechecksGate(t *testing.T) {
	flow := newTestFlow(t)
	ctx := context.Background()

	fields := validPerformerFields()
	if _, err := flow.controller.Confirm(ctx, "sid-1", "fall-fest", KindPerformer, fields); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	// The window closes between preview and submit.
	closed := time.Now().Add(-time.Hour)
	flow.event.ApplicationEndDate = &closed

	view, err := flow.controller.Submit(ctx, "sid-1", "fall-fest", KindPerformer, fields)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if view.Name != "apply_closed" {
		t.Errorf("view = %q, want apply_closed after the window shut", view.Name)
	}
	if len(flow.store.created) != 0 {
		t.Error("application persisted despite a closed window")
	}
}

func TestSubmitRevalidatesFields(t *testing.T) {
	flow := newTestFlow(t)
	ctx := context.Background()

	// No draft stored; the posted fields are invalid.
	view, err := flow.controller.Submit(ctx, "sid-1", "fall-fest", KindPerformer, Fields{"groupName": "X"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if view.Name != "apply_form" {
		t.Errorf("view = %q, want apply_form for invalid submit", view.Name)
	}
	if len(flow.store.created) != 0 {
		t.Error("invalid submission persisted")
	}
}

func TestEditBackShowsPostedFields(t *testing.T) {
	flow := newTestFlow(t)
	ctx := context.Background()
	_ = flow.drafts.Put(ctx, "sid-1", KindPerformer, Fields{"groupName": "Stored Draft"})

	view, err := flow.controller.EditBack(ctx, "sid-1", "fall-fest", KindPerformer, Fields{"groupName": "Edited"})
	if err != nil {
		t.Fatalf("EditBack: %v", err)
	}
	if view.Name != "apply_form" {
		t.Errorf("view = %q, want apply_form", view.Name)
	}
	formData := view.Data["formData"].(Fields)
	if formData["groupName"] != "Edited" {
		t.Errorf("formData = %v, want the posted fields", formData)
	}
}
