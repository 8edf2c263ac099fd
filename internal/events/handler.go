package events

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/kikuna-park/backend/internal/applications"
	"github.com/kikuna-park/backend/internal/models"
	"github.com/kikuna-park/backend/pkg/response"
)

// Handler handles the public home page and the admin event endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an events handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// homeEvent is an event annotated for the home page.
type homeEvent struct {
	models.Event
	CanApply bool
	OpensAt  string
}

// Home handles GET /: the public list of upcoming events, each annotated
// with whether applications are currently being taken.
func (h *Handler) Home(c *gin.Context) {
	list, err := h.repo.ListUpcomingPublic(c.Request.Context())
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"title":   "エラー",
			"message": "イベント一覧の取得に失敗しました",
		})
		return
	}

	now := time.Now()
	upcoming := make([]homeEvent, 0, len(list))
	for _, e := range list {
		he := homeEvent{Event: e, CanApply: applications.IsAccepting(&e, now)}
		if applications.NotYetOpen(&e, now) {
			he.OpensAt = e.ApplicationStartDate.Format("2006年1月2日")
		}
		upcoming = append(upcoming, he)
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"title":          "菊名桜山公園 ボランティア募集",
		"upcomingEvents": upcoming,
	})
}

// EventRequest is the body for admin event create/update.
type EventRequest struct {
	Title                string     `json:"title" binding:"required"`
	Slug                 string     `json:"slug"`
	Date                 time.Time  `json:"date" binding:"required"`
	ApplicationStartDate *time.Time `json:"application_start_date"`
	ApplicationEndDate   *time.Time `json:"application_end_date"`
	IsPublic             bool       `json:"is_public"`
	Status               string     `json:"status"`
	Location             string     `json:"location"`
	Description          string     `json:"description"`
}

// AdminList handles GET /admin/events.
func (h *Handler) AdminList(c *gin.Context) {
	list, err := h.repo.ListWithCounts(c.Request.Context())
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// AdminCreate handles POST /admin/events.
func (h *Handler) AdminCreate(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		response.BadRequest(c, "slug is required")
		return
	}
	status := req.Status
	if status == "" {
		status = models.EventStatusOpen
	}
	if !validStatus(status) {
		response.BadRequest(c, "invalid status")
		return
	}

	e := &models.Event{
		Title:                req.Title,
		Slug:                 slug,
		Date:                 req.Date,
		ApplicationStartDate: req.ApplicationStartDate,
		ApplicationEndDate:   req.ApplicationEndDate,
		IsPublic:             req.IsPublic,
		Status:               status,
		Location:             req.Location,
		Description:          req.Description,
	}
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		if isUniqueViolation(err) {
			response.Conflict(c, "slug already in use")
			return
		}
		h.logger.Error("create event failed", zap.Error(err), zap.String("slug", slug))
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, e)
}

// AdminUpdate handles PATCH /admin/events/:id. The slug cannot be changed.
func (h *Handler) AdminUpdate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("get event failed", zap.Error(err))
		response.Internal(c, "failed to load event")
		return
	}
	if e == nil {
		response.NotFound(c, "event not found")
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Slug != "" && req.Slug != e.Slug {
		response.BadRequest(c, "slug cannot be changed")
		return
	}
	status := req.Status
	if status == "" {
		status = e.Status
	}
	if !validStatus(status) {
		response.BadRequest(c, "invalid status")
		return
	}

	e.Title = req.Title
	e.Date = req.Date
	e.ApplicationStartDate = req.ApplicationStartDate
	e.ApplicationEndDate = req.ApplicationEndDate
	e.IsPublic = req.IsPublic
	e.Status = status
	e.Location = req.Location
	e.Description = req.Description
	if err := h.repo.Update(c.Request.Context(), e); err != nil {
		h.logger.Error("update event failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "failed to update event")
		return
	}
	response.OK(c, e)
}

// AdminDelete handles DELETE /admin/events/:id. Refused while applications
// reference the event.
func (h *Handler) AdminDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if err == ErrHasApplications {
			response.Conflict(c, "event still has applications")
			return
		}
		h.logger.Error("delete event failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "failed to delete event")
		return
	}
	response.NoContent(c)
}

func validStatus(s string) bool {
	switch s {
	case models.EventStatusOpen, models.EventStatusClosed, models.EventStatusArchived:
		return true
	}
	return false
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
