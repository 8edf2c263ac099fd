package applications

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kikuna-park/backend/internal/middleware"
)

// Handler exposes the public application flow over HTTP. It parses the
// request, hands the raw fields to the lifecycle controller, and renders
// whichever view the controller picked.
type Handler struct {
	controller *Controller
	logger     *zap.Logger
}

// NewHandler creates the public applications handler.
func NewHandler(controller *Controller, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{controller: controller, logger: logger}
}

// ShowForm handles GET /apply/:slug/:kind.
func (h *Handler) ShowForm(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	view, err := h.controller.ShowForm(c.Request.Context(), middleware.SessionID(c), c.Param("slug"), kind)
	h.render(c, view, err)
}

// Confirm handles POST /apply/:slug/:kind.
func (h *Handler) Confirm(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	fields, ok := h.formFields(c)
	if !ok {
		return
	}
	view, err := h.controller.Confirm(c.Request.Context(), middleware.SessionID(c), c.Param("slug"), kind, fields)
	h.render(c, view, err)
}

// EditBack handles POST /apply/:slug/:kind/edit.
func (h *Handler) EditBack(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	fields, ok := h.formFields(c)
	if !ok {
		return
	}
	view, err := h.controller.EditBack(c.Request.Context(), middleware.SessionID(c), c.Param("slug"), kind, fields)
	h.render(c, view, err)
}

// Submit handles POST /apply/:slug/:kind/submit.
func (h *Handler) Submit(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	fields, ok := h.formFields(c)
	if !ok {
		return
	}
	view, err := h.controller.Submit(c.Request.Context(), middleware.SessionID(c), c.Param("slug"), kind, fields)
	h.render(c, view, err)
}

func (h *Handler) kind(c *gin.Context) (Kind, bool) {
	kind, err := ParseKind(c.Param("kind"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"title":   "ページが見つかりません",
			"message": "指定されたページが見つかりません",
		})
		return "", false
	}
	return kind, true
}

func (h *Handler) render(c *gin.Context, view *View, err error) {
	if err != nil {
		h.logger.Error("application flow failed", zap.Error(err),
			zap.String("path", c.Request.URL.Path))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"title":   "エラー",
			"message": "処理中にエラーが発生しました。入力内容は保存されています。",
		})
		return
	}
	c.HTML(view.Status, view.Name+".html", view.Data)
}

// formFields flattens the POST body into a raw field map. Only the first
// value of each field is kept; the forms never use repeated names. A body
// that does not parse is a 400, not an empty field map.
func (h *Handler) formFields(c *gin.Context) (Fields, bool) {
	if err := c.Request.ParseForm(); err != nil {
		h.logger.Warn("parse form failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.HTML(http.StatusBadRequest, "error.html", gin.H{
			"title":   "エラー",
			"message": "リクエストの形式が正しくありません",
		})
		return nil, false
	}
	fields := make(Fields, len(c.Request.PostForm))
	for name, values := range c.Request.PostForm {
		if len(values) > 0 {
			fields[name] = values[0]
		}
	}
	return fields, true
}
