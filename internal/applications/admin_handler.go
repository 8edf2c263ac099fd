package applications

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kikuna-park/backend/internal/changelog"
	"github.com/kikuna-park/backend/internal/middleware"
	"github.com/kikuna-park/backend/internal/models"
	"github.com/kikuna-park/backend/pkg/response"
)

const adminPageSize = 20

// EventGetter loads an event by id for the detail view. Satisfied by the
// events repository.
type EventGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// AdminHandler exposes the back-office application endpoints.
type AdminHandler struct {
	repo      *Repository
	eventRepo EventGetter
	changes   *changelog.Repository
	logger    *zap.Logger
}

// NewAdminHandler creates the admin applications handler.
func NewAdminHandler(repo *Repository, eventRepo EventGetter, changes *changelog.Repository, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{repo: repo, eventRepo: eventRepo, changes: changes, logger: logger}
}

// List handles GET /admin/applications with kind, search, and page filters.
func (h *AdminHandler) List(c *gin.Context) {
	kind := c.Query("kind")
	if kind != "" {
		if _, err := ParseKind(kind); err != nil {
			response.BadRequest(c, "invalid kind")
			return
		}
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	list, total, err := h.repo.List(c.Request.Context(), kind, c.Query("search"), adminPageSize, (page-1)*adminPageSize)
	if err != nil {
		h.logger.Error("list applications failed", zap.Error(err))
		response.Internal(c, "failed to list applications")
		return
	}
	totalPages := (total + adminPageSize - 1) / adminPageSize
	response.OK(c, gin.H{
		"applications": list,
		"pagination": gin.H{
			"current":  page,
			"total":    totalPages,
			"count":    total,
			"has_next": page < totalPages,
			"has_prev": page > 1,
		},
	})
}

// Detail handles GET /admin/applications/:id, returning the application with
// its event and full change history.
func (h *AdminHandler) Detail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid application id")
		return
	}
	app, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("get application failed", zap.Error(err))
		response.Internal(c, "failed to load application")
		return
	}
	if app == nil {
		response.NotFound(c, "application not found")
		return
	}
	event, err := h.eventRepo.GetByID(c.Request.Context(), app.EventID)
	if err != nil {
		h.logger.Error("get event failed", zap.Error(err))
		response.Internal(c, "failed to load event")
		return
	}
	history, err := h.changes.ListByEntity(c.Request.Context(), "application", id)
	if err != nil {
		h.logger.Error("list change log failed", zap.Error(err))
		response.Internal(c, "failed to load change log")
		return
	}
	response.OK(c, gin.H{"application": app, "event": event, "change_log": history})
}

// UpdateRequest is the body for PATCH /admin/applications/:id. Every change
// needs a reason; the editor comes from the JWT.
type UpdateRequest struct {
	Changes map[string]string `json:"changes" binding:"required"`
	Reason  string            `json:"reason" binding:"required"`
}

// Update handles PATCH /admin/applications/:id. Each changed field gets an
// append-only change log entry in the same transaction; the original
// submission snapshot is never touched.
func (h *AdminHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid application id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if len(req.Changes) == 0 {
		response.BadRequest(c, "no changes given")
		return
	}
	entries, err := h.repo.UpdateFields(c.Request.Context(), id, req.Changes, req.Reason, middleware.Editor(c))
	if err != nil {
		h.logger.Error("update application failed", zap.Error(err), zap.String("application_id", id.String()))
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, gin.H{"change_log": entries})
}

// Delete handles DELETE /admin/applications/:id.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid application id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("delete application failed", zap.Error(err), zap.String("application_id", id.String()))
		response.Internal(c, "failed to delete application")
		return
	}
	response.NoContent(c)
}

// Export handles GET /admin/applications/export?kind=. Streams a CSV with a
// UTF-8 BOM so spreadsheet software picks up the Japanese headers.
func (h *AdminHandler) Export(c *gin.Context) {
	kind, err := ParseKind(c.DefaultQuery("kind", string(KindPerformer)))
	if err != nil {
		response.BadRequest(c, "invalid kind")
		return
	}
	rows, err := h.repo.ListForExport(c.Request.Context(), string(kind))
	if err != nil {
		h.logger.Error("export applications failed", zap.Error(err))
		response.Internal(c, "failed to export applications")
		return
	}

	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM for Excel
	w := csv.NewWriter(&buf)
	if kind == KindStall {
		writeStallCSV(w, rows)
	} else {
		writePerformerCSV(w, rows)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		h.logger.Error("write csv failed", zap.Error(err))
		response.Internal(c, "failed to export applications")
		return
	}

	filename := fmt.Sprintf("%s-applications-%s.csv", kind, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=UTF-8", buf.Bytes())
}

func writePerformerCSV(w *csv.Writer, rows []ExportRow) {
	_ = w.Write([]string{"ID", "参加団体名", "代表者名", "メールアドレス", "電話番号", "住所", "イベント",
		"出演内容", "出演者数", "希望枠数", "車両台数", "拡声装置レンタル数", "追加マイク本数", "連絡事項", "申込日"})
	for _, r := range rows {
		_ = w.Write([]string{
			r.ID.String(), r.GroupName, r.Representative, r.Email,
			strValue(r.Phone), strValue(r.Address), r.EventTitle,
			strValue(r.Performance), intValue(r.PerformerCount), intValue(r.SlotCount),
			intValue(r.VehicleCount), intValue(r.RentalAmp), intValue(r.RentalMic),
			strValue(r.Questions), r.CreatedAt.Format("2006-01-02"),
		})
	}
}

func writeStallCSV(w *csv.Writer, rows []ExportRow) {
	_ = w.Write([]string{"ID", "参加団体名", "代表者名", "メールアドレス", "電話番号", "住所", "イベント",
		"出店内容", "販売品目", "価格帯（最低）", "価格帯（最高）", "希望枠数", "テント横幅（m）", "テント奥行（m）",
		"テント高さ（m）", "車両台数", "レンタルテーブル数", "レンタル椅子数", "連絡事項", "申込日"})
	for _, r := range rows {
		_ = w.Write([]string{
			r.ID.String(), r.GroupName, r.Representative, r.Email,
			strValue(r.Phone), strValue(r.Address), r.EventTitle,
			strValue(r.BoothType), strValue(r.Items), intValue(r.PriceRangeMin), intValue(r.PriceRangeMax),
			intValue(r.BoothCount), floatValue(r.TentWidth), floatValue(r.TentDepth), floatValue(r.TentHeight),
			intValue(r.VehicleCount), intValue(r.RentalTables), intValue(r.RentalChairs),
			strValue(r.Questions), r.CreatedAt.Format("2006-01-02"),
		})
	}
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intValue(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func floatValue(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
