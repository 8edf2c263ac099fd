package volunteers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kikuna-park/backend/internal/models"
	"github.com/kikuna-park/backend/pkg/response"
)

const adminPageSize = 20

// Handler handles the public registration pages and the admin volunteer
// endpoints.
type Handler struct {
	registrar *Registrar
	repo      *Repository
	logger    *zap.Logger
}

// NewHandler creates a volunteers handler.
func NewHandler(registrar *Registrar, repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{registrar: registrar, repo: repo, logger: logger}
}

// ShowForm handles GET /register.
func (h *Handler) ShowForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"title":    "ボランティア登録",
		"errors":   []string{},
		"formData": Registration{},
	})
}

// Register handles POST /register: validate, reject duplicates, and persist.
func (h *Handler) Register(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{
			"title":   "エラー",
			"message": "リクエストの形式が正しくありません",
		})
		return
	}
	reg := registrationFromForm(c)

	errs := reg.Validate()
	if len(errs) == 0 {
		v, err := h.registrar.Register(c.Request.Context(), reg)
		switch {
		case errors.Is(err, ErrAlreadyRegistered):
			errs = append(errs, "同じメールアドレスと氏名の登録が既に存在します")
		case err != nil:
			h.logger.Error("register volunteer failed", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{
				"title":   "エラー",
				"message": "登録中にエラーが発生しました",
			})
			return
		default:
			c.HTML(http.StatusOK, "register_success.html", gin.H{
				"title":     "登録完了",
				"volunteer": v,
			})
			return
		}
	}

	c.HTML(http.StatusOK, "register.html", gin.H{
		"title":    "ボランティア登録",
		"errors":   errs,
		"formData": reg,
	})
}

// AdminList handles GET /admin/volunteers with search and page filters.
func (h *Handler) AdminList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	list, total, err := h.repo.List(c.Request.Context(), c.Query("search"), adminPageSize, (page-1)*adminPageSize)
	if err != nil {
		h.logger.Error("list volunteers failed", zap.Error(err))
		response.Internal(c, "failed to list volunteers")
		return
	}
	totalPages := (total + adminPageSize - 1) / adminPageSize
	response.OK(c, gin.H{
		"volunteers": list,
		"pagination": gin.H{
			"current":  page,
			"total":    totalPages,
			"count":    total,
			"has_next": page < totalPages,
			"has_prev": page > 1,
		},
	})
}

// Export handles GET /admin/volunteers/export. Streams a CSV with a UTF-8
// BOM so spreadsheet software picks up the Japanese headers.
func (h *Handler) Export(c *gin.Context) {
	list, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("export volunteers failed", zap.Error(err))
		response.Internal(c, "failed to export volunteers")
		return
	}

	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM for Excel
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"ID", "種別", "氏名", "団体名", "メールアドレス", "電話番号", "住所", "スキル", "興味", "備考", "登録日"})
	for _, v := range list {
		typeLabel := "個人"
		if v.Type == models.VolunteerTypeOrg {
			typeLabel = "団体"
		}
		_ = w.Write([]string{
			v.ID.String(), typeLabel, v.Name, strValue(v.OrgName), v.Email,
			strValue(v.Phone), strValue(v.Address),
			strings.Join(v.Skills, ", "), strings.Join(v.Interests, ", "),
			strValue(v.Notes), v.CreatedAt.Format("2006-01-02"),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		h.logger.Error("write csv failed", zap.Error(err))
		response.Internal(c, "failed to export volunteers")
		return
	}

	filename := fmt.Sprintf("volunteers-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=UTF-8", buf.Bytes())
}

// registrationFromForm reads the registration fields out of the parsed POST
// form. Skills and interests accept repeated inputs and comma-separated
// values in one input.
func registrationFromForm(c *gin.Context) Registration {
	form := c.Request.PostForm
	return Registration{
		Type:         form.Get("type"),
		Name:         form.Get("name"),
		OrgName:      form.Get("orgName"),
		Email:        form.Get("email"),
		Phone:        form.Get("phone"),
		Address:      form.Get("address"),
		Skills:       splitList(form["skills"]),
		Interests:    splitList(form["interests"]),
		Notes:        form.Get("notes"),
		AgreeToTerms: consentGiven(form.Get("agreeToTerms")),
	}
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '、' }) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func consentGiven(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1":
		return true
	}
	return false
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
