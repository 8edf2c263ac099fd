package auth

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kikuna-park/backend/pkg/response"
	"github.com/kikuna-park/backend/pkg/utils"
)

// LoginRequest is the body for POST /admin/login. Editor is the name shown
// on change log entries for edits made with the issued token.
type LoginRequest struct {
	Editor   string `json:"editor" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Handler handles admin login.
type Handler struct {
	passwordHash string
	jwt          *JWTService
	logger       *zap.Logger
}

// NewHandler creates an auth handler. passwordHash is the bcrypt hash of the
// shared admin password; an empty hash disables admin login entirely.
func NewHandler(passwordHash string, jwt *JWTService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{passwordHash: passwordHash, jwt: jwt, logger: logger}
}

// Login handles POST /admin/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if h.passwordHash == "" || !utils.CheckPassword(req.Password, h.passwordHash) {
		response.Unauthorized(c, "invalid password")
		return
	}
	token, err := h.jwt.Generate(req.Editor)
	if err != nil {
		h.logger.Error("generate token failed", zap.Error(err))
		response.Internal(c, "failed to issue token")
		return
	}
	response.OK(c, gin.H{"token": token, "editor": req.Editor})
}
