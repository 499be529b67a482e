package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/starcatalog-backend/internal/http/response"
	authmod "github.com/yungbote/starcatalog-backend/internal/modules/auth"
)

type AuthHandler struct {
	auth authmod.Usecases
}

func NewAuthHandler(auth authmod.Usecases) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, err := ah.auth.Register(c.Request.Context(), authmod.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.RespondFromError(c, err, "registration_failed")
		return
	}
	response.RespondCreated(c, user)
}

// POST /api/auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := ah.auth.Login(c.Request.Context(), authmod.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.RespondFromError(c, err, "login_failed")
		return
	}
	response.RespondOK(c, out)
}
