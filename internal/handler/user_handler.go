package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gongu-report-go/internal/service"
	"gongu-report-go/pkg/log"
)

// UserHandler 负责处理用户注册、登录与信息查询相关的 API 请求。
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest 定义了用户注册 API 的请求体结构。
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register 处理用户注册请求。
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Register: 无效的请求负载, error: %v", err)
		fail(c, http.StatusBadRequest, "无效的请求负载")
		return
	}

	user, err := h.userService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, user)
}

// LoginRequest 定义了用户登录 API 的请求体结构。
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理用户登录请求，成功时返回用户信息与令牌对。
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Login: 无效的请求负载, error: %v", err)
		fail(c, http.StatusBadRequest, "无效的请求负载")
		return
	}

	user, pair, err := h.userService.Login(req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, gin.H{"user": user, "accessToken": pair.AccessToken, "refreshToken": pair.RefreshToken})
}

// GetProfile 处理查询当前登录用户信息的请求。
func (h *UserHandler) GetProfile(c *gin.Context) {
	claims := currentClaims(c)
	user, err := h.userService.GetProfile(claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, user)
}

// RefreshRequest 定义了令牌刷新 API 的请求体结构。
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken 处理刷新令牌请求，签发新的令牌对。
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("RefreshToken: 无效的请求负载, error: %v", err)
		fail(c, http.StatusBadRequest, "无效的请求负载")
		return
	}

	pair, err := h.userService.RefreshToken(req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, pair)
}
