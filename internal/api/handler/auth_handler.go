package handler

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/labour-market/internal/api/dto"
	"github.com/cuongbtq/labour-market/internal/api/service"
	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	logger *slog.Logger
	svc    *service.Service
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(deps *Dependencies) *AuthHandler {
	return &AuthHandler{logger: deps.Logger, svc: deps.Service}
}

// RegisterClient handles POST /api/auth/register/client
func (h *AuthHandler) RegisterClient(c *gin.Context) {
	var req dto.RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	result, err := h.svc.RegisterClient(c.Request.Context(), service.RegisterClientInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toAuthResponse(result))
}

// RegisterLabour handles POST /api/auth/register/labour
func (h *AuthHandler) RegisterLabour(c *gin.Context) {
	var req dto.RegisterLabourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	in := service.RegisterLabourInput{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Password:     req.Password,
		Skills:       req.Skills,
		ExpectedRate: req.ExpectedRate,
	}
	if req.StationRange != nil {
		in.StationRange = &domain.StationRange{From: req.StationRange.From, To: req.StationRange.To}
	}

	result, err := h.svc.RegisterLabour(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toAuthResponse(result))
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	result, err := h.svc.Login(c.Request.Context(), service.LoginInput{Phone: req.Phone, Password: req.Password})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toAuthResponse(result))
}
