package handler

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/labour-market/internal/api/dto"
	"github.com/cuongbtq/labour-market/internal/api/service"
	"github.com/cuongbtq/labour-market/internal/upload"
	"github.com/gin-gonic/gin"
)

// UserHandler serves profile and rating reads
type UserHandler struct {
	logger  *slog.Logger
	svc     *service.Service
	uploads *upload.Storage
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(deps *Dependencies) *UserHandler {
	return &UserHandler{logger: deps.Logger, svc: deps.Service, uploads: deps.Uploads}
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.svc.Me(c.Request.Context(), mustActor(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toUserDTO(user))
}

// UpdatePhoto handles PATCH /api/users/me/photo with a multipart profilePhoto field
func (h *UserHandler) UpdatePhoto(c *gin.Context) {
	file, err := c.FormFile("profilePhoto")
	if err != nil {
		respondError(c, h.logger, upload.ErrFileRequired)
		return
	}

	path, err := h.uploads.Save(upload.KindProfile, file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user, err := h.svc.UpdateProfilePhoto(c.Request.Context(), mustActor(c), path)
	if err != nil {
		discardUpload(h.logger, h.uploads, path)
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toUserDTO(user))
}

// Ratings handles GET /api/users/:userId/ratings
func (h *UserHandler) Ratings(c *gin.Context) {
	ratings, err := h.svc.UserRatings(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := dto.RatingsResponse{Ratings: make([]dto.RatingDTO, 0, len(ratings))}
	for i := range ratings {
		resp.Ratings = append(resp.Ratings, toRatingDTO(&ratings[i]))
	}
	c.JSON(http.StatusOK, resp)
}
