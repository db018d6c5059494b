package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cuongbtq/labour-market/internal/api/dto"
	"github.com/cuongbtq/labour-market/internal/api/service"
	"github.com/cuongbtq/labour-market/internal/upload"
	"github.com/gin-gonic/gin"
)

// DisputeHandler handles dispute requests
type DisputeHandler struct {
	logger  *slog.Logger
	svc     *service.Service
	uploads *upload.Storage
}

// NewDisputeHandler creates a new DisputeHandler instance
func NewDisputeHandler(deps *Dependencies) *DisputeHandler {
	return &DisputeHandler{logger: deps.Logger, svc: deps.Service, uploads: deps.Uploads}
}

// RaiseDispute handles POST /api/disputes. Multipart requests may carry an
// evidence file next to the jobId and text fields.
func (h *DisputeHandler) RaiseDispute(c *gin.Context) {
	var req dto.RaiseDisputeRequest
	multipart := strings.HasPrefix(c.ContentType(), "multipart/")

	var err error
	if multipart {
		err = c.ShouldBind(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	in := service.RaiseDisputeInput{JobID: req.JobID, Text: req.Text}
	if multipart {
		if file, ferr := c.FormFile("evidence"); ferr == nil {
			path, err := h.uploads.Save(upload.KindDispute, file)
			if err != nil {
				respondError(c, h.logger, err)
				return
			}
			in.Evidence = path
		}
	}

	dispute, err := h.svc.RaiseDispute(c.Request.Context(), mustActor(c), in)
	if err != nil {
		discardUpload(h.logger, h.uploads, in.Evidence)
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toDisputeDTO(dispute))
}

// MyDisputes handles GET /api/disputes/my
func (h *DisputeHandler) MyDisputes(c *gin.Context) {
	disputes, err := h.svc.MyDisputes(c.Request.Context(), mustActor(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := dto.DisputesResponse{Disputes: make([]dto.DisputeDTO, 0, len(disputes))}
	for i := range disputes {
		resp.Disputes = append(resp.Disputes, toDisputeDTO(&disputes[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// ResolveDispute handles PATCH /api/disputes/:id/resolve
func (h *DisputeHandler) ResolveDispute(c *gin.Context) {
	var req dto.ResolveDisputeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
	}

	dispute, err := h.svc.ResolveDispute(c.Request.Context(), mustActor(c), c.Param("id"), req.Resolution)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toDisputeDTO(dispute))
}
