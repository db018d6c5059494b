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

// PaymentHandler handles proof-of-payment requests
type PaymentHandler struct {
	logger  *slog.Logger
	svc     *service.Service
	uploads *upload.Storage
}

// NewPaymentHandler creates a new PaymentHandler instance
func NewPaymentHandler(deps *Dependencies) *PaymentHandler {
	return &PaymentHandler{logger: deps.Logger, svc: deps.Service, uploads: deps.Uploads}
}

func (h *PaymentHandler) respond(c *gin.Context, view *service.PaymentView, err error) {
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentDTO(view.Payment, view.Overdue))
}

// GetPayment handles GET /api/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	view, err := h.svc.GetPayment(c.Request.Context(), mustActor(c), c.Param("id"))
	h.respond(c, view, err)
}

// SubmitProof handles PATCH /api/payments/:id/proof. The proof is either a
// multipart paymentProof file or a JSON proofImage holding a data URL.
func (h *PaymentHandler) SubmitProof(c *gin.Context) {
	proof, err := h.readProof(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	view, err := h.svc.SubmitPaymentProof(c.Request.Context(), mustActor(c), c.Param("id"), proof)
	if err != nil {
		discardUpload(h.logger, h.uploads, proof)
	}
	h.respond(c, view, err)
}

func (h *PaymentHandler) readProof(c *gin.Context) (string, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, err := c.FormFile("paymentProof")
		if err != nil {
			return "", upload.ErrFileRequired
		}
		return h.uploads.Save(upload.KindPayment, file)
	}

	var req dto.SubmitProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", upload.ErrFileRequired
	}
	if req.ProofImage == "" {
		return "", upload.ErrFileRequired
	}
	if upload.IsDataURL(req.ProofImage) {
		return h.uploads.SaveDataURL(upload.KindPayment, req.ProofImage)
	}
	return "", upload.ErrInvalidDataURL
}

// ConfirmPayment handles PATCH /api/payments/:id/confirm
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	view, err := h.svc.ConfirmPayment(c.Request.Context(), mustActor(c), c.Param("id"))
	h.respond(c, view, err)
}

// DisputePayment handles PATCH /api/payments/:id/dispute
func (h *PaymentHandler) DisputePayment(c *gin.Context) {
	view, err := h.svc.DisputePayment(c.Request.Context(), mustActor(c), c.Param("id"))
	h.respond(c, view, err)
}
