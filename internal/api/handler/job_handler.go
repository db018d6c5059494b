package handler

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/labour-market/internal/api/dto"
	"github.com/cuongbtq/labour-market/internal/api/service"
	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/gin-gonic/gin"
)

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger *slog.Logger
	svc    *service.Service
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{logger: deps.Logger, svc: deps.Service}
}

// CreateJob handles POST /api/jobs/create
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid request body", slog.String("error", err.Error()))
		badRequest(c, "Invalid request body")
		return
	}

	job, err := h.svc.CreateJob(c.Request.Context(), mustActor(c), service.CreateJobInput{
		Title:         req.Title,
		Description:   req.Description,
		SkillRequired: req.SkillRequired,
		StationRange:  domain.StationRange{From: req.StationRange.From, To: req.StationRange.To},
		Budget:        req.Budget,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toJobDTO(job))
}

// Feed handles GET /api/jobs, the ranked open jobs for a laborer
func (h *JobHandler) Feed(c *gin.Context) {
	items, err := h.svc.Feed(c.Request.Context(), mustActor(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := dto.FeedResponse{Jobs: make([]dto.FeedItemDTO, 0, len(items))}
	for i := range items {
		resp.Jobs = append(resp.Jobs, dto.FeedItemDTO{
			JobDTO: toJobDTO(&items[i].Job),
			Score:  items[i].Score,
			Match:  items[i].Match,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// GetJob handles GET /api/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.svc.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toJobDTO(job))
}

// AcceptJob handles PATCH /api/jobs/:id/accept
func (h *JobHandler) AcceptJob(c *gin.Context) {
	job, err := h.svc.AcceptJob(c.Request.Context(), mustActor(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toJobDTO(job))
}

// RejectJob handles PATCH /api/jobs/:id/reject
func (h *JobHandler) RejectJob(c *gin.Context) {
	if err := h.svc.RejectJob(c.Request.Context(), mustActor(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job rejected"})
}

// CompleteJob handles PATCH /api/jobs/:id/complete
func (h *JobHandler) CompleteJob(c *gin.Context) {
	result, err := h.svc.CompleteJob(c.Request.Context(), mustActor(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.CompleteJobResponse{
		Job:     toJobDTO(result.Job),
		Payment: toPaymentDTO(result.Payment, false),
	})
}

// CancelJob handles PATCH /api/jobs/:id/cancel. The body is optional.
func (h *JobHandler) CancelJob(c *gin.Context) {
	var req dto.CancelJobRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
	}

	job, err := h.svc.CancelJob(c.Request.Context(), mustActor(c), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toJobDTO(job))
}

// RateJob handles PATCH /api/jobs/:id/rate
func (h *JobHandler) RateJob(c *gin.Context) {
	var req dto.RateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	result, err := h.svc.RateJob(c.Request.Context(), mustActor(c), c.Param("id"), service.RateJobInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.RateJobResponse{
		Rating:           toRatingDTO(result.Rating),
		ReliabilityScore: result.ReliabilityScore,
	})
}

type listFunc func(c *gin.Context, page service.PageRequest) (*service.JobPage, error)

func (h *JobHandler) listJobs(c *gin.Context, list listFunc) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Invalid query parameters")
		return
	}

	cursor, err := DecodeJobCursor(req.Cursor)
	if err != nil {
		h.logger.Debug("Invalid cursor", slog.String("cursor", req.Cursor), slog.String("error", err.Error()))
		badRequest(c, "Invalid cursor")
		return
	}

	page, err := list(c, service.PageRequest{PageSize: req.PageSize, Cursor: cursor})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{
		Jobs:       toJobDTOs(page.Jobs),
		NextCursor: EncodeJobCursor(page.Next),
	})
}

// MyPosted handles GET /api/jobs/my-posted
func (h *JobHandler) MyPosted(c *gin.Context) {
	h.listJobs(c, func(c *gin.Context, page service.PageRequest) (*service.JobPage, error) {
		return h.svc.MyPostedJobs(c.Request.Context(), mustActor(c), page)
	})
}

// MyAccepted handles GET /api/jobs/my-accepted
func (h *JobHandler) MyAccepted(c *gin.Context) {
	h.listJobs(c, func(c *gin.Context, page service.PageRequest) (*service.JobPage, error) {
		return h.svc.MyAcceptedJobs(c.Request.Context(), mustActor(c), page)
	})
}

// MyCompleted handles GET /api/jobs/my-completed
func (h *JobHandler) MyCompleted(c *gin.Context) {
	h.listJobs(c, func(c *gin.Context, page service.PageRequest) (*service.JobPage, error) {
		return h.svc.MyCompletedJobs(c.Request.Context(), mustActor(c), page)
	})
}

// ClientDashboard handles GET /api/jobs/dashboard/client
func (h *JobHandler) ClientDashboard(c *gin.Context) {
	d, err := h.svc.ClientDashboard(c.Request.Context(), mustActor(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ClientDashboardResponse{
		TotalJobs:     d.TotalJobs,
		ActiveJobs:    d.ActiveJobs,
		CompletedJobs: d.CompletedJobs,
		CancelledJobs: d.CancelledJobs,
	})
}

// LabourDashboard handles GET /api/jobs/dashboard/labour
func (h *JobHandler) LabourDashboard(c *gin.Context) {
	d, err := h.svc.LabourDashboard(c.Request.Context(), mustActor(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.LabourDashboardResponse{
		AcceptedJobs:  d.AcceptedJobs,
		ActiveJobs:    d.ActiveJobs,
		CompletedJobs: d.CompletedJobs,
		CancelledJobs: d.CancelledJobs,
		TotalEarnings: d.TotalEarnings.InexactFloat64(),
	})
}

// LabourStats handles GET /api/jobs/labour-stats/:labourId
func (h *JobHandler) LabourStats(c *gin.Context) {
	v, err := h.svc.LabourStats(c.Request.Context(), c.Param("labourId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toStatsResponse(v))
}

// ClientStats handles GET /api/jobs/client-stats/:clientId
func (h *JobHandler) ClientStats(c *gin.Context) {
	v, err := h.svc.ClientStats(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toStatsResponse(v))
}
