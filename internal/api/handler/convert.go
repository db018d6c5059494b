package handler

import (
	"time"

	"github.com/cuongbtq/labour-market/internal/api/dto"
	"github.com/cuongbtq/labour-market/internal/api/service"
	"github.com/cuongbtq/labour-market/internal/domain"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toUserDTO(u *domain.User) dto.UserDTO {
	out := dto.UserDTO{
		ID:               u.ID,
		Name:             u.Name,
		Phone:            u.Phone,
		Email:            u.Email,
		Role:             string(u.Role),
		ReliabilityScore: u.ReliabilityScore,
		Skills:           u.Skills,
		ExpectedRate:     u.ExpectedRate,
		ProfilePhoto:     u.ProfilePhoto,
		CreatedAt:        formatTime(u.CreatedAt),
	}
	if u.StationRange != nil {
		out.StationRange = &dto.StationRangeDTO{From: u.StationRange.From, To: u.StationRange.To}
	}
	return out
}

func toAuthResponse(r *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{Token: r.Token, User: toUserDTO(r.User)}
}

func toJobDTO(j *domain.Job) dto.JobDTO {
	return dto.JobDTO{
		ID:            j.ID,
		CreatedBy:     j.CreatedBy,
		AcceptedBy:    j.AcceptedBy,
		Title:         j.Title,
		Description:   j.Description,
		SkillRequired: j.SkillRequired,
		StationRange:  dto.StationRangeDTO{From: j.StationRange.From, To: j.StationRange.To},
		Budget:        j.Budget.InexactFloat64(),
		Status:        string(j.Status),
		PaymentID:     j.PaymentID,
		CancelReason:  j.CancelReason,
		CreatedAt:     formatTime(j.CreatedAt),
		UpdatedAt:     formatTime(j.UpdatedAt),
	}
}

func toJobDTOs(jobs []domain.Job) []dto.JobDTO {
	out := make([]dto.JobDTO, 0, len(jobs))
	for i := range jobs {
		out = append(out, toJobDTO(&jobs[i]))
	}
	return out
}

func toPaymentDTO(p *domain.Payment, overdue bool) dto.PaymentDTO {
	return dto.PaymentDTO{
		ID:         p.ID,
		JobID:      p.JobID,
		Amount:     p.Amount.StringFixed(2),
		Status:     string(p.Status),
		ProofImage: p.ProofImage,
		Deadline:   formatTime(p.Deadline),
		Overdue:    overdue,
		CreatedAt:  formatTime(p.CreatedAt),
		UpdatedAt:  formatTime(p.UpdatedAt),
	}
}

func toRatingDTO(r *domain.Rating) dto.RatingDTO {
	return dto.RatingDTO{
		ID:           r.ID,
		JobID:        r.JobID,
		ReviewerID:   r.ReviewerID,
		ReviewerName: r.ReviewerName,
		RevieweeID:   r.RevieweeID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    formatTime(r.CreatedAt),
	}
}

func toDisputeDTO(d *domain.Dispute) dto.DisputeDTO {
	out := dto.DisputeDTO{
		ID:         d.ID,
		JobID:      d.JobID,
		RaisedBy:   d.RaisedBy,
		Text:       d.Text,
		Evidence:   d.Evidence,
		Status:     string(d.Status),
		Resolution: d.Resolution,
		CreatedAt:  formatTime(d.CreatedAt),
	}
	if d.ResolvedAt != nil {
		out.ResolvedAt = formatTime(*d.ResolvedAt)
	}
	return out
}

func toStatsResponse(v *service.UserStatsView) dto.UserStatsResponse {
	return dto.UserStatsResponse{
		UserID:                v.Stats.UserID,
		PostedJobs:            v.Stats.PostedJobs,
		AcceptedJobs:          v.Stats.AcceptedJobs,
		CompletedJobs:         v.Stats.CompletedJobs,
		CancelledJobs:         v.Stats.CancelledJobs,
		ReliabilityScore:      v.ReliabilityScore,
		StatsReliabilityScore: v.StatsReliabilityScore,
	}
}
