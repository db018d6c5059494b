// Package model holds the database row shapes of the API service and their
// conversions to domain types.
package model

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/cuongbtq/labour-market/internal/domain"
)

type User struct {
	ID               string          `db:"id"`
	Name             string          `db:"name"`
	Phone            string          `db:"phone"`
	Email            sql.NullString  `db:"email"`
	PasswordHash     sql.NullString  `db:"password_hash"`
	Role             string          `db:"role"`
	ReliabilityScore int             `db:"reliability_score"`
	StationFrom      sql.NullString  `db:"station_from"`
	StationTo        sql.NullString  `db:"station_to"`
	Skills           pq.StringArray  `db:"skills"`
	ExpectedRate     sql.NullFloat64 `db:"expected_rate"`
	ProfilePhoto     sql.NullString  `db:"profile_photo"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

func NewUser(u *domain.User) User {
	row := User{
		ID:               u.ID,
		Name:             u.Name,
		Phone:            u.Phone,
		Email:            nullString(u.Email),
		PasswordHash:     nullString(u.PasswordHash),
		Role:             string(u.Role),
		ReliabilityScore: u.ReliabilityScore,
		Skills:           pq.StringArray(u.Skills),
		ExpectedRate:     sql.NullFloat64{Float64: u.ExpectedRate, Valid: u.ExpectedRate > 0},
		ProfilePhoto:     nullString(u.ProfilePhoto),
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
	if row.Skills == nil {
		row.Skills = pq.StringArray{}
	}
	if u.StationRange != nil {
		row.StationFrom = nullString(u.StationRange.From)
		row.StationTo = nullString(u.StationRange.To)
	}
	return row
}

func (u User) ToDomain() *domain.User {
	user := &domain.User{
		ID:               u.ID,
		Name:             u.Name,
		Phone:            u.Phone,
		Email:            u.Email.String,
		PasswordHash:     u.PasswordHash.String,
		Role:             domain.Role(u.Role),
		ReliabilityScore: u.ReliabilityScore,
		Skills:           []string(u.Skills),
		ExpectedRate:     u.ExpectedRate.Float64,
		ProfilePhoto:     u.ProfilePhoto.String,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
	if u.StationFrom.Valid && u.StationTo.Valid {
		user.StationRange = &domain.StationRange{From: u.StationFrom.String, To: u.StationTo.String}
	}
	return user
}

type Job struct {
	ID            string          `db:"id"`
	CreatedBy     string          `db:"created_by"`
	AcceptedBy    sql.NullString  `db:"accepted_by"`
	Title         string          `db:"title"`
	Description   string          `db:"description"`
	SkillRequired string          `db:"skill_required"`
	StationFrom   string          `db:"station_from"`
	StationTo     string          `db:"station_to"`
	Budget        decimal.Decimal `db:"budget"`
	Status        string          `db:"status"`
	PaymentID     sql.NullString  `db:"payment_id"`
	CancelReason  sql.NullString  `db:"cancel_reason"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func NewJob(j *domain.Job) Job {
	return Job{
		ID:            j.ID,
		CreatedBy:     j.CreatedBy,
		AcceptedBy:    nullString(j.AcceptedBy),
		Title:         j.Title,
		Description:   j.Description,
		SkillRequired: j.SkillRequired,
		StationFrom:   j.StationRange.From,
		StationTo:     j.StationRange.To,
		Budget:        j.Budget,
		Status:        string(j.Status),
		PaymentID:     nullString(j.PaymentID),
		CancelReason:  nullString(j.CancelReason),
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}

func (j Job) ToDomain() *domain.Job {
	return &domain.Job{
		ID:            j.ID,
		CreatedBy:     j.CreatedBy,
		AcceptedBy:    j.AcceptedBy.String,
		Title:         j.Title,
		Description:   j.Description,
		SkillRequired: j.SkillRequired,
		StationRange:  domain.StationRange{From: j.StationFrom, To: j.StationTo},
		Budget:        j.Budget,
		Status:        domain.JobStatus(j.Status),
		PaymentID:     j.PaymentID.String,
		CancelReason:  j.CancelReason.String,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}

// Jobs converts a slice of rows
func Jobs(rows []Job) []domain.Job {
	jobs := make([]domain.Job, len(rows))
	for i, r := range rows {
		jobs[i] = *r.ToDomain()
	}
	return jobs
}

type Payment struct {
	ID         string          `db:"id"`
	JobID      string          `db:"job_id"`
	Amount     decimal.Decimal `db:"amount"`
	Status     string          `db:"status"`
	ProofImage sql.NullString  `db:"proof_image"`
	Deadline   time.Time       `db:"deadline"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

func NewPayment(p *domain.Payment) Payment {
	return Payment{
		ID:         p.ID,
		JobID:      p.JobID,
		Amount:     p.Amount,
		Status:     string(p.Status),
		ProofImage: nullString(p.ProofImage),
		Deadline:   p.Deadline,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (p Payment) ToDomain() *domain.Payment {
	return &domain.Payment{
		ID:         p.ID,
		JobID:      p.JobID,
		Amount:     p.Amount,
		Status:     domain.PaymentStatus(p.Status),
		ProofImage: p.ProofImage.String,
		Deadline:   p.Deadline,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type Rating struct {
	ID           string         `db:"id"`
	JobID        string         `db:"job_id"`
	ReviewerID   string         `db:"reviewer_id"`
	ReviewerName sql.NullString `db:"reviewer_name"`
	RevieweeID   string         `db:"reviewee_id"`
	Rating       int            `db:"rating"`
	Comment      sql.NullString `db:"comment"`
	CreatedAt    time.Time      `db:"created_at"`
}

func NewRating(r *domain.Rating) Rating {
	return Rating{
		ID:         r.ID,
		JobID:      r.JobID,
		ReviewerID: r.ReviewerID,
		RevieweeID: r.RevieweeID,
		Rating:     r.Rating,
		Comment:    nullString(r.Comment),
		CreatedAt:  r.CreatedAt,
	}
}

func (r Rating) ToDomain() domain.Rating {
	return domain.Rating{
		ID:           r.ID,
		JobID:        r.JobID,
		ReviewerID:   r.ReviewerID,
		ReviewerName: r.ReviewerName.String,
		RevieweeID:   r.RevieweeID,
		Rating:       r.Rating,
		Comment:      r.Comment.String,
		CreatedAt:    r.CreatedAt,
	}
}

type Dispute struct {
	ID         string         `db:"id"`
	JobID      string         `db:"job_id"`
	RaisedBy   string         `db:"raised_by"`
	Text       string         `db:"text"`
	Evidence   sql.NullString `db:"evidence"`
	Status     string         `db:"status"`
	Resolution sql.NullString `db:"resolution"`
	CreatedAt  time.Time      `db:"created_at"`
	ResolvedAt sql.NullTime   `db:"resolved_at"`
}

func NewDispute(d *domain.Dispute) Dispute {
	row := Dispute{
		ID:         d.ID,
		JobID:      d.JobID,
		RaisedBy:   d.RaisedBy,
		Text:       d.Text,
		Evidence:   nullString(d.Evidence),
		Status:     string(d.Status),
		Resolution: nullString(d.Resolution),
		CreatedAt:  d.CreatedAt,
	}
	if d.ResolvedAt != nil {
		row.ResolvedAt = sql.NullTime{Time: *d.ResolvedAt, Valid: true}
	}
	return row
}

func (d Dispute) ToDomain() domain.Dispute {
	dispute := domain.Dispute{
		ID:         d.ID,
		JobID:      d.JobID,
		RaisedBy:   d.RaisedBy,
		Text:       d.Text,
		Evidence:   d.Evidence.String,
		Status:     domain.DisputeStatus(d.Status),
		Resolution: d.Resolution.String,
		CreatedAt:  d.CreatedAt,
	}
	if d.ResolvedAt.Valid {
		t := d.ResolvedAt.Time
		dispute.ResolvedAt = &t
	}
	return dispute
}

type UserStats struct {
	UserID        string    `db:"user_id"`
	PostedJobs    int       `db:"posted_jobs"`
	AcceptedJobs  int       `db:"accepted_jobs"`
	CompletedJobs int       `db:"completed_jobs"`
	CancelledJobs int       `db:"cancelled_jobs"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (s UserStats) ToDomain() *domain.UserStats {
	return &domain.UserStats{
		UserID:        s.UserID,
		PostedJobs:    s.PostedJobs,
		AcceptedJobs:  s.AcceptedJobs,
		CompletedJobs: s.CompletedJobs,
		CancelledJobs: s.CancelledJobs,
		UpdatedAt:     s.UpdatedAt,
	}
}

type StatusCount struct {
	Status string          `db:"status"`
	Count  int             `db:"count"`
	Budget decimal.Decimal `db:"budget"`
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
