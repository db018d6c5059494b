package dto

import "github.com/shopspring/decimal"

type StationRangeDTO struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type CreateJobRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	SkillRequired string          `json:"skillRequired"`
	StationRange  StationRangeDTO `json:"stationRange"`
	Budget        decimal.Decimal `json:"budget"`
}

type CancelJobRequest struct {
	Reason string `json:"reason"`
}

type RateJobRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ListJobsRequest struct {
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

type ListJobsResponse struct {
	Jobs       []JobDTO `json:"jobs"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

type JobDTO struct {
	ID            string          `json:"id"`
	CreatedBy     string          `json:"createdBy"`
	AcceptedBy    string          `json:"acceptedBy,omitempty"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	SkillRequired string          `json:"skillRequired"`
	StationRange  StationRangeDTO `json:"stationRange"`
	Budget        float64         `json:"budget"`
	Status        string          `json:"status"`
	PaymentID     string          `json:"paymentId,omitempty"`
	CancelReason  string          `json:"cancelReason,omitempty"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

type FeedItemDTO struct {
	JobDTO
	Score float64 `json:"score"`
	Match float64 `json:"match"`
}

type FeedResponse struct {
	Jobs []FeedItemDTO `json:"jobs"`
}

type CompleteJobResponse struct {
	Job     JobDTO     `json:"job"`
	Payment PaymentDTO `json:"payment"`
}

type RatingDTO struct {
	ID           string `json:"id"`
	JobID        string `json:"jobId"`
	ReviewerID   string `json:"reviewerId"`
	ReviewerName string `json:"reviewerName,omitempty"`
	RevieweeID   string `json:"revieweeId"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

type RateJobResponse struct {
	Rating           RatingDTO `json:"rating"`
	ReliabilityScore int       `json:"reliabilityScore"`
}

type ClientDashboardResponse struct {
	TotalJobs     int `json:"totalJobs"`
	ActiveJobs    int `json:"activeJobs"`
	CompletedJobs int `json:"completedJobs"`
	CancelledJobs int `json:"cancelledJobs"`
}

type LabourDashboardResponse struct {
	AcceptedJobs  int     `json:"acceptedJobs"`
	ActiveJobs    int     `json:"activeJobs"`
	CompletedJobs int     `json:"completedJobs"`
	CancelledJobs int     `json:"cancelledJobs"`
	TotalEarnings float64 `json:"totalEarnings"`
}

type UserStatsResponse struct {
	UserID                string `json:"userId"`
	PostedJobs            int    `json:"postedJobs"`
	AcceptedJobs          int    `json:"acceptedJobs"`
	CompletedJobs         int    `json:"completedJobs"`
	CancelledJobs         int    `json:"cancelledJobs"`
	ReliabilityScore      int    `json:"reliabilityScore"`
	StatsReliabilityScore int    `json:"statsReliabilityScore"`
}
