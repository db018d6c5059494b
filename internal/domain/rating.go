package domain

import "time"

// Rating is one participant's review of the other after a completed job
type Rating struct {
	ID           string
	JobID        string
	ReviewerID   string
	ReviewerName string
	RevieweeID   string
	Rating       int
	Comment      string
	CreatedAt    time.Time
}
