// Package storage is the PostgreSQL persistence of the API service. Every
// state transition is a conditional UPDATE on the status the caller's
// decision was based on, so concurrent requests cannot both win.
package storage

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/shared/postgresql"
)

// Unique constraints translated into domain conflicts
const (
	constraintUserPhone     = "users_phone_key"
	constraintRatingPerUser = "ratings_job_reviewer_key"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

// JobFilter selects a page of jobs for the "my jobs" lists
type JobFilter struct {
	CreatedBy  string
	AcceptedBy string
	Statuses   []domain.JobStatus
	PageSize   int
	Cursor     *JobCursor
}

// JobCursor is the keyset position after the last returned job
type JobCursor struct {
	CreatedAt time.Time
	JobID     string
}

// OpenJobFilter narrows the open jobs considered for a laborer's feed
type OpenJobFilter struct {
	ExcludeCreator    string
	ExcludeRejectedBy string
	Skills            []string
}

// JobCountFilter selects the jobs aggregated for a dashboard
type JobCountFilter struct {
	CreatedBy  string
	AcceptedBy string
}
