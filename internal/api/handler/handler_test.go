package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/labour-market/internal/api/storage"
	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/internal/upload"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domain.ErrJobNotFound, http.StatusNotFound},
		{"precondition", domain.ErrJobNotOpen, http.StatusConflict},
		{"validation", domain.Validationf("bad"), http.StatusBadRequest},
		{"conflict", domain.ErrAlreadyRated, http.StatusConflict},
		{"unauthorized", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", domain.ErrRoleNotAllowed, http.StatusForbidden},
		{"wrapped", fmt.Errorf("load: %w", domain.ErrUserNotFound), http.StatusNotFound},
		{"upload", upload.ErrFileTooLarge, http.StatusBadRequest},
		{"unknown", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestJobCursor_RoundTrip(t *testing.T) {
	in := &storage.JobCursor{
		CreatedAt: time.Date(2025, 6, 2, 8, 0, 0, 123456789, time.UTC),
		JobID:     "8c1d4a3e-0000-4000-8000-000000000001",
	}

	out, err := DecodeJobCursor(EncodeJobCursor(in))
	require.NoError(t, err)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.Equal(t, in.JobID, out.JobID)
}

func TestDecodeJobCursor(t *testing.T) {
	cursor, err := DecodeJobCursor("")
	require.NoError(t, err)
	assert.Nil(t, cursor)
	assert.Empty(t, EncodeJobCursor(nil))

	for _, bad := range []string{"!!!", "bm9waXBl", "YWJjfA"} {
		_, err := DecodeJobCursor(bad)
		assert.Error(t, err, bad)
	}
}
