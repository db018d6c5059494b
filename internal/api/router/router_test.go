package router

import (
	"bytes"
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/labour-market/internal/api/dto"
	"github.com/cuongbtq/labour-market/internal/api/events"
	"github.com/cuongbtq/labour-market/internal/api/handler"
	"github.com/cuongbtq/labour-market/internal/api/service"
	"github.com/cuongbtq/labour-market/internal/api/storage/memstore"
	"github.com/cuongbtq/labour-market/internal/security"
	"github.com/cuongbtq/labour-market/internal/station"
	"github.com/cuongbtq/labour-market/internal/upload"
)

type testServer struct {
	engine  *gin.Engine
	svc     *service.Service
	uploads *upload.Storage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stations, err := station.New(station.DefaultNames())
	require.NoError(t, err)

	uploads, err := upload.NewStorage(t.TempDir(), 1<<20)
	require.NoError(t, err)

	tokens := security.NewJWTManager("test-secret", time.Hour)
	store := memstore.New()
	svc := service.New(store, stations, events.NewLocalPublisher(store, logger), tokens, logger, service.Options{
		PaymentWindow:       48 * time.Hour,
		StrictStationFilter: true,
		FeedLimit:           50,
	})

	engine := SetupRouter(&handler.Dependencies{
		Logger:  logger,
		Service: svc,
		Uploads: uploads,
		Tokens:  tokens,
	})
	return &testServer{engine: engine, svc: svc, uploads: uploads}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// doMultipart sends fields plus one png file under fileField
func (s *testServer) doMultipart(t *testing.T, method, path, token, fileField string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile(fileField, "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) storedFiles(t *testing.T) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(s.uploads.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) registerClient(t *testing.T, phone string) dto.AuthResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register/client", "", dto.RegisterClientRequest{
		Name:     "Asha",
		Phone:    phone,
		Email:    "asha@example.com",
		Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.AuthResponse](t, w)
}

func (s *testServer) registerLabour(t *testing.T, phone string) dto.AuthResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register/labour", "", dto.RegisterLabourRequest{
		Name:         "Ravi",
		Phone:        phone,
		Skills:       []string{"Loading"},
		StationRange: &dto.StationRangeDTO{From: "vasai", To: "virar"},
		ExpectedRate: 400,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.AuthResponse](t, w)
}

func (s *testServer) createJob(t *testing.T, token string) dto.JobDTO {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/jobs/create", token, dto.CreateJobRequest{
		Title:         "Unload truck",
		SkillRequired: "Loading",
		StationRange:  dto.StationRangeDTO{From: "vasai", To: "nalasopara"},
		Budget:        decimal.NewFromInt(500),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.JobDTO](t, w)
}

func TestHealth_MemoryMode(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "memory")
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "garbage token", token: "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/users/me", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "unauthorized", decode[dto.ErrorResponse](t, w).Code)
		})
	}
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t)
	s.registerClient(t, "9000000001")

	w := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Phone: "9000000001", Password: "wrong-pw"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Phone: "9000000001", Password: "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	auth := decode[dto.AuthResponse](t, w)

	w = s.do(t, http.MethodGet, "/api/users/me", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[dto.UserDTO](t, w)
	assert.Equal(t, "client", me.Role)
	assert.Equal(t, 100, me.ReliabilityScore)
}

func TestRegister_DuplicatePhoneConflicts(t *testing.T) {
	s := newTestServer(t)
	s.registerClient(t, "9000000002")

	w := s.do(t, http.MethodPost, "/api/auth/register/client", "", dto.RegisterClientRequest{
		Name: "Other", Phone: "9000000002", Email: "o@example.com", Password: "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", decode[dto.ErrorResponse](t, w).Code)
}

func TestRoleGuards(t *testing.T) {
	s := newTestServer(t)
	client := s.registerClient(t, "9000000003")
	labour := s.registerLabour(t, "9000000004")

	w := s.do(t, http.MethodGet, "/api/jobs", client.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/jobs/create", labour.Token, dto.CreateJobRequest{Title: "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	job := s.createJob(t, client.Token)
	w = s.do(t, http.MethodPatch, "/api/jobs/"+job.ID+"/accept", client.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "precondition_failed", decode[dto.ErrorResponse](t, w).Code)
}

func TestJobFlow_EndToEnd(t *testing.T) {
	s := newTestServer(t)
	client := s.registerClient(t, "9000000005")
	labour := s.registerLabour(t, "9000000006")
	job := s.createJob(t, client.Token)
	assert.Equal(t, "open", job.Status)

	w := s.do(t, http.MethodGet, "/api/jobs", labour.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode[dto.FeedResponse](t, w)
	require.Len(t, feed.Jobs, 1)
	assert.Equal(t, job.ID, feed.Jobs[0].ID)
	assert.Greater(t, feed.Jobs[0].Score, 0.0)

	w = s.do(t, http.MethodPatch, "/api/jobs/"+job.ID+"/accept", labour.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "assigned", decode[dto.JobDTO](t, w).Status)

	w = s.do(t, http.MethodPatch, "/api/jobs/"+job.ID+"/accept", labour.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPatch, "/api/jobs/"+job.ID+"/complete", labour.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	completed := decode[dto.CompleteJobResponse](t, w)
	assert.Equal(t, "completed", completed.Job.Status)
	assert.Equal(t, "500.00", completed.Payment.Amount)
	assert.Equal(t, "pending", completed.Payment.Status)
	paymentID := completed.Payment.ID

	w = s.do(t, http.MethodPatch, "/api/payments/"+paymentID+"/proof", client.Token,
		dto.SubmitProofRequest{ProofImage: "data:image/png;base64,iVBORw0KGgo="})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	payment := decode[dto.PaymentDTO](t, w)
	assert.Equal(t, "pending_confirmation", payment.Status)
	assert.Contains(t, payment.ProofImage, "/uploads/payments/")

	w = s.do(t, http.MethodPatch, "/api/payments/"+paymentID+"/confirm", labour.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", decode[dto.PaymentDTO](t, w).Status)

	w = s.do(t, http.MethodPatch, "/api/jobs/"+job.ID+"/rate", client.Token, dto.RateJobRequest{Rating: 5, Comment: "on time"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 75, decode[dto.RateJobResponse](t, w).ReliabilityScore)

	w = s.do(t, http.MethodPatch, "/api/jobs/"+job.ID+"/rate", client.Token, dto.RateJobRequest{Rating: 4})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/users/"+labour.User.ID+"/ratings", client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	ratings := decode[dto.RatingsResponse](t, w)
	require.Len(t, ratings.Ratings, 1)
	assert.Equal(t, "Asha", ratings.Ratings[0].ReviewerName)

	w = s.do(t, http.MethodGet, "/api/jobs/dashboard/labour", labour.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode[dto.LabourDashboardResponse](t, w)
	assert.Equal(t, 1, dash.CompletedJobs)
	assert.Equal(t, 500.0, dash.TotalEarnings)
}

func TestMyPosted_Pagination(t *testing.T) {
	s := newTestServer(t)
	client := s.registerClient(t, "9000000007")
	for i := 0; i < 3; i++ {
		s.createJob(t, client.Token)
	}

	w := s.do(t, http.MethodGet, "/api/jobs/my-posted?page_size=2", client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[dto.ListJobsResponse](t, w)
	assert.Len(t, first.Jobs, 2)
	require.NotEmpty(t, first.NextCursor)

	w = s.do(t, http.MethodGet, "/api/jobs/my-posted?page_size=2&cursor="+first.NextCursor, client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[dto.ListJobsResponse](t, w)
	assert.Len(t, second.Jobs, 1)
	assert.Empty(t, second.NextCursor)

	w = s.do(t, http.MethodGet, "/api/jobs/my-posted?cursor=bm9waXBl", client.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRaiseDispute_MultipartEvidence(t *testing.T) {
	s := newTestServer(t)
	client := s.registerClient(t, "9000000008")
	labour := s.registerLabour(t, "9000000009")
	job := s.createJob(t, client.Token)

	w := s.do(t, http.MethodPatch, "/api/jobs/"+job.ID+"/accept", labour.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("jobId", job.ID))
	require.NoError(t, mw.WriteField("text", "Client did not show up at the station"))
	part, err := mw.CreateFormFile("evidence", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/disputes", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+labour.Token)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dispute := decode[dto.DisputeDTO](t, rec)
	assert.Equal(t, "open", dispute.Status)
	assert.Contains(t, dispute.Evidence, "/uploads/disputes/")

	w = s.do(t, http.MethodGet, "/api/disputes/my", labour.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[dto.DisputesResponse](t, w).Disputes, 1)

	w = s.do(t, http.MethodPatch, "/api/disputes/"+dispute.ID+"/resolve", client.Token, dto.ResolveDisputeRequest{Resolution: "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRaiseDispute_ShortText(t *testing.T) {
	s := newTestServer(t)
	labour := s.registerLabour(t, "9000000010")

	w := s.do(t, http.MethodPost, "/api/disputes", labour.Token, dto.RaiseDisputeRequest{JobID: "j", Text: "too short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_failed", decode[dto.ErrorResponse](t, w).Code)
}

func TestRejectedUploads_AreRemoved(t *testing.T) {
	s := newTestServer(t)
	client := s.registerClient(t, "9000000011")
	labour := s.registerLabour(t, "9000000012")
	stranger := s.registerLabour(t, "9000000013")
	job := s.createJob(t, client.Token)

	w := s.do(t, http.MethodPatch, "/api/jobs/"+job.ID+"/accept", labour.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	tests := []struct {
		name      string
		path      string
		token     string
		fileField string
		fields    map[string]string
		status    int
	}{
		{
			name:      "dispute with short text",
			path:      "/api/disputes",
			token:     labour.Token,
			fileField: "evidence",
			fields:    map[string]string{"jobId": job.ID, "text": "short"},
			status:    http.StatusBadRequest,
		},
		{
			name:      "dispute on unknown job",
			path:      "/api/disputes",
			token:     labour.Token,
			fileField: "evidence",
			fields:    map[string]string{"jobId": "missing", "text": "Client did not show up at the station"},
			status:    http.StatusNotFound,
		},
		{
			name:      "dispute by a non participant",
			path:      "/api/disputes",
			token:     stranger.Token,
			fileField: "evidence",
			fields:    map[string]string{"jobId": job.ID, "text": "Client did not show up at the station"},
			status:    http.StatusConflict,
		},
		{
			name:      "proof for unknown payment",
			path:      "/api/payments/missing/proof",
			token:     client.Token,
			fileField: "paymentProof",
			status:    http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := http.MethodPost
			if tt.fileField == "paymentProof" {
				method = http.MethodPatch
			}
			w := s.doMultipart(t, method, tt.path, tt.token, tt.fileField, tt.fields)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Empty(t, s.storedFiles(t))
		})
	}

	w = s.do(t, http.MethodPatch, "/api/payments/missing/proof", client.Token,
		dto.SubmitProofRequest{ProofImage: "data:image/png;base64,iVBORw0KGgo="})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, s.storedFiles(t))
}

func TestLabourStats_MemoryModeProjection(t *testing.T) {
	s := newTestServer(t)
	client := s.registerClient(t, "9000000014")
	labour := s.registerLabour(t, "9000000015")
	job := s.createJob(t, client.Token)

	w := s.do(t, http.MethodPatch, "/api/jobs/"+job.ID+"/accept", labour.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPatch, "/api/jobs/"+job.ID+"/cancel", labour.Token, dto.CancelJobRequest{Reason: "fever"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/jobs/labour-stats/"+labour.User.ID, client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decode[dto.UserStatsResponse](t, w)
	assert.Equal(t, 1, stats.AcceptedJobs)
	assert.Equal(t, 1, stats.CancelledJobs)
	assert.Equal(t, 85, stats.StatsReliabilityScore)

	w = s.do(t, http.MethodGet, "/api/jobs/client-stats/"+client.User.ID, labour.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, decode[dto.UserStatsResponse](t, w).PostedJobs)
}
