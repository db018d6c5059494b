package upload

import (
	"bytes"
	"encoding/base64"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(t.TempDir(), 1024)
	require.NoError(t, err)
	return s
}

func multipartFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("evidence", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["evidence"][0]
}

func readPublic(t *testing.T, s *Storage, public string) []byte {
	t.Helper()
	require.True(t, strings.HasPrefix(public, PublicPrefix+"/"))
	data, err := os.ReadFile(filepath.Join(s.Root, strings.TrimPrefix(public, PublicPrefix+"/")))
	require.NoError(t, err)
	return data
}

func TestNewStorage_CreatesKindDirs(t *testing.T) {
	s := newStorage(t)
	for _, k := range []Kind{KindProfile, KindDispute, KindPayment, KindMisc} {
		info, err := os.Stat(filepath.Join(s.Root, string(k)))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestStorage_Save(t *testing.T) {
	s := newStorage(t)

	public, err := s.Save(KindDispute, multipartFile(t, "receipt.PNG", []byte("png-bytes")))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(public, "/uploads/disputes/"))
	assert.True(t, strings.HasSuffix(public, ".png"))
	assert.Equal(t, []byte("png-bytes"), readPublic(t, s, public))
}

func TestStorage_SaveRejects(t *testing.T) {
	s := newStorage(t)

	_, err := s.Save(KindDispute, nil)
	assert.ErrorIs(t, err, ErrFileRequired)

	_, err = s.Save(KindDispute, multipartFile(t, "script.sh", []byte("echo")))
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = s.Save(KindDispute, multipartFile(t, "big.jpg", bytes.Repeat([]byte("x"), 2048)))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestStorage_SaveDataURL(t *testing.T) {
	s := newStorage(t)
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))

	public, err := s.SaveDataURL(KindPayment, dataURL)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(public, "/uploads/payments/"))
	assert.True(t, strings.HasSuffix(public, ".jpg"))
	assert.Equal(t, []byte("jpeg-bytes"), readPublic(t, s, public))
}

func TestStorage_SaveDataURLRejects(t *testing.T) {
	s := newStorage(t)

	tests := []struct {
		name    string
		dataURL string
		wantErr error
	}{
		{name: "not a data url", dataURL: "https://example.com/a.png", wantErr: ErrInvalidDataURL},
		{name: "not base64", dataURL: "data:image/png,raw", wantErr: ErrInvalidDataURL},
		{name: "bad payload", dataURL: "data:image/png;base64,@@@", wantErr: ErrInvalidDataURL},
		{name: "unsupported mime", dataURL: "data:text/html;base64,PGI+", wantErr: ErrInvalidFileType},
		{name: "empty payload", dataURL: "data:image/png;base64,", wantErr: ErrFileRequired},
		{
			name:    "too large",
			dataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("x"), 2048)),
			wantErr: ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SaveDataURL(KindPayment, tt.dataURL)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStorage_UnknownKindGoesToMisc(t *testing.T) {
	s := newStorage(t)
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("x"))

	public, err := s.SaveDataURL(Kind("other"), dataURL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(public, "/uploads/misc/"))
}

func TestIsDataURL(t *testing.T) {
	assert.True(t, IsDataURL("data:image/png;base64,AAAA"))
	assert.False(t, IsDataURL("/uploads/payments/1.png"))
}

func TestStorage_Remove(t *testing.T) {
	s := newStorage(t)

	public, err := s.Save(KindDispute, multipartFile(t, "evidence.png", []byte("png-bytes")))
	require.NoError(t, err)

	require.NoError(t, s.Remove(public))
	_, err = os.Stat(filepath.Join(s.Root, strings.TrimPrefix(public, PublicPrefix+"/")))
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, s.Remove(public))
}

func TestStorage_RemoveRejectsPathsOutsideRoot(t *testing.T) {
	s := newStorage(t)
	outside := filepath.Join(filepath.Dir(s.Root), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	for _, p := range []string{
		"",
		"/elsewhere/disputes/a.png",
		PublicPrefix + "/disputes",
		PublicPrefix + "/disputes/../../keep.txt",
		PublicPrefix + "/secrets/a.png",
		PublicPrefix + "/disputes/nested/a.png",
	} {
		assert.ErrorIs(t, s.Remove(p), ErrInvalidPath, p)
	}

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}
