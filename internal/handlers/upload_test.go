package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/lakshyamela/platform/internal/auth"
)

type fakeVerifier struct {
	resp *auth.VerifyResponse
	err  error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*auth.VerifyResponse, error) {
	return f.resp, f.err
}

type fakeAllowlist struct {
	allowed    bool
	err        error
	checkedFor string
}

func (f *fakeAllowlist) IsAllowed(_ context.Context, email string) (bool, error) {
	f.checkedFor = email
	return f.allowed, f.err
}

type fakeStore struct {
	enabled bool
	bucket  string
	baseURL string
	putErr  error

	putKey         string
	putBody        []byte
	putContentType string
}

func (f *fakeStore) Enabled() bool  { return f.enabled }
func (f *fakeStore) Bucket() string { return f.bucket }

func (f *fakeStore) Put(_ context.Context, key string, reader io.Reader, _ int64, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.putKey = key
	f.putBody, _ = io.ReadAll(reader)
	f.putContentType = contentType
	return nil
}

func (f *fakeStore) PublicURL(key string) (string, error) {
	if f.baseURL == "" {
		return "", errors.New("missing storage public base URL")
	}
	return f.baseURL + "/" + key, nil
}

func validVerifier() *fakeVerifier {
	return &fakeVerifier{resp: &auth.VerifyResponse{Valid: true, UserID: "u1", Email: "Owner@Uni.edu"}}
}

func validStore() *fakeStore {
	return &fakeStore{enabled: true, bucket: "mela-media", baseURL: "https://cdn.example.com"}
}

func doUpload(h *UploadHandler, req *http.Request) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/upload", h.Upload)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestUploadHandler_Preconditions(t *testing.T) {
	t.Run("storage not configured", func(t *testing.T) {
		h := NewUploadHandler(validVerifier(), &fakeAllowlist{allowed: true}, &fakeStore{enabled: false})
		req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString("data"))
		req.Header.Set("Authorization", "Bearer tok")

		rr := doUpload(h, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Missing storage bucket configuration", errorBody(t, rr)["error"])
	})

	t.Run("bucket missing", func(t *testing.T) {
		store := validStore()
		store.bucket = ""
		h := NewUploadHandler(validVerifier(), &fakeAllowlist{allowed: true}, store)
		req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString("data"))
		req.Header.Set("Authorization", "Bearer tok")

		rr := doUpload(h, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("missing authorization header", func(t *testing.T) {
		h := NewUploadHandler(validVerifier(), &fakeAllowlist{allowed: true}, validStore())
		req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString("data"))

		rr := doUpload(h, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Missing auth token", errorBody(t, rr)["error"])
	})

	t.Run("blank bearer token", func(t *testing.T) {
		h := NewUploadHandler(validVerifier(), &fakeAllowlist{allowed: true}, validStore())
		req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString("data"))
		req.Header.Set("Authorization", "Bearer   ")

		rr := doUpload(h, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		h := NewUploadHandler(&fakeVerifier{err: errors.New("status: 401")}, &fakeAllowlist{allowed: true}, validStore())
		req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString("data"))
		req.Header.Set("Authorization", "Bearer bad")

		rr := doUpload(h, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Invalid auth token", errorBody(t, rr)["error"])
	})

	t.Run("verified user without email", func(t *testing.T) {
		h := NewUploadHandler(&fakeVerifier{resp: &auth.VerifyResponse{Valid: true, UserID: "u1"}}, &fakeAllowlist{allowed: true}, validStore())
		req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString("data"))
		req.Header.Set("Authorization", "Bearer tok")

		rr := doUpload(h, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Email not found", errorBody(t, rr)["error"])
	})

	t.Run("allowlist lookup failure is a server error, not forbidden", func(t *testing.T) {
		h := NewUploadHandler(validVerifier(), &fakeAllowlist{err: errors.New("db down")}, validStore())
		req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString("data"))
		req.Header.Set("Authorization", "Bearer tok")

		rr := doUpload(h, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		body := errorBody(t, rr)
		assert.Equal(t, "Failed to verify email", body["error"])
		assert.Equal(t, "db down", body["details"])
	})

	t.Run("email in neither allowlist", func(t *testing.T) {
		allowlist := &fakeAllowlist{allowed: false}
		h := NewUploadHandler(validVerifier(), allowlist, validStore())
		req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString("data"))
		req.Header.Set("Authorization", "Bearer tok")

		rr := doUpload(h, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Email not authorized", errorBody(t, rr)["error"])
		// Membership is checked against the case-folded email.
		assert.Equal(t, "owner@uni.edu", allowlist.checkedFor)
	})

	t.Run("empty body", func(t *testing.T) {
		h := NewUploadHandler(validVerifier(), &fakeAllowlist{allowed: true}, validStore())
		req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewReader(nil))
		req.Header.Set("Authorization", "Bearer tok")

		rr := doUpload(h, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Empty upload", errorBody(t, rr)["error"])
	})
}

func TestUploadHandler_Success(t *testing.T) {
	fixed := time.UnixMilli(1712345678901)

	newHandler := func(store *fakeStore) *UploadHandler {
		h := NewUploadHandler(validVerifier(), &fakeAllowlist{allowed: true}, store)
		h.now = func() time.Time { return fixed }
		return h
	}

	t.Run("derives key and public url", func(t *testing.T) {
		store := validStore()
		h := newHandler(store)

		req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString("image-bytes"))
		req.Header.Set("Authorization", "Bearer tok")
		req.Header.Set("x-file-name", "my file?.png")
		req.Header.Set("Content-Type", "image/png")

		rr := doUpload(h, req)
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			URL string `json:"url"`
			Key string `json:"key"`
		}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "stalls/owner@uni.edu/1712345678901-my_file_.png", resp.Key)
		assert.Equal(t, "https://cdn.example.com/stalls/owner@uni.edu/1712345678901-my_file_.png", resp.URL)

		assert.Equal(t, resp.Key, store.putKey)
		assert.Equal(t, []byte("image-bytes"), store.putBody)
		assert.Equal(t, "image/png", store.putContentType)
	})

	t.Run("defaults for folder, filename and content type", func(t *testing.T) {
		store := validStore()
		h := newHandler(store)

		req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString("x"))
		req.Header.Set("Authorization", "Bearer tok")

		rr := doUpload(h, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "stalls/owner@uni.edu/1712345678901-upload", store.putKey)
		assert.Equal(t, "application/octet-stream", store.putContentType)
	})

	t.Run("folder query overrides default", func(t *testing.T) {
		store := validStore()
		h := newHandler(store)

		req := httptest.NewRequest(http.MethodPost, "/api/upload?folder=banners", bytes.NewBufferString("x"))
		req.Header.Set("Authorization", "Bearer tok")

		rr := doUpload(h, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "banners/owner@uni.edu/1712345678901-upload", store.putKey)
	})

	t.Run("storage write failure", func(t *testing.T) {
		store := validStore()
		store.putErr = errors.New("bucket unreachable")
		h := newHandler(store)

		req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString("x"))
		req.Header.Set("Authorization", "Bearer tok")

		rr := doUpload(h, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		body := errorBody(t, rr)
		assert.Equal(t, "Failed to store upload", body["error"])
		assert.Equal(t, "bucket unreachable", body["details"])
	})

	t.Run("missing public base url after successful write", func(t *testing.T) {
		store := validStore()
		store.baseURL = ""
		h := newHandler(store)

		req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString("x"))
		req.Header.Set("Authorization", "Bearer tok")

		rr := doUpload(h, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Missing storage public base URL", errorBody(t, rr)["error"])
	})
}
