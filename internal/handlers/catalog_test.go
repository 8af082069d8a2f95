package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeClubAllowlist struct {
	emails []string
	err    error
}

func (f *fakeClubAllowlist) ClubEmails(_ context.Context) ([]string, error) {
	return f.emails, f.err
}

type fakeStallLister struct {
	payloads []json.RawMessage
	err      error

	called      bool
	gotEmails   []string
	gotCategory string
}

func (f *fakeStallLister) ListByOwners(_ context.Context, emails []string, category string) ([]json.RawMessage, error) {
	f.called = true
	f.gotEmails = emails
	f.gotCategory = category
	return f.payloads, f.err
}

func doListClubs(h *CatalogHandler, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/public/clubs", h.ListClubStalls)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestCatalogHandler_ListClubStalls(t *testing.T) {
	t.Run("allowlist failure", func(t *testing.T) {
		h := NewCatalogHandler(&fakeClubAllowlist{err: errors.New("db down")}, &fakeStallLister{})
		rr := doListClubs(h, "/api/public/clubs")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		var body map[string]string
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "Failed to load club allowlist", body["error"])
		assert.Equal(t, "db down", body["details"])
	})

	t.Run("empty allowlist short-circuits without a submissions query", func(t *testing.T) {
		lister := &fakeStallLister{}
		h := NewCatalogHandler(&fakeClubAllowlist{emails: nil}, lister)
		rr := doListClubs(h, "/api/public/clubs")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"stalls":[]}`, rr.Body.String())
		assert.False(t, lister.called)
	})

	t.Run("returns payloads verbatim in order", func(t *testing.T) {
		lister := &fakeStallLister{payloads: []json.RawMessage{
			json.RawMessage(`{"name":"Newest","category":"food"}`),
			json.RawMessage(`{"name":"Older","category":"games"}`),
		}}
		h := NewCatalogHandler(&fakeClubAllowlist{emails: []string{"club@uni.edu"}}, lister)
		rr := doListClubs(h, "/api/public/clubs")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t,
			`{"stalls":[{"name":"Newest","category":"food"},{"name":"Older","category":"games"}]}`,
			rr.Body.String())
		assert.Equal(t, []string{"club@uni.edu"}, lister.gotEmails)
		assert.Equal(t, "", lister.gotCategory)
	})

	t.Run("category is lowercased before filtering", func(t *testing.T) {
		lister := &fakeStallLister{payloads: []json.RawMessage{}}
		h := NewCatalogHandler(&fakeClubAllowlist{emails: []string{"club@uni.edu"}}, lister)
		rr := doListClubs(h, "/api/public/clubs?category=FooD")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "food", lister.gotCategory)
	})

	t.Run("submissions failure", func(t *testing.T) {
		lister := &fakeStallLister{err: errors.New("query timeout")}
		h := NewCatalogHandler(&fakeClubAllowlist{emails: []string{"club@uni.edu"}}, lister)
		rr := doListClubs(h, "/api/public/clubs")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		var body map[string]string
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "Failed to load club stalls", body["error"])
		assert.Equal(t, "query timeout", body["details"])
	})
}
