package pocketbase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mrchypark/pocketbase-go-skill/internal/common"
	"github.com/mrchypark/pocketbase-go-skill/internal/logging"
	"github.com/mrchypark/pocketbase-go-skill/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	mux      *http.ServeMux
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{mux: http.NewServeMux()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		fb.mu.Lock()
		fb.requests = append(fb.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get(common.AuthorizationHeaderName),
			Body:   string(body),
		})
		fb.mu.Unlock()
		fb.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) recorded() []recordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]recordedRequest(nil), fb.requests...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func testOptions() Options {
	return Options{Timeout: 2 * time.Second, PageSize: 200, HealthAttempts: 2, HealthInterval: time.Millisecond}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix(), "type": "auth"})
	s, err := tok.SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return s
}

func TestAuthenticate_FallsBackToLegacyAdminsEndpoint(t *testing.T) {
	fb, srv := newFakeBackend(t)
	token := signedToken(t, time.Now().Add(time.Hour))

	fb.mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"code": 200})
	})
	fb.mux.HandleFunc("/api/collections/_superusers/auth-with-password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "missing collection"})
	})
	fb.mux.HandleFunc("/api/admins/auth-with-password", func(w http.ResponseWriter, r *http.Request) {
		var req authRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Identity != "admin@example.com" || req.Password != "secret" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "bad"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": token})
	})
	fb.mux.HandleFunc("/api/collections", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
	})

	c := NewHTTPClient(srv.URL+"/", testOptions(), logging.Discard())
	got, err := c.Authenticate(context.Background(), "admin@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, token, got.Value)
	assert.False(t, got.ExpiresAt.IsZero())

	_, err = c.ListCollections(context.Background(), "")
	require.NoError(t, err)

	reqs := fb.recorded()
	require.Len(t, reqs, 4)
	assert.Equal(t, "/api/health", reqs[0].Path)
	assert.Equal(t, "/api/collections/_superusers/auth-with-password", reqs[1].Path)
	assert.Equal(t, "/api/admins/auth-with-password", reqs[2].Path)
	assert.Empty(t, reqs[2].Auth, "auth requests carry no token")
	assert.Equal(t, token, reqs[3].Auth, "later calls carry the token")
}

func TestAuthenticate_AllVariantsFail(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	fb.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Failed to authenticate."})
	})

	c := NewHTTPClient(srv.URL, testOptions(), logging.Discard())
	_, err := c.Authenticate(context.Background(), "a", "b")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestAuthenticate_RejectsExpiredAndEmptyTokens(t *testing.T) {
	fb, srv := newFakeBackend(t)
	expired := signedToken(t, time.Now().Add(-time.Minute))
	fb.mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	fb.mux.HandleFunc("/api/collections/_superusers/auth-with-password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"token": expired})
	})
	fb.mux.HandleFunc("/api/admins/auth-with-password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	c := NewHTTPClient(srv.URL, testOptions(), logging.Discard())
	_, err := c.Authenticate(context.Background(), "a", "b")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.ErrorIs(t, err, common.ErrInvalidResponse)
}

func TestAuthenticate_WaitsForHealthThenProceeds(t *testing.T) {
	fb, srv := newFakeBackend(t)
	var healthCalls int
	fb.mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		healthCalls++
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{})
	})
	fb.mux.HandleFunc("/api/collections/_superusers/auth-with-password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"token": "opaque-token"})
	})

	opts := testOptions()
	opts.HealthAttempts = 3
	c := NewHTTPClient(srv.URL, opts, logging.Discard())

	tok, err := c.Authenticate(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", tok.Value)
	assert.True(t, tok.ExpiresAt.IsZero())
	assert.Equal(t, 3, healthCalls)
}

func TestListCollections_PagedAndBareArray(t *testing.T) {
	t.Run("paged", func(t *testing.T) {
		fb, srv := newFakeBackend(t)
		fb.mux.HandleFunc("/api/collections", func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("page") {
			case "1":
				writeJSON(w, http.StatusOK, map[string]any{
					"page": 1, "totalPages": 2,
					"items": []any{map[string]any{"id": "1", "name": "posts", "type": "base", "fields": []any{}}},
				})
			default:
				writeJSON(w, http.StatusOK, map[string]any{
					"page": 2, "totalPages": 2,
					"items": []any{map[string]any{"id": "2", "name": "tags", "type": "base", "fields": []any{}}},
				})
			}
		})

		c := NewHTTPClient(srv.URL, testOptions(), logging.Discard())
		items, err := c.ListCollections(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, []string{"posts", "tags"}, models.Document(items).Names())

		reqs := fb.recorded()
		require.Len(t, reqs, 2)
		assert.Contains(t, reqs[0].Query, "perPage=200")
	})

	t.Run("bare array", func(t *testing.T) {
		fb, srv := newFakeBackend(t)
		fb.mux.HandleFunc("/api/collections", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []any{map[string]any{"id": "1", "name": "posts"}})
		})

		c := NewHTTPClient(srv.URL, testOptions(), logging.Discard())
		items, err := c.ListCollections(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "1", items[0].ID)
	})

	t.Run("filter is forwarded", func(t *testing.T) {
		fb, srv := newFakeBackend(t)
		fb.mux.HandleFunc("/api/collections", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "name='posts'", r.URL.Query().Get("filter"))
			writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
		})

		c := NewHTTPClient(srv.URL, testOptions(), logging.Discard())
		items, err := c.ListCollections(context.Background(), "name='posts'")
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Len(t, fb.recorded(), 1)
	})
}

func TestGetCollection_ErrorMapping(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.mux.HandleFunc("/api/collections/posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": "pbc_1", "name": "posts", "fields": []any{}})
	})
	fb.mux.HandleFunc("/api/collections/missing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "The requested resource wasn't found."})
	})
	fb.mux.HandleFunc("/api/collections/secret", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{})
	})

	c := NewHTTPClient(srv.URL, testOptions(), logging.Discard())
	ctx := context.Background()

	got, err := c.GetCollection(ctx, "posts")
	require.NoError(t, err)
	assert.Equal(t, "pbc_1", got.ID)

	_, err = c.GetCollection(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Contains(t, httpErr.Error(), "wasn't found")

	_, err = c.GetCollection(ctx, "secret")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateAndUpdateCollection(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.mux.HandleFunc("/api/collections", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var in map[string]any
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{})
			return
		}
		in["id"] = "pbc_new"
		writeJSON(w, http.StatusOK, in)
	})
	fb.mux.HandleFunc("/api/collections/pbc_new", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	c := NewHTTPClient(srv.URL, testOptions(), logging.Discard())
	ctx := context.Background()

	created, err := c.CreateCollection(ctx, models.Collection{Name: "posts", Type: models.TypeBase, Fields: []models.Field{}})
	require.NoError(t, err)
	assert.Equal(t, "pbc_new", created.ID)

	_, err = c.UpdateCollection(ctx, "pbc_new", FieldsPatch{Fields: []models.Field{models.NewField("title", "text", nil)}})
	require.NoError(t, err)

	reqs := fb.recorded()
	require.Len(t, reqs, 2)
	assert.JSONEq(t, `{"name":"posts","type":"base","fields":[]}`, reqs[0].Body)
	assert.JSONEq(t, `{"fields":[{"name":"title","type":"text"}]}`, reqs[1].Body)
}

func TestDo_NetworkFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, testOptions(), logging.Discard())
	err := c.Health(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_MalformedBody(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.mux.HandleFunc("/api/collections/posts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{not json`))
	})

	c := NewHTTPClient(srv.URL, testOptions(), logging.Discard())
	_, err := c.GetCollection(context.Background(), "posts")
	assert.ErrorIs(t, err, common.ErrInvalidResponse)
}
