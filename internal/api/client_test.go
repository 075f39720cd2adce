package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideahub/internal/apperr"
	"ideahub/internal/metrics"
	"ideahub/internal/models"
	"ideahub/internal/session"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token() (string, error) {
	return s.token, s.err
}

func newTestClient(baseURL string, tokens TokenSource) *Client {
	return NewClient(baseURL, 2*time.Second, tokens, metrics.NewCollector(), nil)
}

func TestAuthenticatedCallCarriesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, staticTokens{token: "tok-123"})
	_, err := client.AllPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestMissingTokenBlocksRequest(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	client := newTestClient(server.URL, staticTokens{err: apperr.NewNoSessionError()})
	_, err := client.AllPosts(context.Background())
	assert.True(t, apperr.IsCode(err, apperr.ErrNoSession))
	assert.Zero(t, hits, "no request may leave the client without a token")
}

func TestLoginDoesNotRequireToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "sam@example.com", creds["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok", "id": "u1", "name": "Sam", "is_moderator": true,
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, staticTokens{err: apperr.NewNoSessionError()})
	result, err := client.Login(context.Background(), "sam@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", result.Token)
	assert.Equal(t, "u1", result.UserID)
	assert.True(t, result.IsModerator)
}

func TestLoginMapsRejectionToInvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "bad password"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, staticTokens{})
	_, err := client.Login(context.Background(), "sam@example.com", "nope")
	assert.True(t, apperr.IsCode(err, apperr.ErrInvalidCredentials))
}

func TestLoginThenListCarriesStoredToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/login":
			json.NewEncoder(w).Encode(map[string]any{"token": "tok-777", "id": "u1", "name": "Sam"})
		case "/api/posts/all":
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`[]`))
		}
	}))
	defer server.Close()

	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	client := newTestClient(server.URL, store)

	result, err := client.Login(context.Background(), "sam@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, store.Save(&session.Session{
		Token: result.Token, UserID: result.UserID, UserName: result.Name,
	}))

	_, err = client.AllPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-777", gotAuth)
}

func TestBackendErrorMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "not yours"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, staticTokens{token: "tok"})
	err := client.DeletePost(context.Background(), "p1")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.ErrForbidden))
	assert.Contains(t, err.Error(), "not yours")
}

func TestToggleLikeIsIdempotentPerPair(t *testing.T) {
	likes := map[string]bool{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/posts/like/p1/by/u1", r.URL.Path)

		likes["u1"] = !likes["u1"]
		count := 0
		if likes["u1"] {
			count = 1
		}
		json.NewEncoder(w).Encode(map[string]any{"liked": likes["u1"], "likes": count})
	}))
	defer server.Close()

	client := newTestClient(server.URL, staticTokens{token: "tok"})

	first, err := client.ToggleLike(context.Background(), "p1", "u1")
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.Equal(t, 1, first.Count)

	// Toggling twice returns to the original membership state and count.
	second, err := client.ToggleLike(context.Background(), "p1", "u1")
	require.NoError(t, err)
	assert.False(t, second.Liked)
	assert.Equal(t, 0, second.Count)
}

func TestMyPostsSendsUserIDParam(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/myposts", r.URL.Path)
		assert.Equal(t, "u1", r.URL.Query().Get("userId"))
		w.Write([]byte(`[{"id": "p1", "title": "mine"}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, staticTokens{token: "tok"})
	posts, err := client.MyPosts(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "mine", posts[0].Title)
}

func TestCreatePostJSONWithoutAttachment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		var payload struct {
			Post struct {
				Title  string        `json:"title"`
				Status models.Status `json:"status"`
			} `json:"post"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "idea", payload.Post.Title)
		assert.Equal(t, models.StatusDraft, payload.Post.Status)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newTestClient(server.URL, staticTokens{token: "tok"})
	err := client.CreatePost(context.Background(), PostSubmission{
		Author:  models.Author{ID: "u1", Name: "Sam"},
		Title:   "idea",
		Content: "body",
	})
	require.NoError(t, err)
}

func TestCreatePostMultipartWithAttachment(t *testing.T) {
	attachment := filepath.Join(t.TempDir(), "sketch.png")
	require.NoError(t, os.WriteFile(attachment, []byte("png-bytes"), 0o600))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		var submitted struct {
			Title string `json:"title"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("post")), &submitted))
		assert.Equal(t, "idea", submitted.Title)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "sketch.png", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(content))

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newTestClient(server.URL, staticTokens{token: "tok"})
	err := client.CreatePost(context.Background(), PostSubmission{
		Author:         models.Author{ID: "u1", Name: "Sam"},
		Title:          "idea",
		Content:        "body",
		AttachmentPath: attachment,
	})
	require.NoError(t, err)
}

func TestUpdatePostSendsExplicitRemoveFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/posts/p1", r.URL.Path)

		var payload map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.JSONEq(t, "true", string(payload["removeResource"]))
	}))
	defer server.Close()

	client := newTestClient(server.URL, staticTokens{token: "tok"})
	err := client.UpdatePost(context.Background(), "p1", PostSubmission{
		Author:         models.Author{ID: "u1", Name: "Sam"},
		Title:          "idea",
		Content:        "body",
		Status:         models.StatusDraft,
		RemoveResource: true,
	})
	require.NoError(t, err)
}
