package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestClient creates a httptest server and a github client pointing to it.
func setupTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := NewClient("", logger)

	// Override the client's internal http client to point to our test server.
	testClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	testClient.BaseURL = baseURL
	testClient.UploadURL = baseURL
	client.gh = testClient

	return client, server
}

func TestGetRepositoryMetadata(t *testing.T) {
	t.Run("returns metadata on success", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/acme/widgets", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{"id": 1, "name": "widgets", "owner": {"login": "acme"}, "description": "A widget factory", "default_branch": "main", "html_url": "https://github.com/acme/widgets"}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		meta, err := client.GetRepositoryMetadata(context.Background(), "acme", "widgets")

		require.NoError(t, err)
		assert.Equal(t, "A widget factory", meta.Description)
		assert.Equal(t, "main", meta.DefaultBranch)
		assert.Equal(t, "https://github.com/acme/widgets", meta.HTMLURL)
	})

	t.Run("propagates API errors", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"message": "Not Found"}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.GetRepositoryMetadata(context.Background(), "acme", "missing")

		require.Error(t, err)
	})
}
