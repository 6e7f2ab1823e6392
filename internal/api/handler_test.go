package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"repo-lessons/internal/auth"
	"repo-lessons/internal/database"
	custom_errors "repo-lessons/internal/errors"
	"repo-lessons/internal/intake"
	"repo-lessons/internal/lesson"
	"repo-lessons/internal/model"
)

type fakeFlow struct {
	repo model.Repository
	err  error
}

func (f *fakeFlow) Analyze(ctx context.Context, rawURL string, progress intake.ProgressFunc) (model.Repository, error) {
	if f.err != nil {
		return model.Repository{}, f.err
	}
	return f.repo, nil
}

type fakeLessons struct {
	latest      model.Lesson
	latestErr   error
	generated   model.Lesson
	generateErr error
}

func (f *fakeLessons) Latest(ctx context.Context, commitID string) (model.Lesson, error) {
	return f.latest, f.latestErr
}

func (f *fakeLessons) Generate(ctx context.Context, commitID string) (model.Lesson, error) {
	return f.generated, f.generateErr
}

type testEnv struct {
	mockQ    *database.MockQuerier
	flow     *fakeFlow
	lessons  *fakeLessons
	sessions *auth.Sessions
	server   *httptest.Server
	token    string
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		mockQ:    new(database.MockQuerier),
		flow:     &fakeFlow{},
		lessons:  &fakeLessons{},
		sessions: auth.NewSessions(),
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	router := NewRouter(env.mockQ, env.flow, env.lessons, env.sessions, logger)
	env.server = httptest.NewServer(router)
	t.Cleanup(env.server.Close)

	env.token = env.sessions.Login(auth.User{Login: "tester", Email: "tester@example.com"})
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body any, authed bool) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, env.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+env.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthCheck(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, http.MethodGet, "/health", nil, false)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthGate(t *testing.T) {
	env := setupTestServer(t)

	t.Run("rejects requests without a token", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/v1/repositories", nil, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects unknown tokens", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, env.server.URL+"/v1/repositories", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer bogus")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("accepts a valid session", func(t *testing.T) {
		env.mockQ.On("ListRepositories", mock.Anything).Return([]model.Repository{}, nil).Once()
		resp := env.do(t, http.MethodGet, "/v1/repositories", nil, true)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestLoginLogout(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, http.MethodPost, "/v1/auth/login", map[string]string{"login": "octocat"}, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]any](t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	_, ok := env.sessions.UserForToken(token)
	assert.True(t, ok)

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/v1/auth/logout", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	logoutResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer logoutResp.Body.Close()
	assert.Equal(t, http.StatusOK, logoutResp.StatusCode)

	_, ok = env.sessions.UserForToken(token)
	assert.False(t, ok)
}

func TestAnalyzeRepository(t *testing.T) {
	t.Run("returns created repository", func(t *testing.T) {
		env := setupTestServer(t)
		env.flow.repo = model.Repository{
			ID:           "repo-1",
			FullName:     "acme/widgets",
			Status:       model.RepoStatusCompleted,
			TotalCommits: 7,
		}

		resp := env.do(t, http.MethodPost, "/v1/repositories", map[string]string{"url": "https://github.com/acme/widgets"}, true)

		require.Equal(t, http.StatusCreated, resp.StatusCode)
		repo := decodeBody[model.Repository](t, resp)
		assert.Equal(t, model.RepoStatusCompleted, repo.Status)
		assert.Equal(t, 7, repo.TotalCommits)
	})

	t.Run("invalid URL is a 400", func(t *testing.T) {
		env := setupTestServer(t)
		env.flow.err = &custom_errors.ErrInvalidRepoURL{URL: "nope"}

		resp := env.do(t, http.MethodPost, "/v1/repositories", map[string]string{"url": "nope"}, true)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing url field is a 400", func(t *testing.T) {
		env := setupTestServer(t)

		resp := env.do(t, http.MethodPost, "/v1/repositories", map[string]string{}, true)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("flow failure is a 500", func(t *testing.T) {
		env := setupTestServer(t)
		env.flow.err = errors.New("persistence exploded")

		resp := env.do(t, http.MethodPost, "/v1/repositories", map[string]string{"url": "https://github.com/acme/widgets"}, true)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestListCommits(t *testing.T) {
	t.Run("unknown repository is a 404", func(t *testing.T) {
		env := setupTestServer(t)
		env.mockQ.On("GetRepository", mock.Anything, "missing").Return(model.Repository{}, pgx.ErrNoRows).Once()

		resp := env.do(t, http.MethodGet, "/v1/repositories/missing/commits", nil, true)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("returns timeline in ascending order", func(t *testing.T) {
		env := setupTestServer(t)
		env.mockQ.On("GetRepository", mock.Anything, "repo-1").Return(model.Repository{ID: "repo-1"}, nil).Once()
		env.mockQ.On("ListCommitsByRepository", mock.Anything, "repo-1").Return([]model.Commit{
			{ID: "c1", OrderIndex: 1},
			{ID: "c2", OrderIndex: 2},
			{ID: "c3", OrderIndex: 3},
		}, nil).Once()

		resp := env.do(t, http.MethodGet, "/v1/repositories/repo-1/commits", nil, true)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		commits := decodeBody[[]model.Commit](t, resp)
		require.Len(t, commits, 3)
		for i, c := range commits {
			assert.Equal(t, i+1, c.OrderIndex)
		}
	})
}

func TestGetCommitFiles(t *testing.T) {
	env := setupTestServer(t)
	env.mockQ.On("GetCommit", mock.Anything, "c1").Return(model.Commit{ID: "c1"}, nil).Once()
	env.mockQ.On("ListCommitFilesByCommit", mock.Anything, "c1").Return([]model.CommitFile{
		{
			ID:       "f1",
			CommitID: "c1",
			Filename: "x",
			Status:   model.FileStatusModified,
			Patch:    "+++ b/x\n@@ -1,1 +1,1 @@\n+foo\n-bar\n baz\n",
		},
	}, nil).Once()

	resp := env.do(t, http.MethodGet, "/v1/commits/c1/files", nil, true)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	files := decodeBody[[]commitFileView](t, resp)
	require.Len(t, files, 1)
	require.Len(t, files[0].Lines, 5)

	kinds := make([]string, 0, 5)
	for _, l := range files[0].Lines {
		kinds = append(kinds, string(l.Kind))
	}
	assert.Equal(t, []string{"file-header", "hunk", "addition", "deletion", "context"}, kinds)
}

func TestLessonEndpoints(t *testing.T) {
	t.Run("ungenerated lesson is a 404", func(t *testing.T) {
		env := setupTestServer(t)
		env.lessons.latestErr = lesson.ErrNoLesson

		resp := env.do(t, http.MethodGet, "/v1/commits/c1/lesson", nil, true)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("returns the newest lesson", func(t *testing.T) {
		env := setupTestServer(t)
		env.lessons.latest = model.Lesson{ID: "lesson-2", CommitID: "c1", Title: "Understanding: Initial commit"}

		resp := env.do(t, http.MethodGet, "/v1/commits/c1/lesson", nil, true)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		l := decodeBody[model.Lesson](t, resp)
		assert.Equal(t, "lesson-2", l.ID)
	})

	t.Run("generates a lesson", func(t *testing.T) {
		env := setupTestServer(t)
		env.lessons.generated = model.Lesson{ID: "lesson-1", CommitID: "c1", Difficulty: model.DifficultyIntermediate}

		resp := env.do(t, http.MethodPost, "/v1/commits/c1/lesson", nil, true)

		require.Equal(t, http.StatusCreated, resp.StatusCode)
		l := decodeBody[model.Lesson](t, resp)
		assert.Equal(t, model.DifficultyIntermediate, l.Difficulty)
	})

	t.Run("gateway failure is a 502", func(t *testing.T) {
		env := setupTestServer(t)
		env.lessons.generateErr = &custom_errors.ErrGenerationFailed{Err: errors.New("model overloaded")}

		resp := env.do(t, http.MethodPost, "/v1/commits/c1/lesson", nil, true)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("unknown commit is a 404", func(t *testing.T) {
		env := setupTestServer(t)
		env.lessons.generateErr = pgx.ErrNoRows

		resp := env.do(t, http.MethodPost, "/v1/commits/missing/lesson", nil, true)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
