//go:build integration

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"repo-lessons/internal/database"
	"repo-lessons/internal/history"
	"repo-lessons/internal/intake"
	"repo-lessons/internal/lesson"
	"repo-lessons/internal/model"
	"repo-lessons/internal/textgen"
)

func setupTestDatabase(ctx context.Context, t *testing.T) (*pgxpool.Pool, func()) {
	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := migrate.New("file://../../migrations", connStr)
	require.NoError(t, err)
	err = m.Up()
	require.NoError(t, err)

	dbpool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	teardown := func() {
		dbpool.Close()
		err := pgContainer.Terminate(ctx)
		require.NoError(t, err)
	}

	return dbpool, teardown
}

func TestIntakeAndLessons_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbpool, teardown := setupTestDatabase(ctx, t)
	defer teardown()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := database.NewStore(dbpool)

	gen := history.NewSeededGenerator(42, time.Now)
	flow := intake.NewFlow(store, gen, nil, logger)

	// --- ACT: run the full intake ---
	repo, err := flow.Analyze(ctx, "https://github.com/acme/widgets", nil)
	require.NoError(t, err)

	// --- ASSERT: repository finalized ---
	assert.Equal(t, model.RepoStatusCompleted, repo.Status)
	assert.Equal(t, "acme/widgets", repo.FullName)

	commits, err := store.ListCommitsByRepository(ctx, repo.ID)
	require.NoError(t, err)
	require.NotEmpty(t, commits)
	assert.Equal(t, repo.TotalCommits, len(commits))
	assert.LessOrEqual(t, len(commits), history.MaxCommits)

	// Timeline is ascending and contiguous from 1.
	for i, c := range commits {
		assert.Equal(t, i+1, c.OrderIndex)

		files, err := store.ListCommitFilesByCommit(ctx, c.ID)
		require.NoError(t, err)
		assert.Len(t, files, c.FilesChanged)
	}

	// --- Lessons against a fake generation service ---
	genServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(textgen.GenerateResponse{Text: "This commit lays the project groundwork."})
	}))
	defer genServer.Close()

	lessons := lesson.NewService(store, textgen.NewClient(genServer.URL, "test-model", 512), logger)
	commitID := commits[0].ID

	_, err = lessons.Latest(ctx, commitID)
	require.ErrorIs(t, err, lesson.ErrNoLesson)

	first, err := lessons.Generate(ctx, commitID)
	require.NoError(t, err)

	second, err := lessons.Generate(ctx, commitID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// The panel displays the newest lesson.
	latest, err := lessons.Latest(ctx, commitID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}
