// Package api exposes the HTTP surface: repository intake, the commit
// timeline, the diff viewer payload, and lesson retrieval/generation, all
// gated behind a session.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"

	"repo-lessons/internal/auth"
	"repo-lessons/internal/database"
	"repo-lessons/internal/diff"
	custom_errors "repo-lessons/internal/errors"
	"repo-lessons/internal/intake"
	"repo-lessons/internal/lesson"
	"repo-lessons/internal/model"
)

// IntakeRunner runs the repository analysis flow.
type IntakeRunner interface {
	Analyze(ctx context.Context, rawURL string, progress intake.ProgressFunc) (model.Repository, error)
}

// LessonProvider retrieves and generates lessons for commits.
type LessonProvider interface {
	Latest(ctx context.Context, commitID string) (model.Lesson, error)
	Generate(ctx context.Context, commitID string) (model.Lesson, error)
}

// Handler is the container for API dependencies.
type Handler struct {
	db       database.Querier
	flow     IntakeRunner
	lessons  LessonProvider
	sessions *auth.Sessions
	logger   *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(db database.Querier, flow IntakeRunner, lessons LessonProvider, sessions *auth.Sessions, logger *slog.Logger) http.Handler {
	h := &Handler{
		db:       db,
		flow:     flow,
		lessons:  lessons,
		sessions: sessions,
		logger:   logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Get("/health", h.healthCheck)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/login", h.login)
		r.Post("/auth/logout", h.logout)

		// Everything else requires a signed-in session.
		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)

			r.Post("/repositories", h.analyzeRepository)
			r.Get("/repositories", h.listRepositories)
			r.Get("/repositories/{repoID}", h.getRepository)
			r.Get("/repositories/{repoID}/commits", h.listCommits)
			r.Get("/commits/{commitID}/files", h.getCommitFiles)
			r.Get("/commits/{commitID}/lesson", h.getLesson)
			r.Post("/commits/{commitID}/lesson", h.generateLesson)
		})
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireSession rejects requests without a valid bearer token.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, "Missing session token")
			return
		}
		if _, ok := h.sessions.UserForToken(token); !ok {
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired session")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

type loginRequest struct {
	Login string `json:"login"`
	Email string `json:"email"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  auth.User `json:"user"`
}

// login establishes a session.
// POST /v1/auth/login
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil || req.Login == "" {
		respondWithError(w, http.StatusBadRequest, "A 'login' field is required")
		return
	}

	user := auth.User{Login: req.Login, Email: req.Email}
	token := h.sessions.Login(user)
	user, _ = h.sessions.UserForToken(token)

	respondWithJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// logout ends the current session.
// POST /v1/auth/logout
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		h.sessions.Logout(token)
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

type analyzeRequest struct {
	URL string `json:"url"`
}

// analyzeRepository runs the intake flow for a submitted repository URL.
// POST /v1/repositories
func (h *Handler) analyzeRepository(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil || req.URL == "" {
		respondWithError(w, http.StatusBadRequest, "A 'url' field is required")
		return
	}

	progress := func(percent int, step string) {
		h.logger.Info("Analysis progress", "percent", percent, "step", step)
	}

	repo, err := h.flow.Analyze(r.Context(), req.URL, progress)
	if err != nil {
		var invalidErr *custom_errors.ErrInvalidRepoURL
		if errors.As(err, &invalidErr) {
			respondWithError(w, http.StatusBadRequest, invalidErr.Error())
			return
		}
		h.logger.Error("Repository analysis failed", "url", req.URL, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Repository analysis failed")
		return
	}

	respondWithJSON(w, http.StatusCreated, repo)
}

// listRepositories returns all registered repositories.
// GET /v1/repositories
func (h *Handler) listRepositories(w http.ResponseWriter, r *http.Request) {
	repos, err := h.db.ListRepositories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list repositories", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, repos)
}

// getRepository returns one repository record.
// GET /v1/repositories/{repoID}
func (h *Handler) getRepository(w http.ResponseWriter, r *http.Request) {
	repoID := chi.URLParam(r, "repoID")

	repo, err := h.db.GetRepository(r.Context(), repoID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "Repository not found")
			return
		}
		h.logger.Error("Failed to get repository", "repo_id", repoID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, repo)
}

// listCommits returns the commit timeline, ascending by order index.
// GET /v1/repositories/{repoID}/commits
func (h *Handler) listCommits(w http.ResponseWriter, r *http.Request) {
	repoID := chi.URLParam(r, "repoID")

	if _, err := h.db.GetRepository(r.Context(), repoID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "Repository not found")
			return
		}
		h.logger.Error("Failed to get repository", "repo_id", repoID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	commits, err := h.db.ListCommitsByRepository(r.Context(), repoID)
	if err != nil {
		h.logger.Error("Failed to list commits", "repo_id", repoID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, commits)
}

// commitFileView is a commit file plus its classified patch lines for the
// diff viewer.
type commitFileView struct {
	model.CommitFile
	Lines []diff.Line `json:"lines"`
}

// getCommitFiles returns the diff viewer payload for one commit.
// GET /v1/commits/{commitID}/files
func (h *Handler) getCommitFiles(w http.ResponseWriter, r *http.Request) {
	commitID := chi.URLParam(r, "commitID")

	if _, err := h.db.GetCommit(r.Context(), commitID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "Commit not found")
			return
		}
		h.logger.Error("Failed to get commit", "commit_id", commitID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	files, err := h.db.ListCommitFilesByCommit(r.Context(), commitID)
	if err != nil {
		h.logger.Error("Failed to list commit files", "commit_id", commitID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]commitFileView, 0, len(files))
	for _, f := range files {
		views = append(views, commitFileView{
			CommitFile: f,
			Lines:      diff.ClassifyPatch(f.Patch),
		})
	}

	respondWithJSON(w, http.StatusOK, views)
}

// getLesson returns the newest lesson for a commit.
// GET /v1/commits/{commitID}/lesson
func (h *Handler) getLesson(w http.ResponseWriter, r *http.Request) {
	commitID := chi.URLParam(r, "commitID")

	l, err := h.lessons.Latest(r.Context(), commitID)
	if err != nil {
		if errors.Is(err, lesson.ErrNoLesson) {
			respondWithError(w, http.StatusNotFound, "No lesson generated for this commit yet")
			return
		}
		h.logger.Error("Failed to get lesson", "commit_id", commitID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, l)
}

// generateLesson creates a new lesson for a commit. Calling it again
// regenerates: a fresh record is appended and becomes the newest.
// POST /v1/commits/{commitID}/lesson
func (h *Handler) generateLesson(w http.ResponseWriter, r *http.Request) {
	commitID := chi.URLParam(r, "commitID")

	l, err := h.lessons.Generate(r.Context(), commitID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "Commit not found")
			return
		}
		var genErr *custom_errors.ErrGenerationFailed
		if errors.As(err, &genErr) {
			h.logger.Error("Lesson generation failed", "commit_id", commitID, "error", err)
			respondWithError(w, http.StatusBadGateway, "Lesson generation failed, please try again")
			return
		}
		h.logger.Error("Failed to generate lesson", "commit_id", commitID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusCreated, l)
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
