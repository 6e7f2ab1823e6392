// Package lesson produces and retrieves natural-language explanations of
// commits, backed by the text-generation gateway.
package lesson

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"repo-lessons/internal/database"
	custom_errors "repo-lessons/internal/errors"
	"repo-lessons/internal/model"
)

const (
	// readingCharsPerMinute converts content length to an estimated
	// reading time.
	readingCharsPerMinute = 1000

	// summaryMaxChars caps the short summary extracted from the content.
	summaryMaxChars = 200

	// defaultKeyConcepts is fixed: the generator does not extract concepts
	// from the content.
	defaultKeyConcepts = "version control, code changes, software development"

	lessonStatusCompleted = "completed"
)

// ErrNoLesson reports that a commit has no lesson yet (the "ungenerated"
// state), as opposed to a gateway failure.
var ErrNoLesson = errors.New("no lesson generated for commit")

// TextGenerator is the external text-generation capability.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service retrieves and generates lessons.
type Service struct {
	db     database.Querier
	gen    TextGenerator
	logger *slog.Logger
}

// NewService creates a lesson service.
func NewService(db database.Querier, gen TextGenerator, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		gen:    gen,
		logger: logger,
	}
}

// Latest returns the most recently created lesson for a commit, or
// ErrNoLesson when none exists.
func (s *Service) Latest(ctx context.Context, commitID string) (model.Lesson, error) {
	l, err := s.db.GetLatestLessonByCommit(ctx, commitID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Lesson{}, ErrNoLesson
	}
	if err != nil {
		return model.Lesson{}, err
	}
	return l, nil
}

// Generate builds a prompt from the commit's metadata and every file patch,
// asks the text-generation service for an explanation, and persists it as a
// new lesson record. Regeneration never mutates prior lessons.
func (s *Service) Generate(ctx context.Context, commitID string) (model.Lesson, error) {
	var (
		commit model.Commit
		files  []model.CommitFile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if commit, err = s.db.GetCommit(gctx, commitID); err != nil {
			return fmt.Errorf("failed to load commit: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if files, err = s.db.ListCommitFilesByCommit(gctx, commitID); err != nil {
			return fmt.Errorf("failed to load commit files: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.Lesson{}, err
	}

	prompt := buildPrompt(commit, files)
	s.logger.Info("Generating lesson", "commit_id", commitID, "prompt_chars", len(prompt))

	content, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return model.Lesson{}, &custom_errors.ErrGenerationFailed{Err: err}
	}

	return s.db.CreateLesson(ctx, database.CreateLessonParams{
		ID:             uuid.NewString(),
		CommitID:       commitID,
		Title:          lessonTitle(commit.Message),
		Content:        content,
		Summary:        summarize(content),
		KeyConcepts:    defaultKeyConcepts,
		Difficulty:     model.DifficultyIntermediate,
		ReadingMinutes: readingMinutes(content),
		Status:         lessonStatusCompleted,
	})
}

// buildPrompt assembles the commit metadata and all file patches into one
// generation prompt.
func buildPrompt(commit model.Commit, files []model.CommitFile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Explain the following commit to a developer learning from this codebase.\n\n")
	fmt.Fprintf(&b, "Commit: %s\n", commit.Message)
	fmt.Fprintf(&b, "Author: %s <%s>\n", commit.AuthorName, commit.AuthorEmail)
	fmt.Fprintf(&b, "Changes: %d files, +%d -%d\n\n", commit.FilesChanged, commit.Additions, commit.Deletions)

	for _, f := range files {
		fmt.Fprintf(&b, "File: %s (%s)\n%s\n", f.Filename, f.Status, f.Patch)
	}

	b.WriteString("\nDescribe what changed, why it matters, and what a reader should take away.")
	return b.String()
}

func lessonTitle(message string) string {
	subject := message
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		subject = message[:idx]
	}
	return "Understanding: " + strings.TrimSpace(subject)
}

func summarize(content string) string {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) <= summaryMaxChars {
		return trimmed
	}
	// Back off to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := summaryMaxChars
	for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
		cut--
	}
	return strings.TrimSpace(trimmed[:cut]) + "..."
}

func readingMinutes(content string) int {
	minutes := (len(content) + readingCharsPerMinute - 1) / readingCharsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
