// Package intake orchestrates the registration and analysis of a repository:
// URL validation, record creation, history generation, and commit
// persistence, finishing with the analyzing -> completed status transition.
package intake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"repo-lessons/internal/database"
	"repo-lessons/internal/github"
	"repo-lessons/internal/history"
	"repo-lessons/internal/model"
)

// ProgressFunc receives advisory progress updates (0-100 plus a step label)
// during analysis. It has no effect on correctness and may be nil.
type ProgressFunc func(percent int, step string)

// Flow runs the end-to-end repository intake.
type Flow struct {
	store  database.TxQuerier
	gen    *history.Generator
	meta   github.MetadataFetcher
	logger *slog.Logger
}

// NewFlow creates an intake flow. meta may be nil, in which case repository
// metadata falls back to synthetic defaults.
func NewFlow(store database.TxQuerier, gen *history.Generator, meta github.MetadataFetcher, logger *slog.Logger) *Flow {
	return &Flow{
		store:  store,
		gen:    gen,
		meta:   meta,
		logger: logger,
	}
}

// Analyze registers the repository at rawURL, populates its commit history,
// and returns the finalized repository record. A persistence failure
// mid-sequence aborts without compensation: the repository keeps whatever
// state was last written.
func (f *Flow) Analyze(ctx context.Context, rawURL string, progress ProgressFunc) (model.Repository, error) {
	report := func(percent int, step string) {
		if progress != nil {
			progress(percent, step)
		}
	}

	report(0, "Parsing repository URL")
	owner, name, err := ParseRepoURL(rawURL)
	if err != nil {
		return model.Repository{}, err
	}

	logger := f.logger.With("owner", owner, "repo", name)
	logger.Info("Starting repository analysis")

	repo, err := f.createRepository(ctx, owner, name)
	if err != nil {
		return model.Repository{}, fmt.Errorf("failed to create repository record: %w", err)
	}
	report(20, "Repository registered")

	commits := f.gen.GenerateCommits(owner, name)
	logger.Info("Generated commit history", "count", len(commits))
	report(40, "Generated commit history")

	if err := f.persistCommits(ctx, repo.ID, commits); err != nil {
		return model.Repository{}, fmt.Errorf("failed to persist commits: %w", err)
	}
	report(90, "Persisted commits")

	finalized, err := f.store.UpdateRepositoryAnalysis(ctx, database.UpdateRepositoryAnalysisParams{
		ID:           repo.ID,
		TotalCommits: len(commits),
		Status:       model.RepoStatusCompleted,
	})
	if err != nil {
		return model.Repository{}, fmt.Errorf("failed to finalize repository: %w", err)
	}
	report(100, "Analysis complete")

	logger.Info("Repository analysis complete", "repo_id", finalized.ID, "total_commits", finalized.TotalCommits)
	return finalized, nil
}

// createRepository writes the initial record in status analyzing. When a
// metadata fetcher is configured, description and default branch come from
// the real GitHub API; a fetch failure only degrades to synthetic defaults.
func (f *Flow) createRepository(ctx context.Context, owner, name string) (model.Repository, error) {
	fullName := owner + "/" + name
	params := database.CreateRepositoryParams{
		ID:            uuid.NewString(),
		Owner:         owner,
		Name:          name,
		FullName:      fullName,
		URL:           "https://github.com/" + fullName,
		Description:   fmt.Sprintf("Commit history analysis of %s", fullName),
		DefaultBranch: "main",
		Status:        model.RepoStatusAnalyzing,
	}

	if f.meta != nil {
		meta, err := f.meta.GetRepositoryMetadata(ctx, owner, name)
		if err != nil {
			f.logger.Warn("Could not fetch repository metadata, using defaults", "owner", owner, "repo", name, "error", err)
		} else {
			if meta.Description != "" {
				params.Description = meta.Description
			}
			if meta.DefaultBranch != "" {
				params.DefaultBranch = meta.DefaultBranch
			}
			if meta.HTMLURL != "" {
				params.URL = meta.HTMLURL
			}
		}
	}

	return f.store.CreateRepository(ctx, params)
}

// persistCommits writes each commit with its generated files, one transaction
// per commit, in ascending order-index order. A failure stops the loop, so the
// rows left behind are always a contiguous prefix of the generated history.
func (f *Flow) persistCommits(ctx context.Context, repoID string, commits []model.Commit) error {
	for _, c := range commits {
		files := f.gen.GenerateFiles(c.FilesChanged)
		if err := f.persistCommit(ctx, repoID, c, files); err != nil {
			return err
		}
	}
	return nil
}

func (f *Flow) persistCommit(ctx context.Context, repoID string, c model.Commit, files []model.CommitFile) error {
	return f.store.ExecTx(ctx, func(q database.Querier) error {
		created, err := q.CreateCommit(ctx, database.CreateCommitParams{
			ID:           uuid.NewString(),
			RepositoryID: repoID,
			ShortHash:    c.ShortHash,
			Message:      c.Message,
			AuthorName:   c.AuthorName,
			AuthorEmail:  c.AuthorEmail,
			CommittedAt:  c.CommittedAt,
			OrderIndex:   c.OrderIndex,
			FilesChanged: c.FilesChanged,
			Additions:    c.Additions,
			Deletions:    c.Deletions,
		})
		if err != nil {
			return err
		}

		for _, file := range files {
			_, err := q.CreateCommitFile(ctx, database.CreateCommitFileParams{
				ID:        uuid.NewString(),
				CommitID:  created.ID,
				Filename:  file.Filename,
				Status:    file.Status,
				Additions: file.Additions,
				Deletions: file.Deletions,
				Patch:     file.Patch,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}
