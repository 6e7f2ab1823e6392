package database

import (
	"context"

	"repo-lessons/internal/model"
)

// Querier is the persistence gateway interface. Application code depends on
// this rather than on *Queries so tests can substitute a mock.
type Querier interface {
	CreateRepository(ctx context.Context, arg CreateRepositoryParams) (model.Repository, error)
	GetRepository(ctx context.Context, id string) (model.Repository, error)
	GetRepositoryByFullName(ctx context.Context, fullName string) (model.Repository, error)
	ListRepositories(ctx context.Context) ([]model.Repository, error)
	UpdateRepositoryAnalysis(ctx context.Context, arg UpdateRepositoryAnalysisParams) (model.Repository, error)

	CreateCommit(ctx context.Context, arg CreateCommitParams) (model.Commit, error)
	GetCommit(ctx context.Context, id string) (model.Commit, error)
	ListCommitsByRepository(ctx context.Context, repositoryID string) ([]model.Commit, error)

	CreateCommitFile(ctx context.Context, arg CreateCommitFileParams) (model.CommitFile, error)
	ListCommitFilesByCommit(ctx context.Context, commitID string) ([]model.CommitFile, error)

	CreateLesson(ctx context.Context, arg CreateLessonParams) (model.Lesson, error)
	GetLatestLessonByCommit(ctx context.Context, commitID string) (model.Lesson, error)
}

var _ Querier = (*Queries)(nil)
