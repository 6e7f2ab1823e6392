package database

import (
	"context"

	"github.com/stretchr/testify/mock"

	"repo-lessons/internal/model"
)

// MockQuerier is a testify mock of the Querier interface, shared by the unit
// tests of every package that talks to the persistence gateway.
type MockQuerier struct {
	mock.Mock
}

var _ Querier = (*MockQuerier)(nil)

func (m *MockQuerier) CreateRepository(ctx context.Context, arg CreateRepositoryParams) (model.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(model.Repository), args.Error(1)
}

func (m *MockQuerier) GetRepository(ctx context.Context, id string) (model.Repository, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Repository), args.Error(1)
}

func (m *MockQuerier) GetRepositoryByFullName(ctx context.Context, fullName string) (model.Repository, error) {
	args := m.Called(ctx, fullName)
	return args.Get(0).(model.Repository), args.Error(1)
}

func (m *MockQuerier) ListRepositories(ctx context.Context) ([]model.Repository, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Repository), args.Error(1)
}

func (m *MockQuerier) UpdateRepositoryAnalysis(ctx context.Context, arg UpdateRepositoryAnalysisParams) (model.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(model.Repository), args.Error(1)
}

func (m *MockQuerier) CreateCommit(ctx context.Context, arg CreateCommitParams) (model.Commit, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(model.Commit), args.Error(1)
}

func (m *MockQuerier) GetCommit(ctx context.Context, id string) (model.Commit, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Commit), args.Error(1)
}

func (m *MockQuerier) ListCommitsByRepository(ctx context.Context, repositoryID string) ([]model.Commit, error) {
	args := m.Called(ctx, repositoryID)
	return args.Get(0).([]model.Commit), args.Error(1)
}

func (m *MockQuerier) CreateCommitFile(ctx context.Context, arg CreateCommitFileParams) (model.CommitFile, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(model.CommitFile), args.Error(1)
}

func (m *MockQuerier) ListCommitFilesByCommit(ctx context.Context, commitID string) ([]model.CommitFile, error) {
	args := m.Called(ctx, commitID)
	return args.Get(0).([]model.CommitFile), args.Error(1)
}

func (m *MockQuerier) CreateLesson(ctx context.Context, arg CreateLessonParams) (model.Lesson, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(model.Lesson), args.Error(1)
}

func (m *MockQuerier) GetLatestLessonByCommit(ctx context.Context, commitID string) (model.Lesson, error) {
	args := m.Called(ctx, commitID)
	return args.Get(0).(model.Lesson), args.Error(1)
}
