package database

import (
	"context"

	"repo-lessons/internal/model"
)

const createRepository = `
INSERT INTO repositories (id, owner, name, full_name, url, description, default_branch, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, owner, name, full_name, url, description, default_branch, total_commits, status, created_at, updated_at
`

// CreateRepositoryParams holds the fields for a new repository record.
type CreateRepositoryParams struct {
	ID            string
	Owner         string
	Name          string
	FullName      string
	URL           string
	Description   string
	DefaultBranch string
	Status        string
}

func (q *Queries) CreateRepository(ctx context.Context, arg CreateRepositoryParams) (model.Repository, error) {
	row := q.db.QueryRow(ctx, createRepository,
		arg.ID, arg.Owner, arg.Name, arg.FullName, arg.URL, arg.Description, arg.DefaultBranch, arg.Status)
	return scanRepository(row)
}

const getRepository = `
SELECT id, owner, name, full_name, url, description, default_branch, total_commits, status, created_at, updated_at
FROM repositories
WHERE id = $1
`

func (q *Queries) GetRepository(ctx context.Context, id string) (model.Repository, error) {
	return scanRepository(q.db.QueryRow(ctx, getRepository, id))
}

const getRepositoryByFullName = `
SELECT id, owner, name, full_name, url, description, default_branch, total_commits, status, created_at, updated_at
FROM repositories
WHERE full_name = $1
`

func (q *Queries) GetRepositoryByFullName(ctx context.Context, fullName string) (model.Repository, error) {
	return scanRepository(q.db.QueryRow(ctx, getRepositoryByFullName, fullName))
}

const listRepositories = `
SELECT id, owner, name, full_name, url, description, default_branch, total_commits, status, created_at, updated_at
FROM repositories
ORDER BY created_at DESC
`

func (q *Queries) ListRepositories(ctx context.Context) ([]model.Repository, error) {
	rows, err := q.db.Query(ctx, listRepositories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repos []model.Repository
	for rows.Next() {
		r, err := scanRepository(rows)
		if err != nil {
			return nil, err
		}
		repos = append(repos, r)
	}
	return repos, rows.Err()
}

const updateRepositoryAnalysis = `
UPDATE repositories
SET total_commits = $2, status = $3, updated_at = now()
WHERE id = $1
RETURNING id, owner, name, full_name, url, description, default_branch, total_commits, status, created_at, updated_at
`

// UpdateRepositoryAnalysisParams carries the only mutation a repository ever
// receives: its commit count and analysis status.
type UpdateRepositoryAnalysisParams struct {
	ID           string
	TotalCommits int
	Status       string
}

func (q *Queries) UpdateRepositoryAnalysis(ctx context.Context, arg UpdateRepositoryAnalysisParams) (model.Repository, error) {
	row := q.db.QueryRow(ctx, updateRepositoryAnalysis, arg.ID, arg.TotalCommits, arg.Status)
	return scanRepository(row)
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRepository(row rowScanner) (model.Repository, error) {
	var r model.Repository
	err := row.Scan(&r.ID, &r.Owner, &r.Name, &r.FullName, &r.URL, &r.Description,
		&r.DefaultBranch, &r.TotalCommits, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}
