package database

import (
	"context"
	"time"

	"repo-lessons/internal/model"
)

const createCommit = `
INSERT INTO commits (id, repository_id, short_hash, message, author_name, author_email, committed_at, order_index, files_changed, additions, deletions)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id, repository_id, short_hash, message, author_name, author_email, committed_at, order_index, files_changed, additions, deletions
`

// CreateCommitParams holds the fields for a new commit record.
type CreateCommitParams struct {
	ID           string
	RepositoryID string
	ShortHash    string
	Message      string
	AuthorName   string
	AuthorEmail  string
	CommittedAt  time.Time
	OrderIndex   int
	FilesChanged int
	Additions    int
	Deletions    int
}

func (q *Queries) CreateCommit(ctx context.Context, arg CreateCommitParams) (model.Commit, error) {
	row := q.db.QueryRow(ctx, createCommit,
		arg.ID, arg.RepositoryID, arg.ShortHash, arg.Message, arg.AuthorName, arg.AuthorEmail,
		arg.CommittedAt, arg.OrderIndex, arg.FilesChanged, arg.Additions, arg.Deletions)
	return scanCommit(row)
}

const getCommit = `
SELECT id, repository_id, short_hash, message, author_name, author_email, committed_at, order_index, files_changed, additions, deletions
FROM commits
WHERE id = $1
`

func (q *Queries) GetCommit(ctx context.Context, id string) (model.Commit, error) {
	return scanCommit(q.db.QueryRow(ctx, getCommit, id))
}

const listCommitsByRepository = `
SELECT id, repository_id, short_hash, message, author_name, author_email, committed_at, order_index, files_changed, additions, deletions
FROM commits
WHERE repository_id = $1
ORDER BY order_index ASC
`

func (q *Queries) ListCommitsByRepository(ctx context.Context, repositoryID string) ([]model.Commit, error) {
	rows, err := q.db.Query(ctx, listCommitsByRepository, repositoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commits []model.Commit
	for rows.Next() {
		c, err := scanCommit(rows)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, rows.Err()
}

func scanCommit(row rowScanner) (model.Commit, error) {
	var c model.Commit
	err := row.Scan(&c.ID, &c.RepositoryID, &c.ShortHash, &c.Message, &c.AuthorName, &c.AuthorEmail,
		&c.CommittedAt, &c.OrderIndex, &c.FilesChanged, &c.Additions, &c.Deletions)
	return c, err
}
