package database

import (
	"context"

	"repo-lessons/internal/model"
)

const createCommitFile = `
INSERT INTO commit_files (id, commit_id, filename, status, additions, deletions, patch)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, commit_id, filename, status, additions, deletions, patch
`

// CreateCommitFileParams holds the fields for a new commit-file record.
type CreateCommitFileParams struct {
	ID        string
	CommitID  string
	Filename  string
	Status    string
	Additions int
	Deletions int
	Patch     string
}

func (q *Queries) CreateCommitFile(ctx context.Context, arg CreateCommitFileParams) (model.CommitFile, error) {
	row := q.db.QueryRow(ctx, createCommitFile,
		arg.ID, arg.CommitID, arg.Filename, arg.Status, arg.Additions, arg.Deletions, arg.Patch)
	return scanCommitFile(row)
}

const listCommitFilesByCommit = `
SELECT id, commit_id, filename, status, additions, deletions, patch
FROM commit_files
WHERE commit_id = $1
ORDER BY filename ASC
`

func (q *Queries) ListCommitFilesByCommit(ctx context.Context, commitID string) ([]model.CommitFile, error) {
	rows, err := q.db.Query(ctx, listCommitFilesByCommit, commitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []model.CommitFile
	for rows.Next() {
		f, err := scanCommitFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func scanCommitFile(row rowScanner) (model.CommitFile, error) {
	var f model.CommitFile
	err := row.Scan(&f.ID, &f.CommitID, &f.Filename, &f.Status, &f.Additions, &f.Deletions, &f.Patch)
	return f, err
}
