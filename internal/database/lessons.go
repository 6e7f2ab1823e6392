package database

import (
	"context"

	"repo-lessons/internal/model"
)

const createLesson = `
INSERT INTO lessons (id, commit_id, title, content, summary, key_concepts, difficulty, reading_minutes, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, commit_id, title, content, summary, key_concepts, difficulty, reading_minutes, status, created_at
`

// CreateLessonParams holds the fields for a new lesson record.
type CreateLessonParams struct {
	ID             string
	CommitID       string
	Title          string
	Content        string
	Summary        string
	KeyConcepts    string
	Difficulty     string
	ReadingMinutes int
	Status         string
}

func (q *Queries) CreateLesson(ctx context.Context, arg CreateLessonParams) (model.Lesson, error) {
	row := q.db.QueryRow(ctx, createLesson,
		arg.ID, arg.CommitID, arg.Title, arg.Content, arg.Summary, arg.KeyConcepts,
		arg.Difficulty, arg.ReadingMinutes, arg.Status)
	return scanLesson(row)
}

const getLatestLessonByCommit = `
SELECT id, commit_id, title, content, summary, key_concepts, difficulty, reading_minutes, status, created_at
FROM lessons
WHERE commit_id = $1
ORDER BY created_at DESC
LIMIT 1
`

// GetLatestLessonByCommit returns the most recently created lesson for a
// commit. Older lessons are kept but never displayed.
func (q *Queries) GetLatestLessonByCommit(ctx context.Context, commitID string) (model.Lesson, error) {
	return scanLesson(q.db.QueryRow(ctx, getLatestLessonByCommit, commitID))
}

func scanLesson(row rowScanner) (model.Lesson, error) {
	var l model.Lesson
	err := row.Scan(&l.ID, &l.CommitID, &l.Title, &l.Content, &l.Summary, &l.KeyConcepts,
		&l.Difficulty, &l.ReadingMinutes, &l.Status, &l.CreatedAt)
	return l, err
}
