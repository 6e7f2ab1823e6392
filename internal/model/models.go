package model

import "time"

// Repository analysis status values.
const (
	RepoStatusAnalyzing = "analyzing"
	RepoStatusCompleted = "completed"
)

// CommitFile status values.
const (
	FileStatusAdded    = "added"
	FileStatusModified = "modified"
	FileStatusDeleted  = "deleted"
)

// Lesson difficulty values.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Repository represents a registered repository under analysis.
type Repository struct {
	ID            string    `json:"id"`
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	URL           string    `json:"url"`
	Description   string    `json:"description"`
	DefaultBranch string    `json:"default_branch"`
	TotalCommits  int       `json:"total_commits"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Commit is one ordered change record in a repository's history.
// OrderIndex is 1-based and contiguous within a repository.
type Commit struct {
	ID           string    `json:"id"`
	RepositoryID string    `json:"repository_id"`
	ShortHash    string    `json:"short_hash"`
	Message      string    `json:"message"`
	AuthorName   string    `json:"author_name"`
	AuthorEmail  string    `json:"author_email"`
	CommittedAt  time.Time `json:"committed_at"`
	OrderIndex   int       `json:"order_index"`
	FilesChanged int       `json:"files_changed"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
}

// CommitFile is one file-level change belonging to a commit, with a
// unified-diff patch body.
type CommitFile struct {
	ID        string `json:"id"`
	CommitID  string `json:"commit_id"`
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Patch     string `json:"patch"`
}

// Lesson is a generated natural-language explanation of a commit's changes.
// Regeneration creates a new record; the newest one is the current lesson.
type Lesson struct {
	ID             string    `json:"id"`
	CommitID       string    `json:"commit_id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Summary        string    `json:"summary"`
	KeyConcepts    string    `json:"key_concepts"`
	Difficulty     string    `json:"difficulty"`
	ReadingMinutes int       `json:"reading_minutes"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}
