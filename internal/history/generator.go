// Package history generates synthetic commit and file-diff data for a
// repository. It stands in for a real source-control history API: the shape
// of the output (ordering, counts, patch format) is realistic, the content is
// canned and randomized.
package history

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"repo-lessons/internal/model"
)

// MaxCommits caps the number of commits generated per repository.
const MaxCommits = 10

// commitMessages is the fixed message pool. When more messages exist than
// the commit cap, the earliest entries are dropped.
var commitMessages = []string{
	"Initial commit",
	"Add project scaffolding and build config",
	"Implement core data models",
	"Add database connection and migrations",
	"Create API route handlers",
	"Add input validation for user requests",
	"Refactor service layer for testability",
	"Fix off-by-one error in pagination",
	"Add caching for repeated lookups",
	"Improve error messages and logging",
	"Add unit tests for service layer",
	"Optimize query performance",
	"Fix race condition in request handling",
	"Update dependencies and fix deprecations",
	"Add documentation and usage examples",
}

type author struct {
	name  string
	email string
}

var authors = []author{
	{"Sarah Chen", "sarah.chen@example.com"},
	{"Miguel Torres", "miguel.torres@example.com"},
	{"Priya Patel", "priya.patel@example.com"},
	{"Alex Kim", "alex.kim@example.com"},
}

var fileStems = []string{
	"main", "config", "handlers", "models", "database",
	"auth", "routes", "utils", "service", "middleware",
}

var fileExts = []string{".go", ".sql", ".yaml", ".md", ".json"}

var fileStatuses = []string{
	model.FileStatusAdded,
	model.FileStatusModified,
	model.FileStatusDeleted,
}

// codeLines is the pool of synthetic patch body lines.
var codeLines = []string{
	"func process(input string) (string, error) {",
	"\treturn strings.TrimSpace(input), nil",
	"}",
	"const defaultTimeout = 30 * time.Second",
	"var ErrNotFound = errors.New(\"record not found\")",
	"if err != nil {",
	"\treturn fmt.Errorf(\"operation failed: %w\", err)",
	"logger.Info(\"request handled\", \"status\", status)",
	"type Options struct {",
	"\tLimit int",
}

// Generator produces randomized commit histories. It is a pure function of
// its inputs, its random source, and its clock.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator returns a Generator seeded from the current time.
func NewGenerator() *Generator {
	return newGenerator(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

// NewSeededGenerator returns a deterministic Generator for tests.
func NewSeededGenerator(seed int64, now func() time.Time) *Generator {
	return newGenerator(rand.New(rand.NewSource(seed)), now)
}

func newGenerator(rng *rand.Rand, now func() time.Time) *Generator {
	return &Generator{rng: rng, now: now}
}

// GenerateCommits produces an ordered commit history for owner/name. Order
// indices are exactly 1..N, oldest first, with timestamps one day apart
// counted backward from now. N never exceeds MaxCommits.
func (g *Generator) GenerateCommits(owner, name string) []model.Commit {
	n := 5 + g.rng.Intn(MaxCommits-4) // 5..10
	if n > MaxCommits {
		n = MaxCommits
	}

	// Drop the earliest pool entries so the history ends with the most
	// recent messages.
	messages := commitMessages
	if len(messages) > n {
		messages = messages[len(messages)-n:]
	}

	now := g.now()
	commits := make([]model.Commit, 0, n)
	for i := 0; i < n; i++ {
		a := authors[g.rng.Intn(len(authors))]
		commits = append(commits, model.Commit{
			ShortHash:    g.shortHash(),
			Message:      messages[i],
			AuthorName:   a.name,
			AuthorEmail:  a.email,
			CommittedAt:  now.AddDate(0, 0, -(n - 1 - i)),
			OrderIndex:   i + 1,
			FilesChanged: 1 + g.rng.Intn(4),
			Additions:    1 + g.rng.Intn(120),
			Deletions:    g.rng.Intn(60),
		})
	}
	return commits
}

// GenerateFiles produces exactly filesChanged file-change records with
// synthesized unified-diff patches. A zero or negative count yields an empty
// list.
func (g *Generator) GenerateFiles(filesChanged int) []model.CommitFile {
	files := make([]model.CommitFile, 0, max(filesChanged, 0))
	for i := 0; i < filesChanged; i++ {
		stem := fileStems[g.rng.Intn(len(fileStems))]
		ext := fileExts[g.rng.Intn(len(fileExts))]
		filename := stem + ext
		status := fileStatuses[g.rng.Intn(len(fileStatuses))]

		patch, additions, deletions := g.synthesizePatch(filename, status)
		files = append(files, model.CommitFile{
			Filename:  filename,
			Status:    status,
			Additions: additions,
			Deletions: deletions,
			Patch:     patch,
		})
	}
	return files
}

// synthesizePatch builds a patch body shaped by the file status: a pure
// addition hunk, a pure deletion hunk, or a context+change hunk.
func (g *Generator) synthesizePatch(filename, status string) (patch string, additions, deletions int) {
	var b strings.Builder

	switch status {
	case model.FileStatusAdded:
		additions = 2 + g.rng.Intn(6)
		fmt.Fprintf(&b, "--- /dev/null\n+++ b/%s\n", filename)
		fmt.Fprintf(&b, "@@ -0,0 +1,%d @@\n", additions)
		for i := 0; i < additions; i++ {
			fmt.Fprintf(&b, "+%s\n", g.codeLine())
		}
	case model.FileStatusDeleted:
		deletions = 2 + g.rng.Intn(6)
		fmt.Fprintf(&b, "--- a/%s\n+++ /dev/null\n", filename)
		fmt.Fprintf(&b, "@@ -1,%d +0,0 @@\n", deletions)
		for i := 0; i < deletions; i++ {
			fmt.Fprintf(&b, "-%s\n", g.codeLine())
		}
	default: // modified
		contextLines := 1 + g.rng.Intn(3)
		deletions = 1 + g.rng.Intn(4)
		additions = 1 + g.rng.Intn(5)
		fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", filename, filename)
		fmt.Fprintf(&b, "@@ -1,%d +1,%d @@\n", contextLines+deletions, contextLines+additions)
		for i := 0; i < contextLines; i++ {
			fmt.Fprintf(&b, " %s\n", g.codeLine())
		}
		for i := 0; i < deletions; i++ {
			fmt.Fprintf(&b, "-%s\n", g.codeLine())
		}
		for i := 0; i < additions; i++ {
			fmt.Fprintf(&b, "+%s\n", g.codeLine())
		}
	}
	return b.String(), additions, deletions
}

func (g *Generator) codeLine() string {
	return codeLines[g.rng.Intn(len(codeLines))]
}

// shortHash returns a random 7-character hex hash.
func (g *Generator) shortHash() string {
	const hexDigits = "0123456789abcdef"
	var sb strings.Builder
	for i := 0; i < 7; i++ {
		sb.WriteByte(hexDigits[g.rng.Intn(len(hexDigits))])
	}
	return sb.String()
}
