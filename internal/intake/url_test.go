package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	custom_errors "repo-lessons/internal/errors"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"basic", "https://github.com/acme/widgets", "acme", "widgets", false},
		{"http scheme", "http://github.com/acme/widgets", "acme", "widgets", false},
		{"www host", "https://www.github.com/acme/widgets", "acme", "widgets", false},
		{"git suffix stripped", "https://github.com/acme/widgets.git", "acme", "widgets", false},
		{"trailing slash", "https://github.com/acme/widgets/", "acme", "widgets", false},
		{"trailing path", "https://github.com/acme/widgets/tree/main/src", "acme", "widgets", false},
		{"surrounding whitespace", "  https://github.com/acme/widgets  ", "acme", "widgets", false},
		{"empty string", "", "", "", true},
		{"not a URL", "not a url at all", "", "", true},
		{"missing repo", "https://github.com/acme", "", "", true},
		{"missing owner and repo", "https://github.com", "", "", true},
		{"wrong host", "https://gitlab.com/acme/widgets", "", "", true},
		{"no scheme", "github.com/acme/widgets", "", "", true},
		{"ssh style", "git@github.com:acme/widgets.git", "", "", true},
		{"bare git suffix", "https://github.com/acme/.git", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRepoURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				var invalidErr *custom_errors.ErrInvalidRepoURL
				assert.ErrorAs(t, err, &invalidErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}
