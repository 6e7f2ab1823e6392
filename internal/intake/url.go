package intake

import (
	"net/url"
	"strings"

	custom_errors "repo-lessons/internal/errors"
)

// ParseRepoURL extracts the owner and repository name from a GitHub URL of
// the form https://github.com/<owner>/<repo>. Trailing path segments and a
// .git suffix are tolerated; anything else fails with ErrInvalidRepoURL.
func ParseRepoURL(raw string) (owner, name string, err error) {
	trimmed := strings.TrimSpace(raw)

	u, parseErr := url.Parse(trimmed)
	if parseErr != nil {
		return "", "", &custom_errors.ErrInvalidRepoURL{URL: raw}
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", &custom_errors.ErrInvalidRepoURL{URL: raw}
	}

	host := strings.ToLower(u.Host)
	if host != "github.com" && host != "www.github.com" {
		return "", "", &custom_errors.ErrInvalidRepoURL{URL: raw}
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return "", "", &custom_errors.ErrInvalidRepoURL{URL: raw}
	}

	owner = segments[0]
	name = strings.TrimSuffix(segments[1], ".git")
	if name == "" {
		return "", "", &custom_errors.ErrInvalidRepoURL{URL: raw}
	}

	return owner, name, nil
}
