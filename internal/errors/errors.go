package errors

import "fmt"

// ErrInvalidRepoURL is returned when a submitted URL does not look like a
// GitHub repository URL of the form https://github.com/<owner>/<repo>.
type ErrInvalidRepoURL struct {
	URL string
}

func (e *ErrInvalidRepoURL) Error() string {
	return fmt.Sprintf("invalid repository URL: %q, expected https://github.com/<owner>/<repo>", e.URL)
}

// ErrGenerationFailed wraps a failure from the text-generation gateway so
// callers can distinguish it from persistence errors.
type ErrGenerationFailed struct {
	Err error
}

func (e *ErrGenerationFailed) Error() string {
	return fmt.Sprintf("lesson generation failed: %v", e.Err)
}

func (e *ErrGenerationFailed) Unwrap() error {
	return e.Err
}
