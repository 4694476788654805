package pulse

import "errors"

// Error kinds. Every failure surfaced by commitpulse wraps exactly one of
// these, so callers can classify it with errors.Is. All of them end the run.
var (
	// ErrNotARepository is returned when the target path is not inside a Git work tree.
	ErrNotARepository = errors.New("not a git repository")
	// ErrNetwork is returned when the upload fails, times out or gets a non-2xx answer.
	ErrNetwork = errors.New("network error")
	// ErrUserDeclined is returned when the local-mode confirmation is refused.
	ErrUserDeclined = errors.New("operation cancelled by user")
	// ErrFileSystem is returned when reading or writing a local file fails.
	ErrFileSystem = errors.New("file system error")
)
