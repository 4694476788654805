package languages

import (
	"path"
	"strings"

	"github.com/src-d/enry/v2"
)

// Unknown is returned for files whose language is not in the table.
const Unknown = "Unknown"

// DefaultIgnoredDirs are directory names whose contents are never counted.
var DefaultIgnoredDirs = []string{
	".git", "node_modules", "venv", ".venv", "env", "__pycache__",
	"build", "dist", "target", ".next", "out", ".svelte-kit",
	"vendor", "bin", "obj", ".vs", ".idea", ".vscode",
}

// DefaultIgnoredFiles are generated lock files, matched case-insensitively.
var DefaultIgnoredFiles = []string{
	"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "composer.lock",
	"poetry.lock", "gemfile.lock", "cargo.lock", "mix.lock",
}

// Classifier assigns a language to repository paths. It is safe for
// concurrent use once built.
type Classifier struct {
	table        Table
	ignoredDirs  map[string]struct{}
	ignoredFiles map[string]struct{}
	vendorFilter bool
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithIgnoredDirs replaces the ignored directory names.
func WithIgnoredDirs(dirs ...string) Option {
	return func(c *Classifier) {
		c.ignoredDirs = toSet(dirs, false)
	}
}

// WithIgnoredFiles replaces the ignored file names.
func WithIgnoredFiles(files ...string) Option {
	return func(c *Classifier) {
		c.ignoredFiles = toSet(files, true)
	}
}

// WithVendorFilter also skips paths enry recognizes as vendored code.
func WithVendorFilter(enabled bool) Option {
	return func(c *Classifier) {
		c.vendorFilter = enabled
	}
}

// NewClassifier returns a classifier over table with the default ignore lists.
func NewClassifier(table Table, opts ...Option) *Classifier {
	c := &Classifier{
		table:        table,
		ignoredDirs:  toSet(DefaultIgnoredDirs, false),
		ignoredFiles: toSet(DefaultIgnoredFiles, true),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Classify returns the language of a slash-separated repository path.
// ok is false when the path is ignored. Unrecognized files return Unknown.
func (c *Classifier) Classify(p string) (string, bool) {
	if c.Ignored(p) {
		return "", false
	}

	base := path.Base(p)

	lang, found := c.table.Lookup(path.Ext(base))
	if !found {
		lang, found = c.table.Lookup(base)
	}

	if !found {
		return Unknown, true
	}

	return lang, true
}

// Unknown returns the label used for unrecognized files.
func (c *Classifier) Unknown() string {
	return Unknown
}

// Ignored reports whether p is excluded from language statistics.
func (c *Classifier) Ignored(p string) bool {
	dir, file := path.Split(p)

	if _, skip := c.ignoredFiles[strings.ToLower(file)]; skip {
		return true
	}

	for segment := range strings.SplitSeq(strings.Trim(dir, "/"), "/") {
		if _, skip := c.ignoredDirs[segment]; skip {
			return true
		}
	}

	return c.vendorFilter && enry.IsVendor(p)
}

func toSet(items []string, lower bool) map[string]struct{} {
	set := make(map[string]struct{}, len(items))

	for _, item := range items {
		if lower {
			item = strings.ToLower(item)
		}

		set[item] = struct{}{}
	}

	return set
}
