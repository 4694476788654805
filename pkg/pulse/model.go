// Package pulse holds the commitpulse data model and the aggregator that folds
// Git history into a PulseReport.
package pulse

import "time"

// NotAvailable is printed for report fields that have no value, e.g. the
// first commit date of an empty repository.
const NotAvailable = "N/A"

// FileChange is one line of numstat output for a commit.
type FileChange struct {
	Path    string
	Added   int
	Deleted int
}

// Commit is a single commit read from history. It is never mutated after the
// reader produces it.
type Commit struct {
	Hash        string
	Parents     []string
	AuthorName  string
	AuthorEmail string
	// When keeps the author's own UTC offset.
	When    time.Time
	Changes []FileChange
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// Insertions returns the number of added lines across all changed files.
func (c Commit) Insertions() int {
	total := 0
	for _, ch := range c.Changes {
		total += ch.Added
	}

	return total
}

// Deletions returns the number of removed lines across all changed files.
func (c Commit) Deletions() int {
	total := 0
	for _, ch := range c.Changes {
		total += ch.Deleted
	}

	return total
}

// TrackedFile is a blob committed at HEAD.
type TrackedFile struct {
	Path string
	Size int64
}

// RepoInfo identifies the analyzed repository.
type RepoInfo struct {
	Name string
	Path string
}

// LanguageStat is the byte share of one language.
type LanguageStat struct {
	Name       string  `json:"name"       yaml:"name"`
	Bytes      int64   `json:"bytes"      yaml:"bytes"`
	Files      int     `json:"files"      yaml:"files"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// ContributorStat summarizes one author identity.
type ContributorStat struct {
	Name         string    `json:"name"          yaml:"name"`
	Email        string    `json:"email"         yaml:"email"`
	Commits      int       `json:"commits"       yaml:"commits"`
	LinesAdded   int       `json:"lines_added"   yaml:"lines_added"`
	LinesDeleted int       `json:"lines_deleted" yaml:"lines_deleted"`
	FirstCommit  time.Time `json:"first_commit"  yaml:"first_commit"`
	LastCommit   time.Time `json:"last_commit"   yaml:"last_commit"`
	Avatar       string    `json:"avatar"        yaml:"avatar"`
}

// LinesChanged returns insertions plus deletions.
func (c ContributorStat) LinesChanged() int {
	return c.LinesAdded + c.LinesDeleted
}

// PulseReport is the full analytics report of one repository. It is the only
// value handed to renderers.
type PulseReport struct {
	Name        string    `json:"name"         yaml:"name"`
	Path        string    `json:"path"         yaml:"path"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	TotalCommits   int     `json:"total_commits"   yaml:"total_commits"`
	LinesAdded     int     `json:"lines_added"     yaml:"lines_added"`
	LinesDeleted   int     `json:"lines_deleted"   yaml:"lines_deleted"`
	EstimatedHours float64 `json:"estimated_hours" yaml:"estimated_hours"`
	FirstCommit    string  `json:"first_commit"    yaml:"first_commit"`
	LastCommit     string  `json:"last_commit"     yaml:"last_commit"`
	PeakHour       string  `json:"peak_hour"       yaml:"peak_hour"`

	TopLanguages []string       `json:"top_languages" yaml:"top_languages"`
	Languages    []LanguageStat `json:"languages"     yaml:"languages"`
	// Other collects bytes of files with no recognized language. It never
	// takes part in percentage computation.
	Other LanguageStat `json:"other_languages" yaml:"other_languages"`

	Heatmap            map[string]int `json:"heatmap"             yaml:"heatmap"`
	ActivityPulse      map[string]int `json:"activity_pulse"      yaml:"activity_pulse"`
	HourlyDistribution map[int]int    `json:"hourly_distribution" yaml:"hourly_distribution"`
	// PunchCard counts commits by weekday (Sunday first) and hour.
	PunchCard [7][24]int `json:"punch_card" yaml:"punch_card"`

	Contributors []ContributorStat `json:"contributors" yaml:"contributors"`
}

// ContributorCommits returns the sum of commit counts over all contributors.
func (r PulseReport) ContributorCommits() int {
	total := 0
	for _, c := range r.Contributors {
		total += c.Commits
	}

	return total
}

// ClassifiedBytes returns the number of bytes attributed to a known language.
func (r PulseReport) ClassifiedBytes() int64 {
	var total int64
	for _, l := range r.Languages {
		total += l.Bytes
	}

	return total
}
