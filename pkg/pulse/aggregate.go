package pulse

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"
)

const (
	// topLanguagesCount is how many language names are listed in TopLanguages.
	topLanguagesCount = 5
	// percentScale converts a fraction into a percentage.
	percentScale = 100
	// OtherLanguage is the bucket for files whose language is not recognized.
	OtherLanguage = "Other"
)

// Classifier maps a tracked path to a language label. ok is false when the
// file must be left out entirely, e.g. lock files or vendored code.
// A label equal to unknown sends the bytes to the Other bucket.
type Classifier interface {
	Classify(path string) (label string, ok bool)
	Unknown() string
}

// Options tunes Aggregate.
type Options struct {
	// Now stamps GeneratedAt. Defaults to time.Now.
	Now func() time.Time
}

// Aggregate folds commits and tracked files into a PulseReport. The result
// depends only on its inputs and the clock in opts.
func Aggregate(repo RepoInfo, commits []Commit, files []TrackedFile, classifier Classifier, opts Options) PulseReport {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	report := PulseReport{
		Name:        repo.Name,
		Path:        repo.Path,
		GeneratedAt: now(),
	}

	for _, c := range commits {
		report.LinesAdded += c.Insertions()
		report.LinesDeleted += c.Deletions()
	}

	report.TotalCommits = len(commits)
	report.Contributors = aggregateContributors(commits)

	act := buildActivity(commits)
	report.Heatmap = act.heatmap
	report.HourlyDistribution = act.hourly
	report.ActivityPulse = act.segments
	report.PunchCard = act.punchCard
	report.FirstCommit, report.LastCommit = commitDayRange(act.heatmap)
	report.PeakHour = peakHour(act.hourly)
	report.EstimatedHours = estimateHours(commits)

	report.Languages, report.Other = aggregateLanguages(files, classifier)
	report.TopLanguages = topLanguages(report.Languages, topLanguagesCount)

	return report
}

func contributorKey(c Commit) string {
	if c.AuthorEmail != "" {
		return strings.ToLower(c.AuthorEmail)
	}

	return "name:" + c.AuthorName
}

func aggregateContributors(commits []Commit) []ContributorStat {
	byKey := make(map[string]*ContributorStat)
	order := make([]string, 0)

	for _, c := range commits {
		key := contributorKey(c)

		stat, ok := byKey[key]
		if !ok {
			stat = &ContributorStat{
				Email:       c.AuthorEmail,
				FirstCommit: c.When,
				LastCommit:  c.When,
			}
			byKey[key] = stat
			order = append(order, key)
		}

		// Commits arrive oldest first, so the latest spelling of the name wins.
		stat.Name = c.AuthorName
		stat.Commits++
		stat.LinesAdded += c.Insertions()
		stat.LinesDeleted += c.Deletions()

		if c.When.Before(stat.FirstCommit) {
			stat.FirstCommit = c.When
		}

		if c.When.After(stat.LastCommit) {
			stat.LastCommit = c.When
		}
	}

	result := make([]ContributorStat, 0, len(order))
	for _, key := range order {
		result = append(result, *byKey[key])
	}

	slices.SortStableFunc(result, func(a, b ContributorStat) int {
		return cmp.Or(
			cmp.Compare(b.Commits, a.Commits),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.Email, b.Email),
		)
	})

	return result
}

func aggregateLanguages(files []TrackedFile, classifier Classifier) ([]LanguageStat, LanguageStat) {
	other := LanguageStat{Name: OtherLanguage}

	if classifier == nil {
		return []LanguageStat{}, other
	}

	byName := make(map[string]*LanguageStat)

	for _, f := range files {
		label, ok := classifier.Classify(f.Path)
		if !ok {
			continue
		}

		if label == classifier.Unknown() {
			other.Bytes += f.Size
			other.Files++

			continue
		}

		stat, exists := byName[label]
		if !exists {
			stat = &LanguageStat{Name: label}
			byName[label] = stat
		}

		stat.Bytes += f.Size
		stat.Files++
	}

	var total int64
	for _, stat := range byName {
		total += stat.Bytes
	}

	result := make([]LanguageStat, 0, len(byName))

	for _, stat := range byName {
		if total > 0 {
			stat.Percentage = float64(stat.Bytes) * percentScale / float64(total)
		}

		result = append(result, *stat)
	}

	slices.SortFunc(result, func(a, b LanguageStat) int {
		return cmp.Or(cmp.Compare(b.Bytes, a.Bytes), cmp.Compare(a.Name, b.Name))
	})

	return result, other
}

func topLanguages(langs []LanguageStat, n int) []string {
	count := min(n, len(langs))
	names := make([]string, count)

	for i := range count {
		names[i] = langs[i].Name
	}

	return names
}

// RoundPercent rounds a percentage to one decimal place for display.
func RoundPercent(p float64) float64 {
	return math.Round(p*10) / 10
}
