package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/commitpulse/internal/plotpage"
	"github.com/Sumatoshi-tech/commitpulse/pkg/languages"
	"github.com/Sumatoshi-tech/commitpulse/pkg/pulse"
)

var generatedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleReport(t *testing.T) pulse.PulseReport {
	t.Helper()

	base := time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC)
	commits := []pulse.Commit{
		{Hash: "a", AuthorName: "Ada", AuthorEmail: "ada@example.com", When: base,
			Changes: []pulse.FileChange{{Path: "main.go", Added: 10}}},
		{Hash: "b", AuthorName: "Ada", AuthorEmail: "ada@example.com", When: base.Add(30 * time.Minute),
			Changes: []pulse.FileChange{{Path: "app.py", Added: 4, Deleted: 1}}},
		{Hash: "c", AuthorName: "<Bob>", AuthorEmail: "bob@example.com", When: base.Add(26 * time.Hour)},
	}
	files := []pulse.TrackedFile{
		{Path: "main.go", Size: 600},
		{Path: "app.py", Size: 400},
		{Path: "LICENSE", Size: 1000},
	}

	report := pulse.Aggregate(pulse.RepoInfo{Name: "demo", Path: "/tmp/demo"}, commits, files,
		languages.NewClassifier(languages.DefaultTable()), pulse.Options{Now: func() time.Time { return generatedAt }})
	report.Contributors[0].Avatar = "https://avatars.example.com/ada.png"

	return report
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	report := sampleReport(t)

	html, err := Dashboard([]pulse.PulseReport{report}, plotpage.ThemeDark)
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "<title>demo | CommitPulse</title>")
	for _, id := range []string{"daily", "growth", "punch", "hourly", "segments", "languages", "contributors"} {
		assert.Contains(t, out, `id="pulse-0-`+id+`"`)
	}
	assert.Contains(t, out, `<img class="avatar" src="https://avatars.example.com/ada.png" alt="">Ada`)
	assert.Contains(t, out, "&lt;Bob&gt;")
	assert.Contains(t, out, "Go: 60.0%")
	assert.Contains(t, out, "Unrecognized files are not counted: 1 files")

	again, err := Dashboard([]pulse.PulseReport{report}, plotpage.ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, html, again)
}

func TestDashboardEmptyAndMany(t *testing.T) {
	t.Parallel()

	empty := pulse.Aggregate(pulse.RepoInfo{Name: "empty"}, nil, nil, nil, pulse.Options{Now: func() time.Time { return generatedAt }})

	html, err := Dashboard([]pulse.PulseReport{sampleReport(t), empty}, plotpage.ThemeLight)
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "2 repositories")
	assert.Contains(t, out, "no commits yet")
	assert.NotContains(t, out, `id="pulse-1-daily"`)
	assert.Contains(t, out, pulse.NotAvailable)

	assert.Contains(t, out, "2 repositories scanned")
	assert.Contains(t, out, `<div class="card">`)
	assert.Contains(t, out, "<h3>demo</h3>")
	assert.Contains(t, out, "3 commits by 2 contributors, peak hour 9:00.")
	assert.Contains(t, out, "<td>empty</td>")
	assert.Equal(t, 1, strings.Count(out, "Comparison"))
}

func TestDashboardSingleRepositoryHasNoComparison(t *testing.T) {
	t.Parallel()

	html, err := Dashboard([]pulse.PulseReport{sampleReport(t)}, plotpage.ThemeDark)
	require.NoError(t, err)
	assert.NotContains(t, string(html), "Comparison")
	assert.NotContains(t, string(html), `<div class="card">`)
}

func TestPayload(t *testing.T) {
	t.Parallel()

	report := sampleReport(t)
	payload := NewPayload("ada", []pulse.PulseReport{report})

	assert.Equal(t, "demo", payload.RepoName)
	require.NoError(t, payload.Validate())

	data, err := payload.Encode()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "ada", decoded["username"])
	assert.Equal(t, "demo", decoded["repoName"])

	stats, ok := decoded["stats"].([]any)
	require.True(t, ok)
	require.Len(t, stats, 1)

	first, ok := stats[0].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 3, first["total_commits"], 0)
	assert.Contains(t, first, "activity_pulse")
}

func TestPayloadValidateRejects(t *testing.T) {
	t.Parallel()

	err := NewPayload("", []pulse.PulseReport{sampleReport(t)}).Validate()
	require.ErrorIs(t, err, ErrInvalidPayload)
	assert.Contains(t, err.Error(), "username")

	err = NewPayload("ada", nil).Validate()
	require.ErrorIs(t, err, ErrInvalidPayload)
}

func TestExport(t *testing.T) {
	t.Parallel()

	reports := []pulse.PulseReport{sampleReport(t)}

	var jsonBuf bytes.Buffer
	require.NoError(t, Export(&jsonBuf, reports, FormatJSON))

	var fromJSON []pulse.PulseReport
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, reports[0].Contributors, fromJSON[0].Contributors)
	assert.Equal(t, reports[0].PunchCard, fromJSON[0].PunchCard)

	var yamlBuf bytes.Buffer
	require.NoError(t, Export(&yamlBuf, reports, FormatYAML))
	assert.True(t, strings.HasPrefix(yamlBuf.String(), "- name: demo"))

	var fromYAML []map[string]any
	require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML))
	assert.Equal(t, 3, fromYAML[0]["total_commits"])

	require.ErrorIs(t, Export(&bytes.Buffer{}, reports, "toml"), ErrUnknownFormat)
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatYAML, FormatFromPath("out/stats.YML"))
	assert.Equal(t, FormatYAML, FormatFromPath("stats.yaml"))
	assert.Equal(t, FormatJSON, FormatFromPath("stats.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("stats"))
}
