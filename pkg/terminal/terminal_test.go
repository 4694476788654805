package terminal

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitpulse/pkg/pulse"
)

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "  yes  \r\n", want: true},
		{input: "y", want: true},
		{input: "n\n", want: false},
		{input: "yep\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			got, err := Confirm(strings.NewReader(tt.input), &out, "Proceed? (y/n)")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Proceed? (y/n) ", out.String())
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("tty gone")
}

func TestConfirmReadError(t *testing.T) {
	t.Parallel()

	ok, err := Confirm(failingReader{}, &bytes.Buffer{}, "?")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestIsInteractive(t *testing.T) {
	t.Parallel()

	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.False(t, IsInteractive(f))
	assert.False(t, IsInteractive(strings.NewReader("y\n")))
}

func TestPrinterWithoutColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	p := NewPrinter(&buf, true)
	p.Successf("done %d", 1)
	p.Infof("info")
	p.Warnf("careful")
	p.Errorf("Error: %s", "bad")

	assert.Equal(t, "done 1\ninfo\ncareful\nError: bad\n", buf.String())
}

func TestSummary(t *testing.T) {
	t.Parallel()

	report := pulse.PulseReport{
		Name:           "demo",
		TotalCommits:   1234,
		EstimatedHours: 12.5,
		PeakHour:       "14:00",
		FirstCommit:    "2024-01-01",
		LastCommit:     "2024-02-01",
		Contributors: []pulse.ContributorStat{
			{Name: "Ada", Commits: 1000, LinesAdded: 5000},
			{Name: "Bob", Commits: 200},
			{Name: "Cy", Commits: 34},
		},
		Languages: []pulse.LanguageStat{{Name: "Go", Bytes: 2048, Files: 3, Percentage: 100}},
	}

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, report, 2))

	out := buf.String()
	assert.Contains(t, out, "demo: 1,234 commits, 3 contributors, ~12.5 hours, peak 14:00 (2024-01-01 to 2024-02-01)")
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "+5,000")
	assert.NotContains(t, out, "Cy")
	assert.Contains(t, out, "+1 more")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "100.0%")
}

func TestSummaryEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, pulse.PulseReport{Name: "empty", PeakHour: pulse.NotAvailable}, 0))

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}
