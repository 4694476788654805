package pulse

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Day segments, keyed by the hour a commit was authored in its local time.
const (
	SegmentEarlyBird = "Early Bird"
	SegmentMorning   = "Morning"
	SegmentAfternoon = "Afternoon"
	SegmentLateNight = "Late Night"
)

// Segments lists the day segments in display order.
var Segments = []string{SegmentEarlyBird, SegmentMorning, SegmentAfternoon, SegmentLateNight}

const (
	hoursPerDay  = 24
	daysPerWeek  = 7
	dayFormat    = "2006-01-02"
	morningHour  = 6
	noonHour     = 12
	eveningHour  = 18
	sessionGap   = 2 * time.Hour
	sessionStart = 0.5 // Hours credited when a new work session begins.
)

type activity struct {
	heatmap   map[string]int
	hourly    map[int]int
	segments  map[string]int
	punchCard [daysPerWeek][hoursPerDay]int
}

func buildActivity(commits []Commit) activity {
	act := activity{
		heatmap:  make(map[string]int),
		hourly:   make(map[int]int),
		segments: make(map[string]int, len(Segments)),
	}

	for _, name := range Segments {
		act.segments[name] = 0
	}

	for _, c := range commits {
		hour := c.When.Hour()

		act.heatmap[c.When.Format(dayFormat)]++
		act.hourly[hour]++
		act.segments[segmentFor(hour)]++
		act.punchCard[c.When.Weekday()][hour]++
	}

	return act
}

func segmentFor(hour int) string {
	switch {
	case hour < morningHour:
		return SegmentEarlyBird
	case hour < noonHour:
		return SegmentMorning
	case hour < eveningHour:
		return SegmentAfternoon
	default:
		return SegmentLateNight
	}
}

func commitDayRange(heatmap map[string]int) (first, last string) {
	if len(heatmap) == 0 {
		return NotAvailable, NotAvailable
	}

	days := make([]string, 0, len(heatmap))
	for day := range heatmap {
		days = append(days, day)
	}

	slices.Sort(days)

	return days[0], days[len(days)-1]
}

// peakHour returns the busiest hour as "H:00". Ties go to the earlier hour.
func peakHour(hourly map[int]int) string {
	best, bestCount := -1, 0

	for hour := range hoursPerDay {
		if n := hourly[hour]; n > bestCount {
			best, bestCount = hour, n
		}
	}

	if best < 0 {
		return NotAvailable
	}

	return fmt.Sprintf("%d:00", best)
}

// estimateHours clusters commits into work sessions. Commits closer than
// sessionGap belong to the same session and contribute the time between
// them; every new session contributes sessionStart hours.
func estimateHours(commits []Commit) float64 {
	if len(commits) == 0 {
		return 0
	}

	stamps := make([]time.Time, len(commits))
	for i, c := range commits {
		stamps[i] = c.When
	}

	slices.SortFunc(stamps, func(a, b time.Time) int { return a.Compare(b) })

	hours := sessionStart

	for i := 1; i < len(stamps); i++ {
		gap := stamps[i].Sub(stamps[i-1])
		if gap < sessionGap {
			hours += gap.Hours()
		} else {
			hours += sessionStart
		}
	}

	return math.Round(hours*10) / 10
}
