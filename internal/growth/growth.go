// Package growth compares the two most recent metric snapshots of a focus song.
package growth

import (
	"math"
	"regexp"
	"sort"
	"strconv"

	"teamops/internal/model"
)

var separators = regexp.MustCompile(`[,\s]`)

// ParseCount reads a counter typed by hand ("12,345", " 9 800 "). Anything
// that does not parse, including nil and "", counts as 0.
func ParseCount(s *string) float64 {
	if s == nil {
		return 0
	}
	clean := separators.ReplaceAllString(*s, "")
	if clean == "" {
		return 0
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Percent is the change from previous to latest in percent. The divisor is
// clamped to 1 so a zero baseline gives a finite number.
func Percent(latest, previous float64) float64 {
	return (latest - previous) / math.Max(previous, 1) * 100
}

// Metric is one counter in the latest snapshot next to the one before it.
type Metric struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Growth   float64 `json:"growth"`
}

type YouTube struct {
	Views   Metric `json:"views"`
	AdViews Metric `json:"adViews"`
}

type Spotify struct {
	Streams         Metric `json:"streams"`
	PlaylistEntries Metric `json:"playlistEntries"`
}

// Social.TotalViews is TikTok and Instagram views added together; its growth
// is the channel's trend.
type Social struct {
	TiktokViews    Metric  `json:"tiktokViews"`
	InstagramViews Metric  `json:"instagramViews"`
	TotalViews     Metric  `json:"totalViews"`
	Engagement     float64 `json:"engagementRate"`
}

// Radio.Trend is the larger of the two growth figures.
type Radio struct {
	Stations Metric  `json:"stations"`
	Plays    Metric  `json:"plays"`
	Trend    float64 `json:"trend"`
}

type Summary struct {
	FocusSongID  string      `json:"focusSongId"`
	LatestDate   model.Date  `json:"latestDate"`
	PreviousDate *model.Date `json:"previousDate"`
	Snapshots    int         `json:"snapshots"`
	YouTube      YouTube     `json:"youtube"`
	Spotify      Spotify     `json:"spotify"`
	Social       Social      `json:"social"`
	Radio        Radio       `json:"radio"`
	Press        Metric      `json:"press"`
}

// Sorted returns a copy of rows ordered by date, oldest first. Rows on the
// same day keep creation order.
func Sorted(rows []model.DailyMetrics) []model.DailyMetrics {
	out := append([]model.DailyMetrics(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Summarize builds the comparison for one song's snapshots. It returns nil
// when there are none.
func Summarize(rows []model.DailyMetrics) *Summary {
	if len(rows) == 0 {
		return nil
	}
	rows = Sorted(rows)
	latest := &rows[len(rows)-1]
	var previous *model.DailyMetrics
	if len(rows) > 1 {
		previous = &rows[len(rows)-2]
	}

	measure := func(f func(*model.DailyMetrics) float64) Metric {
		m := Metric{Current: f(latest)}
		if previous != nil {
			m.Previous = f(previous)
			m.Growth = Percent(m.Current, m.Previous)
		}
		return m
	}
	pick := func(f func(*model.DailyMetrics) *string) Metric {
		return measure(func(d *model.DailyMetrics) float64 { return ParseCount(f(d)) })
	}

	s := &Summary{
		FocusSongID: latest.FocusSongID,
		LatestDate:  latest.Date,
		Snapshots:   len(rows),
		YouTube: YouTube{
			Views:   pick(func(d *model.DailyMetrics) *string { return d.YoutubeViews }),
			AdViews: pick(func(d *model.DailyMetrics) *string { return d.YoutubeAdViews }),
		},
		Spotify: Spotify{
			Streams:         pick(func(d *model.DailyMetrics) *string { return d.SpotifyStreams }),
			PlaylistEntries: pick(func(d *model.DailyMetrics) *string { return d.SpotifyPlaylistEntries }),
		},
		Social: Social{
			TiktokViews:    pick(func(d *model.DailyMetrics) *string { return d.TiktokViews }),
			InstagramViews: pick(func(d *model.DailyMetrics) *string { return d.InstagramViews }),
			TotalViews:     measure(socialViews),
			Engagement:     Engagement(latest),
		},
		Radio: Radio{
			Stations: pick(func(d *model.DailyMetrics) *string { return d.RadioStationsPlaying }),
			Plays:    pick(func(d *model.DailyMetrics) *string { return d.RadioTotalPlays }),
		},
		Press: pick(func(d *model.DailyMetrics) *string { return d.PressReleasePickups }),
	}
	s.Radio.Trend = math.Max(s.Radio.Stations.Growth, s.Radio.Plays.Growth)
	if previous != nil {
		d := previous.Date
		s.PreviousDate = &d
	}
	return s
}

func socialViews(m *model.DailyMetrics) float64 {
	return ParseCount(m.TiktokViews) + ParseCount(m.InstagramViews)
}

// Engagement is post likes over total views on TikTok and Instagram, in percent.
func Engagement(m *model.DailyMetrics) float64 {
	likes := ParseCount(m.TiktokPostLikes) + ParseCount(m.InstagramPostLikes)
	return likes / math.Max(socialViews(m), 1) * 100
}
