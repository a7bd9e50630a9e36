package service

import (
	"fmt"
	"io"

	"teamops/internal/growth"
	"teamops/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	metricsSheet = "Metrics"
	summarySheet = "Summary"
)

type exportColumn struct {
	header string
	value  func(d *model.DailyMetrics) *string
}

var exportColumns = []exportColumn{
	{"YouTube views", func(d *model.DailyMetrics) *string { return d.YoutubeViews }},
	{"YouTube ad views", func(d *model.DailyMetrics) *string { return d.YoutubeAdViews }},
	{"Spotify streams", func(d *model.DailyMetrics) *string { return d.SpotifyStreams }},
	{"Spotify playlist entries", func(d *model.DailyMetrics) *string { return d.SpotifyPlaylistEntries }},
	{"TikTok views", func(d *model.DailyMetrics) *string { return d.TiktokViews }},
	{"Instagram views", func(d *model.DailyMetrics) *string { return d.InstagramViews }},
	{"TikTok post likes", func(d *model.DailyMetrics) *string { return d.TiktokPostLikes }},
	{"Instagram post likes", func(d *model.DailyMetrics) *string { return d.InstagramPostLikes }},
	{"TikTok videos using sound", func(d *model.DailyMetrics) *string { return d.TiktokVideosUsingSound }},
	{"Instagram videos using sound", func(d *model.DailyMetrics) *string { return d.InstagramVideosUsingSound }},
	{"Press pickups", func(d *model.DailyMetrics) *string { return d.PressReleasePickups }},
	{"Radio stations", func(d *model.DailyMetrics) *string { return d.RadioStationsPlaying }},
	{"Radio plays", func(d *model.DailyMetrics) *string { return d.RadioTotalPlays }},
}

// WriteMetricsWorkbook writes one row per snapshot, oldest first, and a
// summary sheet comparing the last two.
func WriteMetricsWorkbook(w io.Writer, song *model.FocusSong, rows []model.DailyMetrics) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", metricsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := []any{"Date", "Channel"}
	for _, c := range exportColumns {
		header = append(header, c.header)
	}
	header = append(header, "Engagement %", "Notes")
	if err := f.SetSheetRow(metricsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rows = growth.Sorted(rows)
	for i := range rows {
		d := &rows[i]
		line := []any{d.Date.String(), string(d.Channel)}
		for _, c := range exportColumns {
			line = append(line, growth.ParseCount(c.value(d)))
		}
		notes := ""
		if d.Notes != nil {
			notes = *d.Notes
		}
		line = append(line, growth.Engagement(d), notes)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(metricsSheet, cell, &line); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	if err := writeSummary(f, song, growth.Summarize(rows)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, song *model.FocusSong, s *growth.Summary) error {
	lines := [][]any{
		{"Song", song.Title},
		{"Artist", song.Artist},
	}
	if s == nil {
		lines = append(lines, []any{"No metrics recorded"})
	} else {
		prev := ""
		if s.PreviousDate != nil {
			prev = s.PreviousDate.String()
		}
		lines = append(lines,
			[]any{"Latest", s.LatestDate.String()},
			[]any{"Previous", prev},
			[]any{},
			[]any{"Metric", "Current", "Previous", "Growth %"},
		)
		for _, m := range []struct {
			name string
			m    growth.Metric
		}{
			{"YouTube views", s.YouTube.Views},
			{"YouTube ad views", s.YouTube.AdViews},
			{"Spotify streams", s.Spotify.Streams},
			{"Spotify playlist entries", s.Spotify.PlaylistEntries},
			{"TikTok views", s.Social.TiktokViews},
			{"Instagram views", s.Social.InstagramViews},
			{"Social views (total)", s.Social.TotalViews},
			{"Radio stations", s.Radio.Stations},
			{"Radio plays", s.Radio.Plays},
			{"Press pickups", s.Press},
		} {
			lines = append(lines, []any{m.name, m.m.Current, m.m.Previous, m.m.Growth})
		}
		lines = append(lines,
			[]any{"Engagement %", s.Social.Engagement},
			[]any{"Radio trend %", s.Radio.Trend},
		)
	}
	for i, line := range lines {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &line); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return nil
}
