package service

import (
	"context"
	"fmt"

	"teamops/internal/audit"
	"teamops/internal/growth"
	"teamops/internal/model"
	"teamops/internal/patch"

	"gorm.io/gorm"
)

func counter(name string, ref func(*model.DailyMetrics) **string) patch.Field[model.DailyMetrics] {
	return patch.Nullable(name, ref)
}

var dailyMetricsFields = patch.NewSchema(
	patch.Value("focusSongId", func(d *model.DailyMetrics) *string { return &d.FocusSongID }),
	patch.Value("date", func(d *model.DailyMetrics) *model.Date { return &d.Date }),
	patch.Value("channel", func(d *model.DailyMetrics) *model.Channel { return &d.Channel }),
	counter("youtubeViews", func(d *model.DailyMetrics) **string { return &d.YoutubeViews }),
	counter("youtubeAdViews", func(d *model.DailyMetrics) **string { return &d.YoutubeAdViews }),
	counter("youtubeAvgTime", func(d *model.DailyMetrics) **string { return &d.YoutubeAvgTime }),
	counter("spotifyStreams", func(d *model.DailyMetrics) **string { return &d.SpotifyStreams }),
	counter("spotifyPlaylistEntries", func(d *model.DailyMetrics) **string { return &d.SpotifyPlaylistEntries }),
	counter("instagramViews", func(d *model.DailyMetrics) **string { return &d.InstagramViews }),
	counter("tiktokViews", func(d *model.DailyMetrics) **string { return &d.TiktokViews }),
	counter("tiktokVideosPerSound", func(d *model.DailyMetrics) **string { return &d.TiktokVideosPerSound }),
	counter("tiktokPostLink", func(d *model.DailyMetrics) **string { return &d.TiktokPostLink }),
	counter("tiktokPostViews", func(d *model.DailyMetrics) **string { return &d.TiktokPostViews }),
	counter("tiktokPostShares", func(d *model.DailyMetrics) **string { return &d.TiktokPostShares }),
	counter("tiktokPostLikes", func(d *model.DailyMetrics) **string { return &d.TiktokPostLikes }),
	counter("tiktokPostSaves", func(d *model.DailyMetrics) **string { return &d.TiktokPostSaves }),
	counter("instagramPostLink", func(d *model.DailyMetrics) **string { return &d.InstagramPostLink }),
	counter("instagramPostViews", func(d *model.DailyMetrics) **string { return &d.InstagramPostViews }),
	counter("instagramPostLikes", func(d *model.DailyMetrics) **string { return &d.InstagramPostLikes }),
	counter("instagramVideosUsingSound", func(d *model.DailyMetrics) **string { return &d.InstagramVideosUsingSound }),
	counter("tiktokVideosUsingSound", func(d *model.DailyMetrics) **string { return &d.TiktokVideosUsingSound }),
	counter("pressReleasePickups", func(d *model.DailyMetrics) **string { return &d.PressReleasePickups }),
	counter("radioStationsPlaying", func(d *model.DailyMetrics) **string { return &d.RadioStationsPlaying }),
	counter("radioTotalPlays", func(d *model.DailyMetrics) **string { return &d.RadioTotalPlays }),
	patch.Nullable("notes", func(d *model.DailyMetrics) **string { return &d.Notes }),
)

type DailyMetricsService struct {
	db    *gorm.DB
	audit *audit.Writer
}

func NewDailyMetricsService(db *gorm.DB, w *audit.Writer) *DailyMetricsService {
	return &DailyMetricsService{db: db, audit: w}
}

// ForSong lists a song's snapshots, newest first. A non-empty date narrows
// the list to that day.
func (s *DailyMetricsService) ForSong(ctx context.Context, focusSongID string, date model.Date) ([]model.DailyMetrics, error) {
	q := s.db.WithContext(ctx).Where("focus_song_id = ?", focusSongID)
	if date != "" {
		q = q.Where("date = ?", date)
	}
	rows := []model.DailyMetrics{}
	if err := q.Order("date DESC").Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list daily metrics: %w", err)
	}
	return rows, nil
}

// Summary compares the song's two latest snapshots. It is nil when the song
// has none; an unknown song is ErrNotFound.
func (s *DailyMetricsService) Summary(ctx context.Context, focusSongID string) (*growth.Summary, []model.DailyMetrics, error) {
	if _, err := find[model.FocusSong](ctx, s.db, focusSongID); err != nil {
		return nil, nil, wrap("summarize", model.EntityDailyMetrics, err)
	}
	rows, err := s.ForSong(ctx, focusSongID, "")
	if err != nil {
		return nil, nil, err
	}
	return growth.Summarize(rows), growth.Sorted(rows), nil
}

func (s *DailyMetricsService) Create(ctx context.Context, p patch.Patch, actor string) (*model.DailyMetrics, error) {
	res, err := build(dailyMetricsFields, model.DailyMetrics{CreatedBy: actor}, p)
	if err != nil {
		return nil, err
	}
	d := res.Next
	if d.FocusSongID != "" {
		if err := songExists(ctx, s.db, d.FocusSongID); err != nil {
			return nil, wrap("create", model.EntityDailyMetrics, err)
		}
	}
	if err := insert(ctx, s.db, &d); err != nil {
		return nil, wrap("create", model.EntityDailyMetrics, err)
	}
	s.audit.Created(ctx, model.EntityDailyMetrics, d.ID, actor, d)
	return &d, nil
}

func (s *DailyMetricsService) Update(ctx context.Context, id string, p patch.Patch, actor string) (*model.DailyMetrics, error) {
	d, changes, err := update(ctx, s.db, dailyMetricsFields, id, p, func(tx *gorm.DB, res *patch.Result[model.DailyMetrics]) error {
		if !res.Has("focus_song_id") {
			return nil
		}
		return songExists(ctx, tx, res.Next.FocusSongID)
	})
	if err != nil {
		return nil, wrap("update", model.EntityDailyMetrics, err)
	}
	s.audit.Updated(ctx, model.EntityDailyMetrics, id, actor, changes)
	return d, nil
}

func (s *DailyMetricsService) Delete(ctx context.Context, id, actor string) error {
	prior, err := remove[model.DailyMetrics](ctx, s.db, id, nil)
	if err != nil {
		return wrap("delete", model.EntityDailyMetrics, err)
	}
	s.audit.Deleted(ctx, model.EntityDailyMetrics, id, actor, prior)
	return nil
}

func songExists(ctx context.Context, db *gorm.DB, id string) error {
	var n int64
	if err := db.WithContext(ctx).Model(&model.FocusSong{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check focus song: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: focus song %s does not exist", ErrInvalid, id)
	}
	return nil
}
