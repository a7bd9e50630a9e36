package service

import (
	"context"
	"fmt"

	"teamops/internal/audit"
	"teamops/internal/model"
	"teamops/internal/patch"

	"gorm.io/gorm"
)

func songText(name string, ref func(*model.FocusSong) **string) patch.Field[model.FocusSong] {
	return patch.Nullable(name, ref)
}

var focusSongFields = patch.NewSchema(
	patch.Value("title", func(f *model.FocusSong) *string { return &f.Title }),
	patch.Value("artist", func(f *model.FocusSong) *string { return &f.Artist }),
	patch.Value("status", func(f *model.FocusSong) *model.SongStatus { return &f.Status }).AsStatus(),
	patch.Value("category", func(f *model.FocusSong) *model.TrackCategory { return &f.Category }),
	patch.Nullable("releaseDate", func(f *model.FocusSong) **model.Date { return &f.ReleaseDate }),
	songText("youtubeProgress", func(f *model.FocusSong) **string { return &f.YoutubeProgress }),
	songText("socialMediaProgress", func(f *model.FocusSong) **string { return &f.SocialMediaProgress }),
	songText("spotifyProgress", func(f *model.FocusSong) **string { return &f.SpotifyProgress }),
	songText("radioProgress", func(f *model.FocusSong) **string { return &f.RadioProgress }),
	songText("pressProgress", func(f *model.FocusSong) **string { return &f.PressProgress }),
	songText("youtubeResponsible", func(f *model.FocusSong) **string { return &f.YoutubeResponsible }),
	songText("socialMediaResponsible", func(f *model.FocusSong) **string { return &f.SocialMediaResponsible }),
	songText("spotifyResponsible", func(f *model.FocusSong) **string { return &f.SpotifyResponsible }),
	songText("radioResponsible", func(f *model.FocusSong) **string { return &f.RadioResponsible }),
	songText("pressResponsible", func(f *model.FocusSong) **string { return &f.PressResponsible }),
	songText("notes", func(f *model.FocusSong) **string { return &f.Notes }),
)

// SongFilter selects one listing; Active takes precedence over BackCatalog.
type SongFilter struct {
	Active      bool
	BackCatalog bool
}

type FocusSongService struct {
	db    *gorm.DB
	audit *audit.Writer
}

func NewFocusSongService(db *gorm.DB, w *audit.Writer) *FocusSongService {
	return &FocusSongService{db: db, audit: w}
}

func (s *FocusSongService) List(ctx context.Context, f SongFilter) ([]model.FocusSong, error) {
	q := s.db.WithContext(ctx)
	switch {
	case f.Active:
		q = q.Where("category = ? AND status IN ?", model.CategoryActiveFocus,
			[]model.SongStatus{model.SongActive, model.SongPromoted, model.SongPlanning})
	case f.BackCatalog:
		q = q.Where("category = ?", model.CategoryBackCatalog)
	}
	songs := []model.FocusSong{}
	if err := q.Order("created_at DESC").Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("list focus songs: %w", err)
	}
	return songs, nil
}

func (s *FocusSongService) ByCategory(ctx context.Context, c model.TrackCategory) ([]model.FocusSong, error) {
	if c != model.CategoryActiveFocus && c != model.CategoryBackCatalog {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalid, c)
	}
	songs := []model.FocusSong{}
	err := s.db.WithContext(ctx).Where("category = ?", c).Order("created_at DESC").Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("list focus songs by category: %w", err)
	}
	return songs, nil
}

func (s *FocusSongService) Get(ctx context.Context, id string) (*model.FocusSong, error) {
	f, err := find[model.FocusSong](ctx, s.db, id)
	return f, wrap("get", model.EntityFocusSong, err)
}

func (s *FocusSongService) Create(ctx context.Context, p patch.Patch, actor string) (*model.FocusSong, error) {
	base := model.FocusSong{Status: model.SongActive, Category: model.CategoryActiveFocus}
	res, err := build(focusSongFields, base, p)
	if err != nil {
		return nil, err
	}
	f := res.Next
	if err := insert(ctx, s.db, &f); err != nil {
		return nil, wrap("create", model.EntityFocusSong, err)
	}
	s.audit.Created(ctx, model.EntityFocusSong, f.ID, actor, f)
	return &f, nil
}

func (s *FocusSongService) Update(ctx context.Context, id string, p patch.Patch, actor string) (*model.FocusSong, error) {
	f, changes, err := update(ctx, s.db, focusSongFields, id, p, nil)
	if err != nil {
		return nil, wrap("update", model.EntityFocusSong, err)
	}
	s.audit.Updated(ctx, model.EntityFocusSong, id, actor, changes)
	return f, nil
}

// Delete clears task references and removes the song's metrics before the
// song row itself, all in one transaction.
func (s *FocusSongService) Delete(ctx context.Context, id, actor string) error {
	prior, err := remove[model.FocusSong](ctx, s.db, id, func(tx *gorm.DB, id string) error {
		if err := tx.Model(&model.Task{}).Where("focus_song_id = ?", id).Update("focus_song_id", nil).Error; err != nil {
			return fmt.Errorf("detach tasks: %w", err)
		}
		if err := tx.Where("focus_song_id = ?", id).Delete(&model.DailyMetrics{}).Error; err != nil {
			return fmt.Errorf("delete daily metrics: %w", err)
		}
		return nil
	})
	if err != nil {
		return wrap("delete", model.EntityFocusSong, err)
	}
	s.audit.Deleted(ctx, model.EntityFocusSong, id, actor, prior)
	return nil
}
