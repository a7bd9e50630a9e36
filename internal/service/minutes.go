package service

import (
	"context"
	"errors"
	"fmt"

	"teamops/internal/audit"
	"teamops/internal/model"
	"teamops/internal/patch"

	"gorm.io/gorm"
)

var minutesFields = patch.NewSchema(
	patch.Value("meetingId", func(m *model.MeetingMinutes) *string { return &m.MeetingID }),
	patch.List("participants", func(m *model.MeetingMinutes) *stringList { return &m.Participants }),
	patch.Nullable("duration", func(m *model.MeetingMinutes) **string { return &m.Duration }),
	patch.List("agenda", func(m *model.MeetingMinutes) *stringList { return &m.Agenda }),
	patch.List("decisions", func(m *model.MeetingMinutes) *stringList { return &m.Decisions }),
	patch.List("assignedTasks", func(m *model.MeetingMinutes) *stringList { return &m.AssignedTasks }),
	patch.List("focusSongsDiscussed", func(m *model.MeetingMinutes) *stringList { return &m.FocusSongsDiscussed }),
	patch.Nullable("notes", func(m *model.MeetingMinutes) **string { return &m.Notes }),
)

// MinutesService keeps at most one minutes record per meeting.
type MinutesService struct {
	db    *gorm.DB
	audit *audit.Writer
}

func NewMinutesService(db *gorm.DB, w *audit.Writer) *MinutesService {
	return &MinutesService{db: db, audit: w}
}

func (s *MinutesService) ByMeeting(ctx context.Context, meetingID string) (*model.MeetingMinutes, error) {
	var m model.MeetingMinutes
	err := s.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrap("get", model.EntityMeetingMinutes, ErrNotFound)
	}
	if err != nil {
		return nil, wrap("get", model.EntityMeetingMinutes, err)
	}
	return &m, nil
}

func (s *MinutesService) Create(ctx context.Context, p patch.Patch, actor string) (*model.MeetingMinutes, error) {
	res, err := build(minutesFields, model.MeetingMinutes{CreatedBy: actor}, p)
	if err != nil {
		return nil, err
	}
	m := res.Next
	if m.MeetingID != "" {
		if err := meetingExists(ctx, s.db, m.MeetingID); err != nil {
			return nil, wrap("create", model.EntityMeetingMinutes, err)
		}
	}
	if err := insert(ctx, s.db, &m); err != nil {
		return nil, wrap("create", model.EntityMeetingMinutes, err)
	}
	s.audit.Created(ctx, model.EntityMeetingMinutes, m.ID, actor, m)
	return &m, nil
}

func (s *MinutesService) Update(ctx context.Context, id string, p patch.Patch, actor string) (*model.MeetingMinutes, error) {
	m, changes, err := update(ctx, s.db, minutesFields, id, p, func(tx *gorm.DB, res *patch.Result[model.MeetingMinutes]) error {
		if !res.Has("meeting_id") {
			return nil
		}
		return meetingExists(ctx, tx, res.Next.MeetingID)
	})
	if err != nil {
		return nil, wrap("update", model.EntityMeetingMinutes, err)
	}
	s.audit.Updated(ctx, model.EntityMeetingMinutes, id, actor, changes)
	return m, nil
}

func (s *MinutesService) Delete(ctx context.Context, id, actor string) error {
	prior, err := remove[model.MeetingMinutes](ctx, s.db, id, nil)
	if err != nil {
		return wrap("delete", model.EntityMeetingMinutes, err)
	}
	s.audit.Deleted(ctx, model.EntityMeetingMinutes, id, actor, prior)
	return nil
}

// meetingExists reports a missing meeting as bad input, not as not found.
func meetingExists(ctx context.Context, db *gorm.DB, id string) error {
	var n int64
	if err := db.WithContext(ctx).Model(&model.Meeting{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check meeting: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: meeting %s does not exist", ErrInvalid, id)
	}
	return nil
}
