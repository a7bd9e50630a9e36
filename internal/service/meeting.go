package service

import (
	"context"
	"fmt"

	"teamops/internal/audit"
	"teamops/internal/model"
	"teamops/internal/patch"

	"gorm.io/gorm"
)

const MeetingScheduled = "scheduled"

var meetingFields = patch.NewSchema(
	patch.Value("title", func(m *model.Meeting) *string { return &m.Title }),
	patch.Value("type", func(m *model.Meeting) *model.MeetingType { return &m.Type }),
	patch.Nullable("description", func(m *model.Meeting) **string { return &m.Description }),
	patch.Value("date", func(m *model.Meeting) *model.Date { return &m.Date }),
	patch.Value("time", func(m *model.Meeting) *string { return &m.Time }),
	patch.Value("duration", func(m *model.Meeting) *string { return &m.Duration }),
	patch.List("participants", func(m *model.Meeting) *stringList { return &m.Participants }),
	patch.List("agenda", func(m *model.Meeting) *stringList { return &m.Agenda }),
	patch.Value("status", func(m *model.Meeting) *string { return &m.Status }).AsStatus(),
)

// MeetingFilter selects one listing. A complete date range wins over type.
type MeetingFilter struct {
	StartDate model.Date
	EndDate   model.Date
	Type      model.MeetingType
}

// Notifier is told about each new meeting. It must not block.
type Notifier interface {
	MeetingCreated(m model.Meeting)
}

type MeetingService struct {
	db     *gorm.DB
	audit  *audit.Writer
	notify Notifier
}

func NewMeetingService(db *gorm.DB, w *audit.Writer, n Notifier) *MeetingService {
	return &MeetingService{db: db, audit: w, notify: n}
}

func (s *MeetingService) List(ctx context.Context, f MeetingFilter) ([]model.Meeting, error) {
	q := s.db.WithContext(ctx)
	switch {
	case f.StartDate != "" && f.EndDate != "":
		q = q.Where("date >= ? AND date <= ?", f.StartDate, f.EndDate).Order("date").Order("time")
	case f.Type != "":
		q = q.Where("type = ?", f.Type).Order("date DESC")
	default:
		q = q.Order("date DESC")
	}
	meetings := []model.Meeting{}
	if err := q.Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return meetings, nil
}

func (s *MeetingService) Get(ctx context.Context, id string) (*model.Meeting, error) {
	m, err := find[model.Meeting](ctx, s.db, id)
	return m, wrap("get", model.EntityMeeting, err)
}

// Create fills title, duration and agenda from the type's template when the
// payload leaves them empty.
func (s *MeetingService) Create(ctx context.Context, p patch.Patch, actor string) (*model.Meeting, error) {
	res, err := build(meetingFields, model.Meeting{Status: MeetingScheduled}, p)
	if err != nil {
		return nil, err
	}
	m := res.Next
	m.CreatedBy = actor
	if m.Status == "" {
		m.Status = MeetingScheduled
	}
	if tpl, ok := model.TemplateFor(m.Type); ok {
		if m.Title == "" {
			m.Title = tpl.Title
		}
		if m.Duration == "" {
			m.Duration = tpl.Duration
		}
		if len(m.Agenda) == 0 {
			m.Agenda = tpl.Agenda
		}
	}
	if m.Participants == nil {
		m.Participants = stringList{}
	}
	if err := insert(ctx, s.db, &m); err != nil {
		return nil, wrap("create", model.EntityMeeting, err)
	}
	s.audit.Created(ctx, model.EntityMeeting, m.ID, actor, m)
	if s.notify != nil {
		s.notify.MeetingCreated(m)
	}
	return &m, nil
}

func (s *MeetingService) Update(ctx context.Context, id string, p patch.Patch, actor string) (*model.Meeting, error) {
	m, changes, err := update(ctx, s.db, meetingFields, id, p, nil)
	if err != nil {
		return nil, wrap("update", model.EntityMeeting, err)
	}
	s.audit.Updated(ctx, model.EntityMeeting, id, actor, changes)
	return m, nil
}

// Delete detaches the meeting's tasks and drops its minutes with the meeting.
func (s *MeetingService) Delete(ctx context.Context, id, actor string) error {
	prior, err := remove[model.Meeting](ctx, s.db, id, func(tx *gorm.DB, id string) error {
		if err := tx.Model(&model.Task{}).Where("meeting_id = ?", id).Update("meeting_id", nil).Error; err != nil {
			return fmt.Errorf("detach tasks: %w", err)
		}
		if err := tx.Where("meeting_id = ?", id).Delete(&model.MeetingMinutes{}).Error; err != nil {
			return fmt.Errorf("delete minutes: %w", err)
		}
		return nil
	})
	if err != nil {
		return wrap("delete", model.EntityMeeting, err)
	}
	s.audit.Deleted(ctx, model.EntityMeeting, id, actor, prior)
	return nil
}

func (s *MeetingService) Templates() []model.MeetingTemplate { return model.MeetingTemplates() }
