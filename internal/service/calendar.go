package service

import (
	"context"
	"fmt"
	"time"

	"teamops/internal/audit"
	"teamops/internal/model"
	"teamops/internal/patch"

	"gorm.io/gorm"
)

var calendarFields = patch.NewSchema(
	patch.Value("title", func(c *model.CalendarAction) *string { return &c.Title }),
	patch.Nullable("description", func(c *model.CalendarAction) **string { return &c.Description }),
	patch.Value("date", func(c *model.CalendarAction) *model.Date { return &c.Date }),
	patch.Value("sourceType", func(c *model.CalendarAction) *model.SourceType { return &c.SourceType }),
	patch.Nullable("sourceId", func(c *model.CalendarAction) **string { return &c.SourceID }),
	patch.Nullable("assignedTo", func(c *model.CalendarAction) **string { return &c.AssignedTo }),
	patch.Nullable("assignedToName", func(c *model.CalendarAction) **string { return &c.AssignedToName }),
	patch.Value("isCompleted", func(c *model.CalendarAction) *bool { return &c.IsCompleted }).AsStatus(),
	patch.Nullable("completedDate", func(c *model.CalendarAction) **model.Date { return &c.CompletedDate }),
	patch.Nullable("notes", func(c *model.CalendarAction) **string { return &c.Notes }),
)

// CalendarFilter selects one listing: pending, then a single date, then a
// complete date range.
type CalendarFilter struct {
	Pending   bool
	Date      model.Date
	StartDate model.Date
	EndDate   model.Date
}

type CalendarService struct {
	db    *gorm.DB
	audit *audit.Writer
	now   func() time.Time
}

func NewCalendarService(db *gorm.DB, w *audit.Writer) *CalendarService {
	return &CalendarService{db: db, audit: w, now: time.Now}
}

// WithClock replaces the source of today's date.
func (s *CalendarService) WithClock(now func() time.Time) *CalendarService {
	s.now = now
	return s
}

func (s *CalendarService) List(ctx context.Context, f CalendarFilter) ([]model.CalendarAction, error) {
	q := s.db.WithContext(ctx)
	switch {
	case f.Pending:
		q = q.Where("is_completed = ?", false).Order("date")
	case f.Date != "":
		q = q.Where("date = ?", f.Date).Order("title")
	case f.StartDate != "" && f.EndDate != "":
		q = q.Where("date >= ? AND date <= ?", f.StartDate, f.EndDate).Order("date")
	default:
		q = q.Order("date DESC")
	}
	actions := []model.CalendarAction{}
	if err := q.Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("list calendar actions: %w", err)
	}
	return actions, nil
}

func (s *CalendarService) Get(ctx context.Context, id string) (*model.CalendarAction, error) {
	a, err := find[model.CalendarAction](ctx, s.db, id)
	return a, wrap("get", model.EntityCalendarAction, err)
}

func (s *CalendarService) Create(ctx context.Context, p patch.Patch, actor string) (*model.CalendarAction, error) {
	base := model.CalendarAction{SourceType: model.SourceManual, CreatedBy: actor}
	res, err := build(calendarFields, base, p)
	if err != nil {
		return nil, err
	}
	a := res.Next
	a.CompletedDate = s.completedDate(a.IsCompleted, a.CompletedDate)
	if err := insert(ctx, s.db, &a); err != nil {
		return nil, wrap("create", model.EntityCalendarAction, err)
	}
	s.audit.Created(ctx, model.EntityCalendarAction, a.ID, actor, a)
	return &a, nil
}

// Update keeps completedDate in step with isCompleted whichever of the two
// the patch touches.
func (s *CalendarService) Update(ctx context.Context, id string, p patch.Patch, actor string) (*model.CalendarAction, error) {
	a, changes, err := update(ctx, s.db, calendarFields, id, p, func(_ *gorm.DB, res *patch.Result[model.CalendarAction]) error {
		if !res.Has("is_completed") && !res.Has("completed_date") {
			return nil
		}
		res.Next.CompletedDate = s.completedDate(res.Next.IsCompleted, res.Next.CompletedDate)
		if res.Next.CompletedDate == nil {
			res.Set("completed_date", nil)
		} else {
			res.Set("completed_date", *res.Next.CompletedDate)
		}
		return nil
	})
	if err != nil {
		return nil, wrap("update", model.EntityCalendarAction, err)
	}
	s.audit.Updated(ctx, model.EntityCalendarAction, id, actor, changes)
	return a, nil
}

// Toggle flips isCompleted. Completing stamps today's date; reopening clears it.
func (s *CalendarService) Toggle(ctx context.Context, id, actor string) (*model.CalendarAction, error) {
	var (
		out     *model.CalendarAction
		changes []patch.Change
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := find[model.CalendarAction](ctx, tx, id)
		if err != nil {
			return err
		}
		done := !cur.IsCompleted
		var completed *model.Date
		if done {
			today := model.DateOf(s.now())
			completed = &today
		}
		err = tx.Model(&model.CalendarAction{}).Where("id = ?", id).Updates(map[string]any{
			"is_completed":   done,
			"completed_date": completed,
			"updated_at":     time.Now(),
		}).Error
		if err != nil {
			return err
		}
		changes = []patch.Change{{Field: "isCompleted", Old: cur.IsCompleted, New: done, Status: true}}
		out, err = find[model.CalendarAction](ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, wrap("toggle", model.EntityCalendarAction, err)
	}
	s.audit.Updated(ctx, model.EntityCalendarAction, id, actor, changes)
	return out, nil
}

func (s *CalendarService) Delete(ctx context.Context, id, actor string) error {
	prior, err := remove[model.CalendarAction](ctx, s.db, id, nil)
	if err != nil {
		return wrap("delete", model.EntityCalendarAction, err)
	}
	s.audit.Deleted(ctx, model.EntityCalendarAction, id, actor, prior)
	return nil
}

// completedDate is nil for open actions; a completed action keeps its date
// or gets today's.
func (s *CalendarService) completedDate(done bool, cur *model.Date) *model.Date {
	if !done {
		return nil
	}
	if cur != nil {
		return cur
	}
	today := model.DateOf(s.now())
	return &today
}
