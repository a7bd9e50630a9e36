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

var taskFields = patch.NewSchema(
	patch.Value("title", func(t *model.Task) *string { return &t.Title }),
	patch.Nullable("description", func(t *model.Task) **string { return &t.Description }),
	patch.Nullable("assignedTo", func(t *model.Task) **string { return &t.AssignedTo }),
	patch.Nullable("assignedToName", func(t *model.Task) **string { return &t.AssignedToName }),
	patch.Value("status", func(t *model.Task) *model.TaskStatus { return &t.Status }).AsStatus(),
	patch.Value("priority", func(t *model.Task) *model.Priority { return &t.Priority }),
	patch.Nullable("deadline", func(t *model.Task) **model.Date { return &t.Deadline }),
	patch.Nullable("meetingId", func(t *model.Task) **string { return &t.MeetingID }),
	patch.Nullable("focusSongId", func(t *model.Task) **string { return &t.FocusSongID }),
	patch.Nullable("channel", func(t *model.Task) **model.Channel { return &t.Channel }),
)

// TaskFilter selects one listing. The first non-empty field wins, in the
// order assignee, meeting, focus song, status.
type TaskFilter struct {
	AssignedTo  string
	MeetingID   string
	FocusSongID string
	Status      model.TaskStatus
}

type TaskService struct {
	db    *gorm.DB
	audit *audit.Writer
}

func NewTaskService(db *gorm.DB, w *audit.Writer) *TaskService {
	return &TaskService{db: db, audit: w}
}

func (s *TaskService) List(ctx context.Context, f TaskFilter) ([]model.Task, error) {
	q := s.db.WithContext(ctx)
	switch {
	case f.AssignedTo != "":
		q = q.Where("assigned_to = ?", f.AssignedTo)
	case f.MeetingID != "":
		q = q.Where("meeting_id = ?", f.MeetingID)
	case f.FocusSongID != "":
		q = q.Where("focus_song_id = ?", f.FocusSongID)
	case f.Status != "":
		q = q.Where("status = ?", f.Status)
	}
	tasks := []model.Task{}
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	t, err := find[model.Task](ctx, s.db, id)
	return t, wrap("get", model.EntityTask, err)
}

func (s *TaskService) Create(ctx context.Context, p patch.Patch, actor string) (*model.Task, error) {
	base := model.Task{Status: model.TaskTodo, Priority: model.PriorityMedium, CreatedBy: actor}
	res, err := build(taskFields, base, p)
	if err != nil {
		return nil, err
	}
	t := res.Next
	if t.AssignedTo != nil && t.AssignedToName == nil {
		name, err := assigneeName(ctx, s.db, *t.AssignedTo)
		if err != nil {
			return nil, wrap("create", model.EntityTask, err)
		}
		t.AssignedToName = name
	}
	if err := insert(ctx, s.db, &t); err != nil {
		return nil, wrap("create", model.EntityTask, err)
	}
	s.audit.Created(ctx, model.EntityTask, t.ID, actor, t)
	return &t, nil
}

// Update copies the assignee's current name when assignedTo changes without
// an explicit assignedToName. The copy is not refreshed later.
func (s *TaskService) Update(ctx context.Context, id string, p patch.Patch, actor string) (*model.Task, error) {
	t, changes, err := update(ctx, s.db, taskFields, id, p, func(tx *gorm.DB, res *patch.Result[model.Task]) error {
		if !res.Has("assigned_to") || res.Has("assigned_to_name") {
			return nil
		}
		var name *string
		if res.Next.AssignedTo != nil {
			n, err := assigneeName(ctx, tx, *res.Next.AssignedTo)
			if err != nil {
				return err
			}
			name = n
		}
		res.Next.AssignedToName = name
		if name == nil {
			res.Set("assigned_to_name", nil)
		} else {
			res.Set("assigned_to_name", *name)
		}
		return nil
	})
	if err != nil {
		return nil, wrap("update", model.EntityTask, err)
	}
	s.audit.Updated(ctx, model.EntityTask, id, actor, changes)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id, actor string) error {
	prior, err := remove[model.Task](ctx, s.db, id, nil)
	if err != nil {
		return wrap("delete", model.EntityTask, err)
	}
	s.audit.Deleted(ctx, model.EntityTask, id, actor, prior)
	return nil
}

// assigneeName returns the member's name, or nil when the id names no member.
func assigneeName(ctx context.Context, db *gorm.DB, memberID string) (*string, error) {
	m, err := find[model.TeamMember](ctx, db, memberID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up assignee: %w", err)
	}
	return &m.Name, nil
}
