package service

import (
	"context"
	"fmt"

	"teamops/internal/audit"
	"teamops/internal/model"
	"teamops/internal/patch"

	"gorm.io/gorm"
)

var actionItemFields = patch.NewSchema(
	patch.Value("title", func(a *model.ActionItem) *string { return &a.Title }),
	patch.Nullable("description", func(a *model.ActionItem) **string { return &a.Description }),
	patch.Value("type", func(a *model.ActionItem) *string { return &a.Type }),
	patch.Nullable("relatedId", func(a *model.ActionItem) **string { return &a.RelatedID }),
	patch.Nullable("channel", func(a *model.ActionItem) **model.Channel { return &a.Channel }),
	patch.Nullable("assignedTo", func(a *model.ActionItem) **string { return &a.AssignedTo }),
	patch.Nullable("assignedToName", func(a *model.ActionItem) **string { return &a.AssignedToName }),
	patch.Value("status", func(a *model.ActionItem) *model.ActionStatus { return &a.Status }).AsStatus(),
	patch.Value("priority", func(a *model.ActionItem) *model.Priority { return &a.Priority }),
	patch.Nullable("dueDate", func(a *model.ActionItem) **model.Date { return &a.DueDate }),
	patch.Nullable("completedDate", func(a *model.ActionItem) **model.Date { return &a.CompletedDate }),
	patch.Nullable("notes", func(a *model.ActionItem) **string { return &a.Notes }),
)

// ActionFilter selects one listing: type, then status, then assignee.
type ActionFilter struct {
	Type       string
	Status     model.ActionStatus
	AssignedTo string
}

type ActionItemService struct {
	db    *gorm.DB
	audit *audit.Writer
}

func NewActionItemService(db *gorm.DB, w *audit.Writer) *ActionItemService {
	return &ActionItemService{db: db, audit: w}
}

func (s *ActionItemService) List(ctx context.Context, f ActionFilter) ([]model.ActionItem, error) {
	q := s.db.WithContext(ctx)
	switch {
	case f.Type != "":
		q = q.Where("type = ?", f.Type)
	case f.Status != "":
		q = q.Where("status = ?", f.Status)
	case f.AssignedTo != "":
		q = q.Where("assigned_to = ?", f.AssignedTo)
	}
	items := []model.ActionItem{}
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list action items: %w", err)
	}
	return items, nil
}

func (s *ActionItemService) Get(ctx context.Context, id string) (*model.ActionItem, error) {
	a, err := find[model.ActionItem](ctx, s.db, id)
	return a, wrap("get", model.EntityActionItem, err)
}

func (s *ActionItemService) Create(ctx context.Context, p patch.Patch, actor string) (*model.ActionItem, error) {
	base := model.ActionItem{Status: model.ActionPlanned, Priority: model.PriorityMedium, CreatedBy: actor}
	res, err := build(actionItemFields, base, p)
	if err != nil {
		return nil, err
	}
	a := res.Next
	if err := insert(ctx, s.db, &a); err != nil {
		return nil, wrap("create", model.EntityActionItem, err)
	}
	s.audit.Created(ctx, model.EntityActionItem, a.ID, actor, a)
	return &a, nil
}

func (s *ActionItemService) Update(ctx context.Context, id string, p patch.Patch, actor string) (*model.ActionItem, error) {
	a, changes, err := update(ctx, s.db, actionItemFields, id, p, nil)
	if err != nil {
		return nil, wrap("update", model.EntityActionItem, err)
	}
	s.audit.Updated(ctx, model.EntityActionItem, id, actor, changes)
	return a, nil
}

func (s *ActionItemService) Delete(ctx context.Context, id, actor string) error {
	prior, err := remove[model.ActionItem](ctx, s.db, id, nil)
	if err != nil {
		return wrap("delete", model.EntityActionItem, err)
	}
	s.audit.Deleted(ctx, model.EntityActionItem, id, actor, prior)
	return nil
}
