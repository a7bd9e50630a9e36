package service

import (
	"context"
	"fmt"

	"teamops/internal/audit"
	"teamops/internal/model"
	"teamops/internal/patch"

	"gorm.io/gorm"
)

var teamMemberFields = patch.NewSchema(
	patch.Value("name", func(m *model.TeamMember) *string { return &m.Name }),
	patch.Value("department", func(m *model.TeamMember) *model.Department { return &m.Department }),
	patch.Value("jobTitle", func(m *model.TeamMember) *string { return &m.JobTitle }),
	patch.Nullable("responsibilities", func(m *model.TeamMember) **string { return &m.Responsibilities }),
	patch.Nullable("email", func(m *model.TeamMember) **string { return &m.Email }),
)

type TeamService struct {
	db    *gorm.DB
	audit *audit.Writer
}

func NewTeamService(db *gorm.DB, w *audit.Writer) *TeamService {
	return &TeamService{db: db, audit: w}
}

func (s *TeamService) List(ctx context.Context) ([]model.TeamMember, error) {
	members := []model.TeamMember{}
	if err := s.db.WithContext(ctx).Order("name").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return members, nil
}

func (s *TeamService) ByDepartment(ctx context.Context, dept model.Department) ([]model.TeamMember, error) {
	switch dept {
	case model.DepartmentMarketing, model.DepartmentDigital, model.DepartmentARInternational:
	default:
		return nil, fmt.Errorf("%w: unknown department %q", ErrInvalid, dept)
	}
	members := []model.TeamMember{}
	err := s.db.WithContext(ctx).Where("department = ?", dept).Order("name").Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("list team members by department: %w", err)
	}
	return members, nil
}

func (s *TeamService) Get(ctx context.Context, id string) (*model.TeamMember, error) {
	m, err := find[model.TeamMember](ctx, s.db, id)
	return m, wrap("get", model.EntityTeamMember, err)
}

func (s *TeamService) Create(ctx context.Context, p patch.Patch, actor string) (*model.TeamMember, error) {
	res, err := build(teamMemberFields, model.TeamMember{}, p)
	if err != nil {
		return nil, err
	}
	m := res.Next
	if err := insert(ctx, s.db, &m); err != nil {
		return nil, wrap("create", model.EntityTeamMember, err)
	}
	s.audit.Created(ctx, model.EntityTeamMember, m.ID, actor, m)
	return &m, nil
}

func (s *TeamService) Update(ctx context.Context, id string, p patch.Patch, actor string) (*model.TeamMember, error) {
	m, changes, err := update(ctx, s.db, teamMemberFields, id, p, nil)
	if err != nil {
		return nil, wrap("update", model.EntityTeamMember, err)
	}
	s.audit.Updated(ctx, model.EntityTeamMember, id, actor, changes)
	return m, nil
}

// Delete leaves tasks that still name the member as their assignee.
func (s *TeamService) Delete(ctx context.Context, id, actor string) error {
	prior, err := remove[model.TeamMember](ctx, s.db, id, nil)
	if err != nil {
		return wrap("delete", model.EntityTeamMember, err)
	}
	s.audit.Deleted(ctx, model.EntityTeamMember, id, actor, prior)
	return nil
}

// Emails maps member ids to their addresses. Members without one are left out.
func (s *TeamService) Emails(ctx context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	if len(ids) == 0 {
		return out, nil
	}
	var members []model.TeamMember
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&members).Error; err != nil {
		return nil, fmt.Errorf("resolve member emails: %w", err)
	}
	for _, m := range members {
		if m.Email != nil && *m.Email != "" {
			out[m.ID] = *m.Email
		}
	}
	return out, nil
}
