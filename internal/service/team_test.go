package service

import (
	"context"
	"testing"

	"teamops/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamCreateThenGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.team.Create(ctx, body(t, map[string]any{
		"name": "Ana", "department": "digital", "jobTitle": "Digital Lead",
		"responsibilities": "YouTube", "email": "ana@example.com",
	}), actor)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := f.team.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Department, got.Department)
	assert.Equal(t, created.Email, got.Email)
	assert.Equal(t, created.Responsibilities, got.Responsibilities)

	rows := history(t, f.audit, model.EntityTeamMember, created.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, model.HistoryCreated, rows[0].Action)
	assert.Equal(t, actor, rows[0].UserID)
}

func TestTeamValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.team.Create(ctx, body(t, map[string]any{
		"name": "Ana", "department": "sales", "jobTitle": "x", "email": "not-an-email",
	}), actor)
	require.ErrorIs(t, err, ErrInvalid)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	var fields []string
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	assert.ElementsMatch(t, []string{"department", "email"}, fields)

	_, err = f.team.Create(ctx, body(t, map[string]any{"name": "Ana", "nickname": "A"}), actor)
	assert.ErrorIs(t, err, ErrInvalid)

	members, err := f.team.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, members, "rejected payloads must not be stored")
}

func TestTeamByDepartment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.member(t, "Zed", model.DepartmentMarketing)
	f.member(t, "Amy", model.DepartmentMarketing)
	f.member(t, "Bob", model.DepartmentDigital)

	got, err := f.team.ByDepartment(ctx, model.DepartmentMarketing)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Amy", got[0].Name)
	assert.Equal(t, "Zed", got[1].Name)

	_, err = f.team.ByDepartment(ctx, "finance")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestUnknownIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.team.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.team.Update(ctx, "missing", body(t, map[string]any{"name": "x"}), actor)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.team.Delete(ctx, "missing", actor), ErrNotFound)
	assert.ErrorIs(t, f.tasks.Delete(ctx, "missing", actor), ErrNotFound)
	_, err = f.calendar.Toggle(ctx, "missing", actor)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, history(t, f.audit, model.EntityTeamMember, "missing"))
}

func TestTeamDeleteLogsPriorRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.member(t, "Ana", model.DepartmentDigital)

	require.NoError(t, f.team.Delete(ctx, m.ID, actor))
	_, err := f.team.Get(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	rows := history(t, f.audit, model.EntityTeamMember, m.ID)
	require.Equal(t, 1, countActions(rows, model.HistoryDeleted))
	for _, r := range rows {
		if r.Action == model.HistoryDeleted {
			require.NotNil(t, r.OldValue)
			assert.Contains(t, *r.OldValue, `"name":"Ana"`)
			assert.Nil(t, r.NewValue)
		}
	}
}

func TestEmails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	withMail, err := f.team.Create(ctx, body(t, map[string]any{
		"name": "Ana", "department": "digital", "jobTitle": "x", "email": "ana@example.com",
	}), actor)
	require.NoError(t, err)
	noMail := f.member(t, "Bob", model.DepartmentDigital)

	got, err := f.team.Emails(ctx, []string{withMail.ID, noMail.ID, "ghost"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{withMail.ID: "ana@example.com"}, got)
}
