package service

import (
	"context"
	"testing"

	"teamops/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionItemDefaultsAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.items.Create(ctx, body(t, map[string]any{
		"title": "Pitch playlist", "type": "focus_song", "assignedTo": "m-1", "channel": "spotify",
	}), actor)
	require.NoError(t, err)
	assert.Equal(t, model.ActionPlanned, a.Status)
	assert.Equal(t, model.PriorityMedium, a.Priority)
	assert.Equal(t, actor, a.CreatedBy)

	_, err = f.items.Create(ctx, body(t, map[string]any{
		"title": "Recap deck", "type": "meeting", "status": "completed", "priority": "high",
	}), actor)
	require.NoError(t, err)

	byType, err := f.items.List(ctx, ActionFilter{Type: "meeting"})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "Recap deck", byType[0].Title)

	byStatus, err := f.items.List(ctx, ActionFilter{Status: model.ActionPlanned})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, a.ID, byStatus[0].ID)

	byAssignee, err := f.items.List(ctx, ActionFilter{AssignedTo: "m-1"})
	require.NoError(t, err)
	assert.Len(t, byAssignee, 1)

	all, err := f.items.List(ctx, ActionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestActionItemValidationAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.items.Create(ctx, body(t, map[string]any{"title": "x", "type": "email"}), actor)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = f.items.Create(ctx, body(t, map[string]any{"title": "x", "type": "task", "channel": "fax"}), actor)
	assert.ErrorIs(t, err, ErrInvalid)

	a, err := f.items.Create(ctx, body(t, map[string]any{"title": "x", "type": "task"}), actor)
	require.NoError(t, err)
	_, err = f.items.Update(ctx, a.ID, body(t, map[string]any{"status": "postponed", "dueDate": "2024-07-01"}), actor)
	require.NoError(t, err)

	rows := history(t, f.audit, model.EntityActionItem, a.ID)
	assert.Equal(t, 1, countActions(rows, model.HistoryStatusChanged))
	assert.Equal(t, 1, countActions(rows, model.HistoryUpdated))

	require.NoError(t, f.items.Delete(ctx, a.ID, actor))
	_, err = f.items.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
