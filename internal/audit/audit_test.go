package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"teamops/internal/model"
	"teamops/internal/patch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.HistoryLog{}))
	return db
}

func fixedClock() func() time.Time {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestCreatedAndDeleted(t *testing.T) {
	ctx := context.Background()
	w := NewWriter(openDB(t))
	rec := map[string]any{"id": "m1", "name": "Ana"}

	w.Created(ctx, model.EntityTeamMember, "m1", "user-1", rec)
	w.Deleted(ctx, model.EntityTeamMember, "m1", "user-1", rec)

	rows, err := w.History(ctx, model.EntityTeamMember, "m1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var created, deleted model.HistoryLog
	for _, r := range rows {
		switch r.Action {
		case model.HistoryCreated:
			created = r
		case model.HistoryDeleted:
			deleted = r
		}
	}
	assert.Nil(t, created.FieldName)
	assert.Nil(t, created.OldValue)
	require.NotNil(t, created.NewValue)
	assert.JSONEq(t, `{"id":"m1","name":"Ana"}`, *created.NewValue)

	require.NotNil(t, deleted.OldValue)
	assert.JSONEq(t, `{"id":"m1","name":"Ana"}`, *deleted.OldValue)
	assert.Nil(t, deleted.NewValue)
	assert.Equal(t, "user-1", deleted.UserID)
}

func TestUpdatedWritesOneRowPerChange(t *testing.T) {
	ctx := context.Background()
	w := NewWriter(openDB(t)).WithClock(fixedClock())

	w.Updated(ctx, model.EntityTask, "t1", "user-1", []patch.Change{
		{Field: "title", Old: "a", New: "b"},
		{Field: "status", Old: "todo", New: "done", Status: true},
		{Field: "deadline", Old: nil, New: model.Date("2024-06-02")},
	})

	rows, err := w.History(ctx, model.EntityTask, "t1")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// same timestamp: later ids sort first
	assert.Equal(t, "deadline", *rows[0].FieldName)
	assert.Nil(t, rows[0].OldValue)
	assert.Equal(t, `"2024-06-02"`, *rows[0].NewValue)

	assert.Equal(t, model.HistoryStatusChanged, rows[1].Action)
	assert.Equal(t, `"todo"`, *rows[1].OldValue)
	assert.Equal(t, `"done"`, *rows[1].NewValue)

	assert.Equal(t, model.HistoryUpdated, rows[2].Action)
	assert.Equal(t, "title", *rows[2].FieldName)
}

func TestNoActorNoRows(t *testing.T) {
	ctx := context.Background()
	w := NewWriter(openDB(t))

	w.Created(ctx, model.EntityMeeting, "x", "", map[string]any{})
	w.Updated(ctx, model.EntityMeeting, "x", "", []patch.Change{{Field: "title", Old: "a", New: "b"}})
	w.Deleted(ctx, model.EntityMeeting, "x", "", nil)
	w.Updated(ctx, model.EntityMeeting, "x", "someone", nil)

	rows, err := w.History(ctx, model.EntityMeeting, "x")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := base
	w := NewWriter(openDB(t)).WithClock(func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	})

	w.Created(ctx, model.EntityFocusSong, "s1", "u", map[string]any{"title": "A"})
	w.Updated(ctx, model.EntityFocusSong, "s1", "u", []patch.Change{{Field: "status", Old: "active", New: "paused", Status: true}})
	w.Created(ctx, model.EntityFocusSong, "other", "u", map[string]any{})

	rows, err := w.History(ctx, model.EntityFocusSong, "s1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, model.HistoryStatusChanged, rows[0].Action)
	assert.Equal(t, model.HistoryCreated, rows[1].Action)
}

func TestWriteFailureIsSwallowed(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.Migrator().DropTable(&model.HistoryLog{}))
	w := NewWriter(db)

	assert.NotPanics(t, func() {
		w.Created(context.Background(), model.EntityTask, "t", "u", map[string]any{})
	})
}

func TestWriteSurvivesCancelledContext(t *testing.T) {
	db := openDB(t)
	w := NewWriter(db)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w.Created(ctx, model.EntityTask, "t", "u", map[string]any{})

	rows, err := w.History(context.Background(), model.EntityTask, "t")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
