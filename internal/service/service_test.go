package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"teamops/internal/audit"
	"teamops/internal/config"
	"teamops/internal/model"
	"teamops/internal/patch"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const actor = "user-1"

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = filepath.Join(t.TempDir(), "teamops.db")
	db, err := cfg.OpenGormDB()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// body encodes a literal map as a patch.
func body(t *testing.T, fields map[string]any) patch.Patch {
	t.Helper()
	raw, err := json.Marshal(fields)
	require.NoError(t, err)
	var p patch.Patch
	require.NoError(t, json.Unmarshal(raw, &p))
	return p
}

func history(t *testing.T, w *audit.Writer, entity, id string) []model.HistoryLog {
	t.Helper()
	rows, err := w.History(context.Background(), entity, id)
	require.NoError(t, err)
	return rows
}

func countActions(rows []model.HistoryLog, action model.HistoryAction) int {
	n := 0
	for _, r := range rows {
		if r.Action == action {
			n++
		}
	}
	return n
}

type recordingNotifier struct {
	mu       sync.Mutex
	meetings []model.Meeting
}

func (n *recordingNotifier) MeetingCreated(m model.Meeting) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.meetings = append(n.meetings, m)
}

type fixture struct {
	db       *gorm.DB
	audit    *audit.Writer
	team     *TeamService
	meetings *MeetingService
	songs    *FocusSongService
	tasks    *TaskService
	minutes  *MinutesService
	metrics  *DailyMetricsService
	items    *ActionItemService
	calendar *CalendarService
	notified *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	db := newDB(t)
	w := audit.NewWriter(db)
	n := &recordingNotifier{}
	return &fixture{
		db:       db,
		audit:    w,
		team:     NewTeamService(db, w),
		meetings: NewMeetingService(db, w, n),
		songs:    NewFocusSongService(db, w),
		tasks:    NewTaskService(db, w),
		minutes:  NewMinutesService(db, w),
		metrics:  NewDailyMetricsService(db, w),
		items:    NewActionItemService(db, w),
		calendar: NewCalendarService(db, w),
		notified: n,
	}
}

func (f *fixture) member(t *testing.T, name string, dept model.Department) *model.TeamMember {
	t.Helper()
	m, err := f.team.Create(context.Background(), body(t, map[string]any{
		"name": name, "department": dept, "jobTitle": "Specialist",
	}), actor)
	require.NoError(t, err)
	return m
}

func (f *fixture) song(t *testing.T, title string) *model.FocusSong {
	t.Helper()
	s, err := f.songs.Create(context.Background(), body(t, map[string]any{
		"title": title, "artist": "Artist",
	}), actor)
	require.NoError(t, err)
	return s
}

func (f *fixture) meeting(t *testing.T, date string) *model.Meeting {
	t.Helper()
	m, err := f.meetings.Create(context.Background(), body(t, map[string]any{
		"type": "marketing", "date": date, "time": "10:00",
	}), actor)
	require.NoError(t, err)
	return m
}
