package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"teamops/internal/audit"
	"teamops/internal/config"
	"teamops/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = filepath.Join(t.TempDir(), "teamops.db")
	return cfg
}

func newTestEngine(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	db, err := cfg.OpenGormDB()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewEngine(cfg, NewServices(db, audit.NewWriter(db), nil))
}

// doJSON sends body as JSON. A string body is sent as-is.
func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type message struct {
	Message string `json:"message"`
	Errors  []struct {
		Field string `json:"field"`
		Rule  string `json:"rule"`
	} `json:"errors"`
}

func TestTeamMemberLifecycle(t *testing.T) {
	r := newTestEngine(t, newTestConfig(t))

	rec := doJSON(t, r, http.MethodPost, "/api/team-members", map[string]any{
		"name": "Ana", "department": "digital", "jobTitle": "Producer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.TeamMember](t, rec)
	require.NotEmpty(t, created.ID)

	rec = doJSON(t, r, http.MethodPatch, "/api/team-members/"+created.ID, map[string]any{"jobTitle": "Head of Digital"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Head of Digital", decode[model.TeamMember](t, rec).JobTitle)

	rec = doJSON(t, r, http.MethodGet, "/api/team-members/department/digital", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.TeamMember](t, rec), 1)

	rec = doJSON(t, r, http.MethodGet, "/api/history/team_member/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decode[[]model.HistoryLog](t, rec)
	require.Len(t, logs, 2)
	assert.Equal(t, model.HistoryUpdated, logs[0].Action)
	assert.Equal(t, config.Default().Auth.DefaultActor, logs[0].UserID)

	rec = doJSON(t, r, http.MethodDelete, "/api/team-members/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/team-members/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Team member not found", decode[message](t, rec).Message)

	rec = doJSON(t, r, http.MethodDelete, "/api/team-members/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBadInput(t *testing.T) {
	r := newTestEngine(t, newTestConfig(t))

	rec := doJSON(t, r, http.MethodPost, "/api/team-members", map[string]any{"name": "Ana"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	msg := decode[message](t, rec)
	assert.Equal(t, "Invalid team member data", msg.Message)
	var fields []string
	for _, e := range msg.Errors {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"department", "jobTitle"}, fields)

	rec = doJSON(t, r, http.MethodPost, "/api/team-members", map[string]any{
		"name": "Ana", "department": "digital", "jobTitle": "x", "nickname": "A",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `Invalid team member data: unknown field "nickname"`, decode[message](t, rec).Message)

	rec = doJSON(t, r, http.MethodPost, "/api/tasks", `{"title":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode[message](t, rec).Message)

	rec = doJSON(t, r, http.MethodGet, "/api/team-members/department/sales", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/meetings?startDate=yesterday&endDate=2024-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/history/playlist/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPatch, "/api/tasks/missing", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", decode[message](t, rec).Message)
}

func TestMeetingsAndMinutes(t *testing.T) {
	r := newTestEngine(t, newTestConfig(t))

	rec := doJSON(t, r, http.MethodGet, "/api/meetings/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.MeetingTemplate](t, rec), 4)

	rec = doJSON(t, r, http.MethodPost, "/api/meetings", map[string]any{
		"type": "weekly_recap", "date": "2024-05-03", "time": "16:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	meeting := decode[model.Meeting](t, rec)
	assert.Equal(t, "Weekly Recap Meeting", meeting.Title)
	assert.Equal(t, "scheduled", meeting.Status)

	rec = doJSON(t, r, http.MethodGet, "/api/meetings?startDate=2024-05-01&endDate=2024-05-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Meeting](t, rec), 1)

	minutes := map[string]any{"meetingId": meeting.ID, "decisions": []string{"ship it"}}
	rec = doJSON(t, r, http.MethodPost, "/api/meeting-minutes", minutes)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, r, http.MethodPost, "/api/meeting-minutes", minutes)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Meeting minutes already exists", decode[message](t, rec).Message)

	rec = doJSON(t, r, http.MethodGet, "/api/meeting-minutes/"+meeting.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"ship it"}, []string(decode[model.MeetingMinutes](t, rec).Decisions))

	rec = doJSON(t, r, http.MethodDelete, "/api/meetings/"+meeting.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, r, http.MethodGet, "/api/meeting-minutes/"+meeting.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalendarToggleRoute(t *testing.T) {
	r := newTestEngine(t, newTestConfig(t))

	rec := doJSON(t, r, http.MethodPost, "/api/calendar-actions", map[string]any{"title": "Pitch radio", "date": "2024-05-03"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	action := decode[model.CalendarAction](t, rec)

	rec = doJSON(t, r, http.MethodPost, "/api/calendar-actions/"+action.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	toggled := decode[model.CalendarAction](t, rec)
	assert.True(t, toggled.IsCompleted)
	assert.NotNil(t, toggled.CompletedDate)

	rec = doJSON(t, r, http.MethodGet, "/api/calendar-actions?pending=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]model.CalendarAction](t, rec))

	rec = doJSON(t, r, http.MethodPost, "/api/calendar-actions/missing/toggle", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsSummaryAndExport(t *testing.T) {
	r := newTestEngine(t, newTestConfig(t))

	rec := doJSON(t, r, http.MethodPost, "/api/focus-songs", map[string]any{"title": "Big Hit", "artist": "Band"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	song := decode[model.FocusSong](t, rec)
	assert.Equal(t, model.SongActive, song.Status)

	rec = doJSON(t, r, http.MethodGet, "/api/daily-metrics/"+song.ID+"/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	for _, p := range []map[string]any{
		{"focusSongId": song.ID, "date": "2024-05-01", "channel": "youtube", "youtubeViews": "100"},
		{"focusSongId": song.ID, "date": "2024-05-02", "channel": "youtube", "youtubeViews": "300"},
	} {
		rec = doJSON(t, r, http.MethodPost, "/api/daily-metrics", p)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodGet, "/api/daily-metrics/"+song.ID+"?date=2024-05-02", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.DailyMetrics](t, rec), 1)

	rec = doJSON(t, r, http.MethodGet, "/api/daily-metrics/"+song.ID+"/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		YouTube struct {
			Views struct {
				Growth float64 `json:"growth"`
			} `json:"views"`
		} `json:"youtube"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.InDelta(t, 200, summary.YouTube.Views.Growth, 0.001)

	rec = doJSON(t, r, http.MethodGet, "/api/daily-metrics/"+song.ID+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="Big-Hit-metrics.xlsx"`)
	assert.NotZero(t, rec.Body.Len())

	rec = doJSON(t, r, http.MethodGet, "/api/daily-metrics/missing/summary", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, r, http.MethodDelete, "/api/focus-songs/"+song.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, r, http.MethodGet, "/api/daily-metrics/"+song.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestAmbientRoutes(t *testing.T) {
	r := newTestEngine(t, newTestConfig(t))

	rec := doJSON(t, r, http.MethodGet, "/api/auth/user", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode[model.User](t, rec)
	assert.Equal(t, config.Default().Auth.DefaultActor, user.ID)
	assert.Equal(t, "test@example.com", user.Email)

	rec = doJSON(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "teamops_http_requests_total")
}

func TestTokenActor(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Auth.JWTSecret = "s3cret"
	r := newTestEngine(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStaticFallback(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Server.StaticDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Server.StaticDir, "index.html"), []byte("<h1>ops</h1>"), 0o644))
	r := newTestEngine(t, cfg)

	rec := doJSON(t, r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ops")

	rec = doJSON(t, r, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decode[message](t, rec).Message)
}
