package handler

import (
	"net/http"
	"slices"
	"strings"

	"teamops/internal/audit"
	"teamops/internal/config"
	"teamops/internal/middleware"
	"teamops/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Services is everything the API routes need.
type Services struct {
	DB          *gorm.DB
	Audit       *audit.Writer
	Team        *service.TeamService
	Meetings    *service.MeetingService
	Songs       *service.FocusSongService
	Tasks       *service.TaskService
	Minutes     *service.MinutesService
	Metrics     *service.DailyMetricsService
	ActionItems *service.ActionItemService
	Calendar    *service.CalendarService
}

// NewServices wires the stores over one database and history writer.
func NewServices(db *gorm.DB, w *audit.Writer, notify service.Notifier) Services {
	return Services{
		DB:          db,
		Audit:       w,
		Team:        service.NewTeamService(db, w),
		Meetings:    service.NewMeetingService(db, w, notify),
		Songs:       service.NewFocusSongService(db, w),
		Tasks:       service.NewTaskService(db, w),
		Minutes:     service.NewMinutesService(db, w),
		Metrics:     service.NewDailyMetricsService(db, w),
		ActionItems: service.NewActionItemService(db, w),
		Calendar:    service.NewCalendarService(db, w),
	}
}

// Register mounts /healthz and the /api routes on r.
func Register(r gin.IRouter, s Services) {
	health := NewHealthHandler(s.DB)
	r.GET("/healthz", health.Check)

	api := r.Group("/api")

	authH := NewAuthHandler()
	api.GET("/auth/user", authH.User)

	team := NewTeamHandler(s.Team)
	api.GET("/team-members", team.List)
	api.GET("/team-members/department/:department", team.ByDepartment)
	api.GET("/team-members/:id", team.Get)
	api.POST("/team-members", team.Create)
	api.PATCH("/team-members/:id", team.Update)
	api.DELETE("/team-members/:id", team.Delete)

	meetings := NewMeetingHandler(s.Meetings)
	api.GET("/meetings", meetings.List)
	api.GET("/meetings/templates", meetings.Templates)
	api.GET("/meetings/:id", meetings.Get)
	api.POST("/meetings", meetings.Create)
	api.PATCH("/meetings/:id", meetings.Update)
	api.DELETE("/meetings/:id", meetings.Delete)

	songs := NewFocusSongHandler(s.Songs)
	api.GET("/focus-songs", songs.List)
	api.GET("/focus-songs/category/:category", songs.ByCategory)
	api.GET("/focus-songs/:id", songs.Get)
	api.POST("/focus-songs", songs.Create)
	api.PATCH("/focus-songs/:id", songs.Update)
	api.DELETE("/focus-songs/:id", songs.Delete)

	tasks := NewTaskHandler(s.Tasks)
	api.GET("/tasks", tasks.List)
	api.GET("/tasks/:id", tasks.Get)
	api.POST("/tasks", tasks.Create)
	api.PATCH("/tasks/:id", tasks.Update)
	api.DELETE("/tasks/:id", tasks.Delete)

	minutes := NewMinutesHandler(s.Minutes)
	api.GET("/meeting-minutes/:meetingId", minutes.ByMeeting)
	api.POST("/meeting-minutes", minutes.Create)
	api.PATCH("/meeting-minutes/:id", minutes.Update)
	api.DELETE("/meeting-minutes/:id", minutes.Delete)

	metrics := NewDailyMetricsHandler(s.Metrics, s.Songs)
	api.GET("/daily-metrics/:focusSongId", metrics.ForSong)
	api.GET("/daily-metrics/:focusSongId/summary", metrics.Summary)
	api.GET("/daily-metrics/:focusSongId/export", metrics.Export)
	api.POST("/daily-metrics", metrics.Create)
	api.PATCH("/daily-metrics/:id", metrics.Update)
	api.DELETE("/daily-metrics/:id", metrics.Delete)

	items := NewActionItemHandler(s.ActionItems)
	api.GET("/action-items", items.List)
	api.GET("/action-items/:id", items.Get)
	api.POST("/action-items", items.Create)
	api.PATCH("/action-items/:id", items.Update)
	api.DELETE("/action-items/:id", items.Delete)

	cal := NewCalendarHandler(s.Calendar)
	api.GET("/calendar-actions", cal.List)
	api.GET("/calendar-actions/:id", cal.Get)
	api.POST("/calendar-actions", cal.Create)
	api.POST("/calendar-actions/:id/toggle", cal.Toggle)
	api.PATCH("/calendar-actions/:id", cal.Update)
	api.DELETE("/calendar-actions/:id", cal.Delete)

	history := NewHistoryHandler(s.Audit)
	api.GET("/history/:entityType/:entityId", history.Get)
}

// NewEngine builds the full HTTP surface: middleware, /metrics, the API and,
// when configured, the static UI for every unmatched path.
func NewEngine(cfg *config.Config, s Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Observe())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: !slices.Contains(cfg.Server.CORSOrigins, "*"),
	}))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("", middleware.Actor(cfg.Auth.JWTSecret, cfg.Auth.DefaultActor))
	Register(api, s)

	if dir := cfg.Server.StaticDir; dir != "" {
		files := http.FileServer(http.Dir(dir))
		r.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
		})
	}
	return r
}
