package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"regexp"

	"teamops/internal/model"
	"teamops/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DailyMetricsHandler struct {
	svc   *service.DailyMetricsService
	songs *service.FocusSongService
}

func NewDailyMetricsHandler(svc *service.DailyMetricsService, songs *service.FocusSongService) *DailyMetricsHandler {
	return &DailyMetricsHandler{svc: svc, songs: songs}
}

// ForSong lists a song's snapshots, newest first; ?date narrows to one day.
func (h *DailyMetricsHandler) ForSong(c *gin.Context) {
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}
	rows, err := h.svc.ForSong(c.Request.Context(), c.Param("focusSongId"), date)
	list(c, model.EntityDailyMetrics, rows, err)
}

func (h *DailyMetricsHandler) Summary(c *gin.Context) {
	s, _, err := h.svc.Summary(c.Request.Context(), c.Param("focusSongId"))
	if err != nil {
		fail(c, "summarize", model.EntityDailyMetrics, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *DailyMetricsHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	song, err := h.songs.Get(ctx, c.Param("focusSongId"))
	if err != nil {
		fail(c, "export", model.EntityFocusSong, err)
		return
	}
	rows, err := h.svc.ForSong(ctx, song.ID, "")
	if err != nil {
		fail(c, "export", model.EntityDailyMetrics, err)
		return
	}
	var buf bytes.Buffer
	if err := service.WriteMetricsWorkbook(&buf, song, rows); err != nil {
		fail(c, "export", model.EntityDailyMetrics, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-metrics.xlsx"`, slug(song.Title)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *DailyMetricsHandler) Create(c *gin.Context) {
	createOne(c, model.EntityDailyMetrics, h.svc.Create)
}

func (h *DailyMetricsHandler) Update(c *gin.Context) {
	updateOne(c, model.EntityDailyMetrics, h.svc.Update)
}

func (h *DailyMetricsHandler) Delete(c *gin.Context) {
	deleteOne(c, model.EntityDailyMetrics, h.svc.Delete)
}

var nonSlug = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func slug(s string) string {
	out := nonSlug.ReplaceAllString(s, "-")
	if out == "" || out == "-" {
		return "song"
	}
	return out
}
