package handler

import (
	"net/http"

	"teamops/internal/audit"
	"teamops/internal/model"

	"github.com/gin-gonic/gin"
)

var historyEntities = map[string]bool{
	model.EntityTeamMember:     true,
	model.EntityMeeting:        true,
	model.EntityFocusSong:      true,
	model.EntityTask:           true,
	model.EntityMeetingMinutes: true,
	model.EntityDailyMetrics:   true,
	model.EntityActionItem:     true,
	model.EntityCalendarAction: true,
}

type HistoryHandler struct{ audit *audit.Writer }

func NewHistoryHandler(w *audit.Writer) *HistoryHandler { return &HistoryHandler{audit: w} }

func (h *HistoryHandler) Get(c *gin.Context) {
	entity := c.Param("entityType")
	if !historyEntities[entity] {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown entity type " + entity})
		return
	}
	rows, err := h.audit.History(c.Request.Context(), entity, c.Param("entityId"))
	list(c, "history", rows, err)
}
