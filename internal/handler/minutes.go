package handler

import (
	"net/http"

	"teamops/internal/model"
	"teamops/internal/service"

	"github.com/gin-gonic/gin"
)

type MinutesHandler struct{ svc *service.MinutesService }

func NewMinutesHandler(svc *service.MinutesService) *MinutesHandler {
	return &MinutesHandler{svc: svc}
}

func (h *MinutesHandler) ByMeeting(c *gin.Context) {
	m, err := h.svc.ByMeeting(c.Request.Context(), c.Param("meetingId"))
	if err != nil {
		fail(c, "fetch", model.EntityMeetingMinutes, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MinutesHandler) Create(c *gin.Context) {
	createOne(c, model.EntityMeetingMinutes, h.svc.Create)
}

func (h *MinutesHandler) Update(c *gin.Context) {
	updateOne(c, model.EntityMeetingMinutes, h.svc.Update)
}

func (h *MinutesHandler) Delete(c *gin.Context) {
	deleteOne(c, model.EntityMeetingMinutes, h.svc.Delete)
}
