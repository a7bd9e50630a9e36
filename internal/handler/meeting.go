package handler

import (
	"net/http"

	"teamops/internal/model"
	"teamops/internal/service"

	"github.com/gin-gonic/gin"
)

type MeetingHandler struct{ svc *service.MeetingService }

func NewMeetingHandler(svc *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{svc: svc}
}

// List honours ?startDate&endDate, else ?type.
func (h *MeetingHandler) List(c *gin.Context) {
	start, ok := dateQuery(c, "startDate")
	if !ok {
		return
	}
	end, ok := dateQuery(c, "endDate")
	if !ok {
		return
	}
	meetings, err := h.svc.List(c.Request.Context(), service.MeetingFilter{
		StartDate: start,
		EndDate:   end,
		Type:      model.MeetingType(c.Query("type")),
	})
	list(c, model.EntityMeeting, meetings, err)
}

func (h *MeetingHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Templates())
}

func (h *MeetingHandler) Get(c *gin.Context)    { getOne(c, model.EntityMeeting, h.svc.Get) }
func (h *MeetingHandler) Create(c *gin.Context) { createOne(c, model.EntityMeeting, h.svc.Create) }
func (h *MeetingHandler) Update(c *gin.Context) { updateOne(c, model.EntityMeeting, h.svc.Update) }
func (h *MeetingHandler) Delete(c *gin.Context) { deleteOne(c, model.EntityMeeting, h.svc.Delete) }
