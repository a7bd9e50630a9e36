package handler

import (
	"net/http"

	"teamops/internal/middleware"
	"teamops/internal/model"
	"teamops/internal/service"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct{ svc *service.CalendarService }

func NewCalendarHandler(svc *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{svc: svc}
}

// List honours ?pending=true, else ?date, else ?startDate&endDate.
func (h *CalendarHandler) List(c *gin.Context) {
	f := service.CalendarFilter{Pending: c.Query("pending") == "true"}
	var ok bool
	if f.Date, ok = dateQuery(c, "date"); !ok {
		return
	}
	if f.StartDate, ok = dateQuery(c, "startDate"); !ok {
		return
	}
	if f.EndDate, ok = dateQuery(c, "endDate"); !ok {
		return
	}
	actions, err := h.svc.List(c.Request.Context(), f)
	list(c, model.EntityCalendarAction, actions, err)
}

func (h *CalendarHandler) Toggle(c *gin.Context) {
	a, err := h.svc.Toggle(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		fail(c, "update", model.EntityCalendarAction, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *CalendarHandler) Get(c *gin.Context)    { getOne(c, model.EntityCalendarAction, h.svc.Get) }
func (h *CalendarHandler) Create(c *gin.Context) { createOne(c, model.EntityCalendarAction, h.svc.Create) }
func (h *CalendarHandler) Update(c *gin.Context) { updateOne(c, model.EntityCalendarAction, h.svc.Update) }
func (h *CalendarHandler) Delete(c *gin.Context) { deleteOne(c, model.EntityCalendarAction, h.svc.Delete) }
