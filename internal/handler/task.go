package handler

import (
	"teamops/internal/model"
	"teamops/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct{ svc *service.TaskService }

func NewTaskHandler(svc *service.TaskService) *TaskHandler { return &TaskHandler{svc: svc} }

func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.svc.List(c.Request.Context(), service.TaskFilter{
		AssignedTo:  c.Query("assignee"),
		MeetingID:   c.Query("meeting"),
		FocusSongID: c.Query("focusSong"),
		Status:      model.TaskStatus(c.Query("status")),
	})
	list(c, model.EntityTask, tasks, err)
}

func (h *TaskHandler) Get(c *gin.Context)    { getOne(c, model.EntityTask, h.svc.Get) }
func (h *TaskHandler) Create(c *gin.Context) { createOne(c, model.EntityTask, h.svc.Create) }
func (h *TaskHandler) Update(c *gin.Context) { updateOne(c, model.EntityTask, h.svc.Update) }
func (h *TaskHandler) Delete(c *gin.Context) { deleteOne(c, model.EntityTask, h.svc.Delete) }
