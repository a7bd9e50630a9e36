package handler

import (
	"teamops/internal/model"
	"teamops/internal/service"

	"github.com/gin-gonic/gin"
)

type ActionItemHandler struct{ svc *service.ActionItemService }

func NewActionItemHandler(svc *service.ActionItemService) *ActionItemHandler {
	return &ActionItemHandler{svc: svc}
}

func (h *ActionItemHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), service.ActionFilter{
		Type:       c.Query("type"),
		Status:     model.ActionStatus(c.Query("status")),
		AssignedTo: c.Query("assignedTo"),
	})
	list(c, model.EntityActionItem, items, err)
}

func (h *ActionItemHandler) Get(c *gin.Context)    { getOne(c, model.EntityActionItem, h.svc.Get) }
func (h *ActionItemHandler) Create(c *gin.Context) { createOne(c, model.EntityActionItem, h.svc.Create) }
func (h *ActionItemHandler) Update(c *gin.Context) { updateOne(c, model.EntityActionItem, h.svc.Update) }
func (h *ActionItemHandler) Delete(c *gin.Context) { deleteOne(c, model.EntityActionItem, h.svc.Delete) }
