package handler

import (
	"teamops/internal/model"
	"teamops/internal/service"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct{ svc *service.TeamService }

func NewTeamHandler(svc *service.TeamService) *TeamHandler { return &TeamHandler{svc: svc} }

func (h *TeamHandler) List(c *gin.Context) {
	members, err := h.svc.List(c.Request.Context())
	list(c, model.EntityTeamMember, members, err)
}

func (h *TeamHandler) ByDepartment(c *gin.Context) {
	members, err := h.svc.ByDepartment(c.Request.Context(), model.Department(c.Param("department")))
	list(c, model.EntityTeamMember, members, err)
}

func (h *TeamHandler) Get(c *gin.Context)    { getOne(c, model.EntityTeamMember, h.svc.Get) }
func (h *TeamHandler) Create(c *gin.Context) { createOne(c, model.EntityTeamMember, h.svc.Create) }
func (h *TeamHandler) Update(c *gin.Context) { updateOne(c, model.EntityTeamMember, h.svc.Update) }
func (h *TeamHandler) Delete(c *gin.Context) { deleteOne(c, model.EntityTeamMember, h.svc.Delete) }
