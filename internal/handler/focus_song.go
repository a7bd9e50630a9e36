package handler

import (
	"teamops/internal/model"
	"teamops/internal/service"

	"github.com/gin-gonic/gin"
)

type FocusSongHandler struct{ svc *service.FocusSongService }

func NewFocusSongHandler(svc *service.FocusSongService) *FocusSongHandler {
	return &FocusSongHandler{svc: svc}
}

func (h *FocusSongHandler) List(c *gin.Context) {
	songs, err := h.svc.List(c.Request.Context(), service.SongFilter{
		Active:      c.Query("active") == "true",
		BackCatalog: c.Query("backCatalog") == "true",
	})
	list(c, model.EntityFocusSong, songs, err)
}

func (h *FocusSongHandler) ByCategory(c *gin.Context) {
	songs, err := h.svc.ByCategory(c.Request.Context(), model.TrackCategory(c.Param("category")))
	list(c, model.EntityFocusSong, songs, err)
}

func (h *FocusSongHandler) Get(c *gin.Context)    { getOne(c, model.EntityFocusSong, h.svc.Get) }
func (h *FocusSongHandler) Create(c *gin.Context) { createOne(c, model.EntityFocusSong, h.svc.Create) }
func (h *FocusSongHandler) Update(c *gin.Context) { updateOne(c, model.EntityFocusSong, h.svc.Update) }
func (h *FocusSongHandler) Delete(c *gin.Context) { deleteOne(c, model.EntityFocusSong, h.svc.Delete) }
