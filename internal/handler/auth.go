package handler

import (
	"net/http"

	"teamops/internal/middleware"
	"teamops/internal/model"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves the stand-in identity; there is no login.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler { return &AuthHandler{} }

func (h *AuthHandler) User(c *gin.Context) {
	c.JSON(http.StatusOK, model.User{
		ID:        middleware.ActorID(c),
		Email:     "test@example.com",
		FirstName: "Test",
		LastName:  "User",
	})
}
