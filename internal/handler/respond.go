package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"teamops/internal/logger"
	"teamops/internal/middleware"
	"teamops/internal/model"
	"teamops/internal/patch"
	"teamops/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func label(entity string) string { return strings.ReplaceAll(entity, "_", " ") }

// fail writes the error body for err. Unexpected errors are logged with the
// operation and entity only.
func fail(c *gin.Context, op, entity string, err error) {
	name := label(entity)
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		out := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, fieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name + " data", "errors": out})
	case errors.Is(err, service.ErrInvalid), errors.Is(err, patch.ErrField):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name + " data: " + cause(err)})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": capitalize(name) + " not found"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": capitalize(name) + " already exists"})
	default:
		logger.Error("request failed", "op", op, "entity", entity, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to " + op + " " + name})
	}
}

// cause drops the "op entity: invalid input: " prefixes from a wrapped error.
func cause(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, service.ErrInvalid.Error()+": "); i >= 0 {
		msg = msg[i+len(service.ErrInvalid.Error())+2:]
	}
	return strings.TrimPrefix(msg, patch.ErrField.Error()+": ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
}

// dateQuery reads an optional YYYY-MM-DD query parameter.
func dateQuery(c *gin.Context, key string) (model.Date, bool) {
	v := c.Query(key)
	if v == "" {
		return "", true
	}
	d, err := model.ParseDate(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + key + ", want YYYY-MM-DD"})
		return "", false
	}
	return d, true
}

func createOne[E any](c *gin.Context, entity string, fn func(context.Context, patch.Patch, string) (*E, error)) {
	var p patch.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		badBody(c)
		return
	}
	out, err := fn(c.Request.Context(), p, middleware.ActorID(c))
	if err != nil {
		fail(c, "create", entity, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func updateOne[E any](c *gin.Context, entity string, fn func(context.Context, string, patch.Patch, string) (*E, error)) {
	var p patch.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		badBody(c)
		return
	}
	out, err := fn(c.Request.Context(), c.Param("id"), p, middleware.ActorID(c))
	if err != nil {
		fail(c, "update", entity, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func deleteOne(c *gin.Context, entity string, fn func(context.Context, string, string) error) {
	if err := fn(c.Request.Context(), c.Param("id"), middleware.ActorID(c)); err != nil {
		fail(c, "delete", entity, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func getOne[E any](c *gin.Context, entity string, fn func(context.Context, string) (*E, error)) {
	out, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "fetch", entity, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func list[E any](c *gin.Context, entity string, rows []E, err error) {
	if err != nil {
		fail(c, "fetch", entity, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
