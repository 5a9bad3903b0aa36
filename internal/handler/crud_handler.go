package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/levis-creator/college-system-api/internal/repository"
	"github.com/levis-creator/college-system-api/internal/service"
	appErrors "github.com/levis-creator/college-system-api/pkg/errors"
	"github.com/levis-creator/college-system-api/pkg/response"
)

// CrudHandler serves the five standard endpoints for an entity backed by the
// generic CRUD service. Entities with custom rules get their own handler and
// use this one only for the operations they do not override.
type CrudHandler[T any, PT repository.Identifiable[T]] struct {
	service *service.CrudService[T, PT]
}

func NewCrudHandler[T any, PT repository.Identifiable[T]](svc *service.CrudService[T, PT]) *CrudHandler[T, PT] {
	return &CrudHandler[T, PT]{service: svc}
}

func (h *CrudHandler[T, PT]) List(c *gin.Context) {
	items, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

func (h *CrudHandler[T, PT]) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

func (h *CrudHandler[T, PT]) Create(c *gin.Context) {
	entity := PT(new(T))
	if err := c.ShouldBindJSON(entity); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	created, err := h.service.Add(c.Request.Context(), entity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

func (h *CrudHandler[T, PT]) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	entity := PT(new(T))
	if err := c.ShouldBindJSON(entity); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	updated, err := h.service.Update(c.Request.Context(), id, entity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

func (h *CrudHandler[T, PT]) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
