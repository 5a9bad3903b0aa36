package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/levis-creator/college-system-api/internal/models"
	"github.com/levis-creator/college-system-api/internal/service"
	appErrors "github.com/levis-creator/college-system-api/pkg/errors"
	"github.com/levis-creator/college-system-api/pkg/response"
)

// ProgrammeHandler exposes programme CRUD endpoints.
type ProgrammeHandler struct {
	service *service.ProgrammeService
}

func NewProgrammeHandler(svc *service.ProgrammeService) *ProgrammeHandler {
	return &ProgrammeHandler{service: svc}
}

// List godoc
// @Summary List programmes
// @Tags Programmes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /programmes [get]
func (h *ProgrammeHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get programme
// @Tags Programmes
// @Produce json
// @Param id path int true "Programme ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programmes/{id} [get]
func (h *ProgrammeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	prog, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prog, nil)
}

// Create godoc
// @Summary Create programme
// @Tags Programmes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ProgrammeRequest true "Programme payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /programmes [post]
func (h *ProgrammeHandler) Create(c *gin.Context) {
	var req models.ProgrammeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	prog, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, prog)
}

// Update godoc
// @Summary Update programme
// @Tags Programmes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Programme ID"
// @Param payload body models.ProgrammeUpdate true "Programme payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programmes/{id} [put]
func (h *ProgrammeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.ProgrammeUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	prog, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prog, nil)
}

// Delete godoc
// @Summary Delete programme
// @Tags Programmes
// @Security BearerAuth
// @Param id path int true "Programme ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /programmes/{id} [delete]
func (h *ProgrammeHandler) Delete(c *gin.Context) {
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
