package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/levis-creator/college-system-api/internal/models"
	"github.com/levis-creator/college-system-api/internal/service"
	appErrors "github.com/levis-creator/college-system-api/pkg/errors"
	"github.com/levis-creator/college-system-api/pkg/response"
)

// CourseUnitHandler exposes course unit CRUD. Reads and deletes come from
// the embedded generic handler; writes go through the unit service for the
// code uniqueness check.
type CourseUnitHandler struct {
	*CrudHandler[models.CourseUnit, *models.CourseUnit]
	service *service.CourseUnitService
}

func NewCourseUnitHandler(svc *service.CourseUnitService) *CourseUnitHandler {
	return &CourseUnitHandler{
		CrudHandler: NewCrudHandler(svc.CrudService),
		service:     svc,
	}
}

// Create godoc
// @Summary Create course unit
// @Tags CourseUnits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CourseUnit true "Course unit payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courseunits [post]
func (h *CourseUnitHandler) Create(c *gin.Context) {
	var unit models.CourseUnit
	if err := c.ShouldBindJSON(&unit); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	created, err := h.service.Add(c.Request.Context(), &unit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update godoc
// @Summary Update course unit
// @Tags CourseUnits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course unit ID"
// @Param payload body models.CourseUnit true "Course unit payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courseunits/{id} [put]
func (h *CourseUnitHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var unit models.CourseUnit
	if err := c.ShouldBindJSON(&unit); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	updated, err := h.service.Update(c.Request.Context(), id, &unit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}
