package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
	"github.com/hyperskill-app/hyperskill-api/internal/service"
	appErrors "github.com/hyperskill-app/hyperskill-api/pkg/errors"
	"github.com/hyperskill-app/hyperskill-api/pkg/response"
)

// TeacherHandler exposes the teacher profile and browse routes.
type TeacherHandler struct {
	service *service.TeacherService
}

// NewTeacherHandler creates a new handler.
func NewTeacherHandler(svc *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{service: svc}
}

// Register godoc
// @Summary Submit teacher credentials
// @Description Create the caller's teacher profile, pending verification
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body models.TeacherRegistrationRequest true "Credentials payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers [post]
func (h *TeacherHandler) Register(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.TeacherRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher payload"))
		return
	}

	record, err := h.service.Register(c.Request.Context(), claims.UserID, claims.Email, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, record)
}

// Me godoc
// @Summary Own teacher profile
// @Description Return the caller's teacher record including verification state
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/me [get]
func (h *TeacherHandler) Me(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	record, err := h.service.GetOwn(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record, nil)
}

// Browse godoc
// @Summary Browse verified teachers
// @Description List verified teachers for a teaching field
// @Tags Teachers
// @Produce json
// @Param field query string true "Teaching field"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers [get]
func (h *TeacherHandler) Browse(c *gin.Context) {
	teachers, err := h.service.BrowseVerified(c.Request.Context(), c.Query("field"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, teachers, nil)
}

// Detail godoc
// @Summary Teacher profile
// @Description Return a single verified teacher by id
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/{id} [get]
func (h *TeacherHandler) Detail(c *gin.Context) {
	record, err := h.service.GetVerified(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record, nil)
}
