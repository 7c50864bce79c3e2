package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
	"github.com/hyperskill-app/hyperskill-api/internal/service"
	appErrors "github.com/hyperskill-app/hyperskill-api/pkg/errors"
	"github.com/hyperskill-app/hyperskill-api/pkg/response"
)

// AdminHandler exposes the teacher verification review surface.
type AdminHandler struct {
	service *service.VerificationService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(svc *service.VerificationService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// ListTeachers godoc
// @Summary List teacher applications
// @Description Cursor-paginated applications with status filter, search and sorting
// @Tags Admin
// @Produce json
// @Param status query string false "Filter by verification status" Enums(pending, verified, rejected)
// @Param search query string false "Match against name, email or teaching field"
// @Param sort query string false "Sort column" Enums(name, qualification, created_at)
// @Param order query string false "Sort direction" Enums(asc, desc)
// @Param cursor query string false "Opaque cursor from a previous page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/teachers [get]
func (h *AdminHandler) ListTeachers(c *gin.Context) {
	var query models.VerificationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid listing parameters"))
		return
	}

	page, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, page.Teachers, &page.Page)
}

// Stats godoc
// @Summary Verification stats
// @Description Global counts per verification status over all applications
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/teachers/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats, nil)
}

// GetTeacher godoc
// @Summary Application detail
// @Description Load a single teacher application
// @Tags Admin
// @Produce json
// @Param id path string true "Teacher account id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/teachers/{id} [get]
func (h *AdminHandler) GetTeacher(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record, nil)
}

// Decide godoc
// @Summary Decide an application
// @Description Approve or reject a teacher application
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Teacher account id"
// @Param payload body models.VerificationDecisionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/teachers/{id}/status [patch]
func (h *AdminHandler) Decide(c *gin.Context) {
	var req models.VerificationDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	record, err := h.service.Decide(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record, nil)
}

// Export godoc
// @Summary Export teacher roster
// @Description Download the full roster as CSV or PDF
// @Tags Admin
// @Produce octet-stream
// @Param format query string false "Export format" Enums(csv, pdf)
// @Success 200 {file} byte
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/teachers/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	payload, contentType, filename, err := h.service.Export(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
