package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyperskill-app/hyperskill-api/internal/service"
	"github.com/hyperskill-app/hyperskill-api/pkg/response"
)

// CatalogHandler serves the learning catalog reference data.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler creates a new handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// Categories godoc
// @Summary Learning categories
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/categories [get]
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, categories, nil)
}

// Fields godoc
// @Summary Learning fields
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/fields [get]
func (h *CatalogHandler) Fields(c *gin.Context) {
	fields, err := h.service.Fields(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, fields, nil)
}
