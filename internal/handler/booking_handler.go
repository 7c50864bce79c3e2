package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
	"github.com/hyperskill-app/hyperskill-api/internal/service"
	appErrors "github.com/hyperskill-app/hyperskill-api/pkg/errors"
	"github.com/hyperskill-app/hyperskill-api/pkg/response"
)

// BookingHandler exposes the session request routes.
type BookingHandler struct {
	service *service.BookingService
}

// NewBookingHandler creates a new handler.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{service: svc}
}

// Book godoc
// @Summary Request a session
// @Description File a session request against a verified teacher
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body models.BookSessionRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /bookings [post]
func (h *BookingHandler) Book(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.BookSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}

	request, err := h.service.Book(c.Request.Context(), claims.UserID, claims.Email, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, request)
}

// Incoming godoc
// @Summary Inbound session requests
// @Description List session requests addressed to the caller
// @Tags Bookings
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Security BearerAuth
// @Router /bookings/incoming [get]
func (h *BookingHandler) Incoming(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	requests, err := h.service.Incoming(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, requests, nil)
}

// Mine godoc
// @Summary Own session requests
// @Description List session requests created by the caller
// @Tags Bookings
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Security BearerAuth
// @Router /bookings/mine [get]
func (h *BookingHandler) Mine(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	requests, err := h.service.Mine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, requests, nil)
}
