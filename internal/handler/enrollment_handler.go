package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cursos-tv/enrollment-api/internal/models"
	appErrors "github.com/cursos-tv/enrollment-api/pkg/errors"
	"github.com/cursos-tv/enrollment-api/pkg/response"
)

type enrollmentService interface {
	Submit(ctx context.Context, payload models.EnrollmentForm) (*models.SubmissionReceipt, error)
	LastReceipt(ctx context.Context) (*models.SubmissionReceipt, error)
}

// EnrollmentHandler exposes the public enrollment submission flow.
type EnrollmentHandler struct {
	service enrollmentService
}

// NewEnrollmentHandler creates a new handler.
func NewEnrollmentHandler(svc enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

// Submit godoc
// @Summary Submit enrollment
// @Description Validate the form and enroll the student in the chosen course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body models.EnrollmentForm true "Enrollment form"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Submit(c *gin.Context) {
	var payload models.EnrollmentForm
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}

	receipt, err := h.service.Submit(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, receipt)
}

// Receipt godoc
// @Summary Last submission receipt
// @Description Return the timestamp of the most recent successful submission
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/receipt [get]
func (h *EnrollmentHandler) Receipt(c *gin.Context) {
	receipt, err := h.service.LastReceipt(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, receipt, nil)
}
