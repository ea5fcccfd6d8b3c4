package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cursos-tv/enrollment-api/internal/models"
	"github.com/cursos-tv/enrollment-api/pkg/cpf"
	appErrors "github.com/cursos-tv/enrollment-api/pkg/errors"
	"github.com/cursos-tv/enrollment-api/pkg/response"
)

type recordService interface {
	List(ctx context.Context, filter models.RecordFilter, page int) ([]models.EnrollmentRecord, *models.Pagination, error)
	ExportCSV(ctx context.Context, filter models.RecordFilter) ([]byte, error)
	SendReport(ctx context.Context, filter models.RecordFilter) (int, error)
	SendMinorsTerm(ctx context.Context, filter models.RecordFilter) (int, error)
	Certificate(ctx context.Context, nationalID string) ([]byte, error)
}

// RecordHandler exposes the admin enrollment listing and its exports.
type RecordHandler struct {
	service recordService
}

// NewRecordHandler creates a new handler.
func NewRecordHandler(svc recordService) *RecordHandler {
	return &RecordHandler{service: svc}
}

func filterFrom(c *gin.Context) models.RecordFilter {
	return models.RecordFilter{
		CourseName: c.Query("course"),
		Gender:     models.Gender(c.Query("gender")),
		Bracket:    models.AgeBracket(c.Query("ageBracket")),
	}
}

// List godoc
// @Summary List enrollments
// @Description One page of the filtered enrollment listing
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Param course query string false "Course name"
// @Param gender query string false "Gender"
// @Param ageBracket query string false "Age bracket (18-25, 26-35, 36+)"
// @Param page query int false "Page (1-indexed)"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /records [get]
func (h *RecordHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	records, pagination, err := h.service.List(c.Request.Context(), filterFrom(c), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Export godoc
// @Summary Export enrollments
// @Description Download the whole filtered listing as CSV
// @Tags Records
// @Produce text/csv
// @Security BearerAuth
// @Param course query string false "Course name"
// @Param gender query string false "Gender"
// @Param ageBracket query string false "Age bracket"
// @Success 200 {string} string "CSV content"
// @Failure 401 {object} response.Envelope
// @Router /records/export [get]
func (h *RecordHandler) Export(c *gin.Context) {
	raw, err := h.service.ExportCSV(c.Request.Context(), filterFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("inscricoes-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", raw)
}

// Report godoc
// @Summary Send enrollment report
// @Description Bulk-send the filtered listing to the reporting endpoint
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Param course query string false "Course name"
// @Param gender query string false "Gender"
// @Param ageBracket query string false "Age bracket"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /records/report [post]
func (h *RecordHandler) Report(c *gin.Context) {
	count, err := h.service.SendReport(c.Request.Context(), filterFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"sent": count}, nil)
}

// MinorsTerm godoc
// @Summary Send minors consent term
// @Description Dispatch the guardian consent term for enrollees aged 16 or 17
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Param course query string false "Course name"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /records/minors-term [post]
func (h *RecordHandler) MinorsTerm(c *gin.Context) {
	count, err := h.service.SendMinorsTerm(c.Request.Context(), filterFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"sent": count}, nil)
}

// Certificate godoc
// @Summary Completion certificate
// @Description Render the completion certificate PDF for one enrollee
// @Tags Records
// @Produce application/pdf
// @Security BearerAuth
// @Param cpf path string true "Student CPF (digits only)"
// @Success 200 {string} string "PDF content"
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /records/{cpf}/certificate [get]
func (h *RecordHandler) Certificate(c *gin.Context) {
	nationalID := c.Param("cpf")
	if !cpf.Valid(nationalID) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "CPF inválido"))
		return
	}

	pdf, err := h.service.Certificate(c.Request.Context(), nationalID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "certificado-"+nationalID+".pdf"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
