package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/cursos-tv/enrollment-api/internal/models"
	appErrors "github.com/cursos-tv/enrollment-api/pkg/errors"
	"github.com/cursos-tv/enrollment-api/pkg/response"
)

type enrollmentServiceMock struct {
	receipt *models.SubmissionReceipt
	err     error
	last    *models.SubmissionReceipt
	lastErr error
}

func (m *enrollmentServiceMock) Submit(ctx context.Context, payload models.EnrollmentForm) (*models.SubmissionReceipt, error) {
	return m.receipt, m.err
}

func (m *enrollmentServiceMock) LastReceipt(ctx context.Context) (*models.SubmissionReceipt, error) {
	return m.last, m.lastErr
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestEnrollmentHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &enrollmentServiceMock{
		receipt: &models.SubmissionReceipt{Date: "2026-08-28", Time: "10:30"},
	}
	handler := NewEnrollmentHandler(mockSvc)

	payload, _ := json.Marshal(models.EnrollmentForm{FullName: "Maria", NationalID: "52998224725"})
	c, w := newGinContext(http.MethodPost, "/enrollments", payload)

	handler.Submit(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data)
}

func TestEnrollmentHandlerSubmitMapsErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", appErrors.Validation(map[string]string{"cpf": "CPF inválido"}), http.StatusBadRequest},
		{"seats full", appErrors.Clone(appErrors.ErrSeatsFull, ""), http.StatusUnprocessableEntity},
		{"duplicate", appErrors.Clone(appErrors.ErrDuplicateEnrollment, ""), http.StatusConflict},
		{"upstream down", appErrors.Clone(appErrors.ErrUpstream, ""), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewEnrollmentHandler(&enrollmentServiceMock{err: tc.err})

			payload, _ := json.Marshal(models.EnrollmentForm{})
			c, w := newGinContext(http.MethodPost, "/enrollments", payload)

			handler.Submit(c)
			require.Equal(t, tc.status, w.Code)
		})
	}
}

func TestEnrollmentHandlerSubmitRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEnrollmentHandler(&enrollmentServiceMock{})

	c, w := newGinContext(http.MethodPost, "/enrollments", []byte("{not json"))

	handler.Submit(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollmentHandlerReceipt(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEnrollmentHandler(&enrollmentServiceMock{
		last: &models.SubmissionReceipt{Date: "2026-08-28", Time: "10:30"},
	})

	c, w := newGinContext(http.MethodGet, "/enrollments/receipt", nil)

	handler.Receipt(c)
	require.Equal(t, http.StatusOK, w.Code)
}
