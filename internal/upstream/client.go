// Package upstream is the HTTP client for the remote course/enrollment
// backend. The backend owns all durable data; this package only moves
// payloads across and maps wire shapes to the canonical models.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/cursos-tv/enrollment-api/internal/models"
	"github.com/cursos-tv/enrollment-api/pkg/config"
	appErrors "github.com/cursos-tv/enrollment-api/pkg/errors"
)

// actingUserHeader identifies the admin performing destructive calls. The
// contract also accepts the equivalent query parameter for restricted
// network contexts, so both are always sent.
const (
	actingUserHeader = "X-Usuario"
	actingUserQuery  = "usuario"
)

// Observer receives timing for upstream calls. Implemented by the metrics
// service; nil is fine.
type Observer interface {
	ObserveUpstreamRequest(method, path string, status int, duration time.Duration)
}

// Client talks to the remote backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	metrics Observer
}

// New constructs a Client from configuration.
func New(cfg config.UpstreamConfig, logger *zap.Logger, metrics Observer) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: metrics,
	}
}

// ListCourses fetches the full course collection.
func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var wire []wireCourse
	if err := c.do(ctx, http.MethodGet, "/curso", nil, nil, &wire); err != nil {
		return nil, err
	}
	courses := make([]models.Course, 0, len(wire))
	for _, w := range wire {
		courses = append(courses, toCourse(w))
	}
	return courses, nil
}

// GetCourse fetches a single course by id.
func (c *Client) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	var wire wireCourse
	if err := c.do(ctx, http.MethodGet, "/curso/"+strconv.Itoa(id), nil, nil, &wire); err != nil {
		return nil, err
	}
	course := toCourse(wire)
	return &course, nil
}

// CreateCourse registers a new course offering.
func (c *Client) CreateCourse(ctx context.Context, course models.Course) error {
	return c.do(ctx, http.MethodPost, "/curso", fromCourse(course), nil, nil)
}

// DeleteCourse removes a course, identifying the acting admin both via the
// X-Usuario header and the usuario query parameter.
func (c *Client) DeleteCourse(ctx context.Context, id int, actingUser string) error {
	query := url.Values{actingUserQuery: []string{actingUser}}
	headers := http.Header{actingUserHeader: []string{actingUser}}
	path := "/curso/" + strconv.Itoa(id) + "?" + query.Encode()
	return c.do(ctx, http.MethodDelete, path, nil, headers, nil)
}

// SubmitEnrollment posts a validated enrollment. A 409 from the backend
// means the CPF is already enrolled in the course.
func (c *Client) SubmitEnrollment(ctx context.Context, f models.EnrollmentForm, courseID int) error {
	payload, err := fromForm(f, courseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid birth date")
	}
	return c.do(ctx, http.MethodPost, "/aluno/inscricao", payload, nil, nil)
}

// ListRecords fetches the enrollment records for the admin views.
func (c *Client) ListRecords(ctx context.Context) ([]models.EnrollmentRecord, error) {
	var wire []wireStudent
	if err := c.do(ctx, http.MethodGet, "/aluno", nil, nil, &wire); err != nil {
		return nil, err
	}
	records := make([]models.EnrollmentRecord, 0, len(wire))
	for _, w := range wire {
		records = append(records, toRecord(w))
	}
	return records, nil
}

// SendReport bulk-sends enrollment records to the reporting endpoint.
func (c *Client) SendReport(ctx context.Context, records []models.EnrollmentRecord) error {
	wire := make([]wireStudent, 0, len(records))
	for _, r := range records {
		wire = append(wire, fromRecord(r))
	}
	return c.do(ctx, http.MethodPost, "/relatorio", wire, nil, nil)
}

// SendMinorsTerm dispatches the guardian-consent term for underage enrollees.
func (c *Client) SendMinorsTerm(ctx context.Context, records []models.EnrollmentRecord) error {
	wire := make([]wireStudent, 0, len(records))
	for _, r := range records {
		wire = append(wire, fromRecord(r))
	}
	return c.do(ctx, http.MethodPost, "/aluno/termo-menores", wire, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, headers http.Header, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode upstream payload")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upstream request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.observe(method, path, 0, duration)
		c.logger.Warn("upstream request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, appErrors.ErrUpstream.Message)
	}
	defer resp.Body.Close()

	c.observe(method, path, resp.StatusCode, duration)

	switch {
	case resp.StatusCode == http.StatusConflict:
		return appErrors.Clone(appErrors.ErrDuplicateEnrollment, "")
	case resp.StatusCode == http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, "")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.Warn("upstream returned error status",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return appErrors.Wrap(
			fmt.Errorf("status %d", resp.StatusCode),
			appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, appErrors.ErrUpstream.Message,
		)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "decode upstream response")
	}
	return nil
}

func (c *Client) observe(method, path string, status int, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveUpstreamRequest(method, path, status, duration)
	}
}
