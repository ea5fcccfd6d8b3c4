package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cursos-tv/enrollment-api/internal/form"
	"github.com/cursos-tv/enrollment-api/internal/models"
	"github.com/cursos-tv/enrollment-api/pkg/dates"
	appErrors "github.com/cursos-tv/enrollment-api/pkg/errors"
)

type enrollmentSubmitter interface {
	SubmitEnrollment(ctx context.Context, f models.EnrollmentForm, courseID int) error
}

type courseCollection interface {
	Collection(ctx context.Context) ([]models.Course, error)
}

type receiptStore interface {
	Save(ctx context.Context, receipt models.SubmissionReceipt) error
	Last(ctx context.Context) (models.SubmissionReceipt, bool, error)
}

// EnrollmentService runs the submission workflow: validate the form, resolve
// the chosen course against the current collection, check seats, post the
// enrollment and record the receipt. Nothing is retried automatically; every
// failure returns the caller to an editable state.
type EnrollmentService struct {
	client   enrollmentSubmitter
	courses  courseCollection
	receipts receiptStore
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(client enrollmentSubmitter, courses courseCollection, receipts receiptStore, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		client:   client,
		courses:  courses,
		receipts: receipts,
		logger:   logger,
		now:      time.Now,
		inflight: make(map[string]struct{}),
	}
}

// Submit executes one enrollment attempt and returns the receipt on success.
func (s *EnrollmentService) Submit(ctx context.Context, payload models.EnrollmentForm) (*models.SubmissionReceipt, error) {
	key := payload.NationalID + "|" + payload.CourseName
	if !s.acquire(key) {
		return nil, appErrors.Clone(appErrors.ErrSubmitInFlight, "")
	}
	defer s.release(key)

	state := form.FromForm(payload)
	if !state.Validate() {
		return nil, appErrors.Validation(state.Errors())
	}

	courses, err := s.courses.Collection(ctx)
	if err != nil {
		return nil, err
	}

	course, ok := ResolveByName(courses, payload.CourseName)
	if !ok {
		// The client-side list raced a server-side deletion.
		return nil, appErrors.Clone(appErrors.ErrCourseNotFound, "")
	}

	// Best effort only; the backend performs the authoritative check.
	if course.SeatsFilled >= course.SeatsTotal {
		return nil, appErrors.Clone(appErrors.ErrSeatsFull, "")
	}

	if err := s.client.SubmitEnrollment(ctx, state.Form(), course.ID); err != nil {
		return nil, err
	}

	now := s.now()
	receipt := models.SubmissionReceipt{
		Date: now.Format(dates.ISODate),
		Time: now.Format("15:04"),
	}
	if err := s.receipts.Save(ctx, receipt); err != nil {
		// The enrollment went through; only the confirmation display loses
		// its timestamp.
		s.logger.Warn("failed to persist submission receipt", zap.Error(err))
	}

	s.logger.Info("enrollment submitted",
		zap.String("course", course.Name),
		zap.Int("course_id", course.ID),
	)
	return &receipt, nil
}

// LastReceipt returns the receipt of the most recent successful submission.
func (s *EnrollmentService) LastReceipt(ctx context.Context) (*models.SubmissionReceipt, error) {
	receipt, ok, err := s.receipts.Last(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load receipt")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no submission recorded yet")
	}
	return &receipt, nil
}

func (s *EnrollmentService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *EnrollmentService) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}
