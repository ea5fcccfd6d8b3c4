package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cursos-tv/enrollment-api/internal/models"
	appErrors "github.com/cursos-tv/enrollment-api/pkg/errors"
)

type mockSubmitter struct {
	err      error
	calls    int
	lastForm models.EnrollmentForm
	lastID   int
}

func (m *mockSubmitter) SubmitEnrollment(ctx context.Context, f models.EnrollmentForm, courseID int) error {
	m.calls++
	m.lastForm = f
	m.lastID = courseID
	return m.err
}

type mockCourseCollection struct {
	courses []models.Course
	err     error
	calls   int
}

func (m *mockCourseCollection) Collection(ctx context.Context) ([]models.Course, error) {
	m.calls++
	return m.courses, m.err
}

type mockReceiptStore struct {
	saved   []models.SubmissionReceipt
	saveErr error
	last    *models.SubmissionReceipt
}

func (m *mockReceiptStore) Save(ctx context.Context, r models.SubmissionReceipt) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, r)
	return nil
}

func (m *mockReceiptStore) Last(ctx context.Context) (models.SubmissionReceipt, bool, error) {
	if m.last == nil {
		return models.SubmissionReceipt{}, false, nil
	}
	return *m.last, true, nil
}

func testForm() models.EnrollmentForm {
	return models.EnrollmentForm{
		FullName:   "Maria da Silva",
		NationalID: "52998224725",
		Email:      "maria@example.com",
		CourseName: "Fotografia",
		Gender:     models.GenderFemale,
		BirthDate:  "2000-06-15",
		Phone:      "11 99999-0000",
	}
}

func testCourses() []models.Course {
	return []models.Course{
		{ID: 1, Name: "Fotografia", SeatsTotal: 20, SeatsFilled: 5},
		{ID: 2, Name: "Vídeo", SeatsTotal: 10, SeatsFilled: 10},
	}
}

func TestSubmitEmptyFormMakesNoNetworkCall(t *testing.T) {
	submitter := &mockSubmitter{}
	courses := &mockCourseCollection{courses: testCourses()}
	svc := NewEnrollmentService(submitter, courses, &mockReceiptStore{}, zap.NewNop())

	_, err := svc.Submit(context.Background(), models.EnrollmentForm{})

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Len(t, appErr.Fields, 7)
	assert.Zero(t, courses.calls)
	assert.Zero(t, submitter.calls)
}

func TestSubmitRejectsFullCourseWithoutPost(t *testing.T) {
	submitter := &mockSubmitter{}
	courses := &mockCourseCollection{courses: testCourses()}
	svc := NewEnrollmentService(submitter, courses, &mockReceiptStore{}, zap.NewNop())

	payload := testForm()
	payload.CourseName = "Vídeo"
	_, err := svc.Submit(context.Background(), payload)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrSeatsFull.Code, appErr.Code)
	assert.Zero(t, submitter.calls)
}

func TestSubmitGuardsAgainstStaleCourseList(t *testing.T) {
	submitter := &mockSubmitter{}
	courses := &mockCourseCollection{courses: testCourses()}
	svc := NewEnrollmentService(submitter, courses, &mockReceiptStore{}, zap.NewNop())

	payload := testForm()
	payload.CourseName = "Curso Removido"
	_, err := svc.Submit(context.Background(), payload)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrCourseNotFound.Code, appErr.Code)
	assert.Zero(t, submitter.calls)
}

func TestSubmitDistinguishesDuplicateFromGenericFailure(t *testing.T) {
	duplicate := &mockSubmitter{err: appErrors.Clone(appErrors.ErrDuplicateEnrollment, "")}
	generic := &mockSubmitter{err: appErrors.Clone(appErrors.ErrUpstream, "")}
	receipts := &mockReceiptStore{}

	svcDup := NewEnrollmentService(duplicate, &mockCourseCollection{courses: testCourses()}, receipts, zap.NewNop())
	svcGen := NewEnrollmentService(generic, &mockCourseCollection{courses: testCourses()}, receipts, zap.NewNop())

	_, errDup := svcDup.Submit(context.Background(), testForm())
	_, errGen := svcGen.Submit(context.Background(), testForm())

	var dupErr, genErr *appErrors.Error
	require.True(t, errors.As(errDup, &dupErr))
	require.True(t, errors.As(errGen, &genErr))
	assert.Equal(t, appErrors.ErrDuplicateEnrollment.Code, dupErr.Code)
	assert.Equal(t, appErrors.ErrUpstream.Code, genErr.Code)
	assert.NotEqual(t, dupErr.Message, genErr.Message)
	assert.Empty(t, receipts.saved)
}

func TestSubmitSuccessPersistsReceipt(t *testing.T) {
	submitter := &mockSubmitter{}
	receipts := &mockReceiptStore{}
	svc := NewEnrollmentService(submitter, &mockCourseCollection{courses: testCourses()}, receipts, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, time.August, 28, 10, 30, 0, 0, time.Local) }

	receipt, err := svc.Submit(context.Background(), testForm())

	require.NoError(t, err)
	assert.Equal(t, "2026-08-28", receipt.Date)
	assert.Equal(t, "10:30", receipt.Time)
	require.Len(t, receipts.saved, 1)
	assert.Equal(t, *receipt, receipts.saved[0])
	assert.Equal(t, 1, submitter.lastID)
	assert.Equal(t, "52998224725", submitter.lastForm.NationalID)
}

func TestSubmitSingleFlightPerEnrollment(t *testing.T) {
	submitter := &mockSubmitter{}
	svc := NewEnrollmentService(submitter, &mockCourseCollection{courses: testCourses()}, &mockReceiptStore{}, zap.NewNop())

	payload := testForm()
	require.True(t, svc.acquire(payload.NationalID+"|"+payload.CourseName))

	_, err := svc.Submit(context.Background(), payload)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrSubmitInFlight.Code, appErr.Code)
	assert.Zero(t, submitter.calls)

	// A different course for the same CPF is not blocked.
	other := testForm()
	other.CourseName = "Vídeo"
	_, err = svc.Submit(context.Background(), other)
	var otherErr *appErrors.Error
	require.True(t, errors.As(err, &otherErr))
	assert.NotEqual(t, appErrors.ErrSubmitInFlight.Code, otherErr.Code)
}

func TestLastReceipt(t *testing.T) {
	receipts := &mockReceiptStore{last: &models.SubmissionReceipt{Date: "2026-08-01", Time: "09:00"}}
	svc := NewEnrollmentService(&mockSubmitter{}, &mockCourseCollection{}, receipts, zap.NewNop())

	receipt, err := svc.LastReceipt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "09:00", receipt.Time)

	empty := NewEnrollmentService(&mockSubmitter{}, &mockCourseCollection{}, &mockReceiptStore{}, zap.NewNop())
	_, err = empty.LastReceipt(context.Background())
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
