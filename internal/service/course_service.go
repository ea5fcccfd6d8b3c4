package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cursos-tv/enrollment-api/internal/models"
	"github.com/cursos-tv/enrollment-api/pkg/config"
	"github.com/cursos-tv/enrollment-api/pkg/dates"
	appErrors "github.com/cursos-tv/enrollment-api/pkg/errors"
)

const courseCacheKey = "courses:list"

type courseClient interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id int) (*models.Course, error)
	CreateCourse(ctx context.Context, course models.Course) error
	DeleteCourse(ctx context.Context, id int, actingUser string) error
}

type courseCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CreateCourseRequest describes the admin course-registration payload.
type CreateCourseRequest struct {
	Name             string `json:"name" validate:"required"`
	Instructor       string `json:"instructor" validate:"required"`
	StartDate        string `json:"start_date" validate:"required"`
	EndDate          string `json:"end_date" validate:"required"`
	HoursTotal       int    `json:"hours_total" validate:"required,gt=0"`
	CertificateLabel string `json:"certificate_label" validate:"required"`
	SeatsTotal       int    `json:"seats_total" validate:"required,gt=0"`
}

// CourseService serves the read-only course catalogue and the admin
// mutations, fronting the upstream with a short-lived cache.
type CourseService struct {
	client    courseClient
	cache     courseCache
	cacheTTL  time.Duration
	caching   bool
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCourseService constructs a CourseService.
func NewCourseService(client courseClient, cache courseCache, cfg config.CoursesConfig, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CourseService{
		client:    client,
		cache:     cache,
		cacheTTL:  ttl,
		caching:   cfg.CacheEnabled && cache != nil,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Collection returns the course list, serving the cached copy when fresh.
func (s *CourseService) Collection(ctx context.Context) ([]models.Course, error) {
	if s.caching {
		var cached []models.Course
		err := s.cache.Get(ctx, courseCacheKey, &cached)
		if err == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheOperation(true)
			}
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("course cache read failed", zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false)
		}
	}

	courses, err := s.client.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	if s.caching {
		if err := s.cache.Set(ctx, courseCacheKey, courses, s.cacheTTL); err != nil {
			s.logger.Warn("course cache write failed", zap.Error(err))
		}
	}
	return courses, nil
}

// List returns display views of the catalogue. A fetch failure degrades to
// an empty set instead of failing the page: the form stays usable with an
// empty course selection.
func (s *CourseService) List(ctx context.Context) ([]models.CourseView, bool, error) {
	courses, err := s.Collection(ctx)
	if err != nil {
		s.logger.Warn("course list degraded to empty set", zap.Error(err))
		return []models.CourseView{}, true, nil
	}

	views := make([]models.CourseView, 0, len(courses))
	asOf := s.now()
	for _, c := range courses {
		views = append(views, models.CourseView{
			Course:    c,
			Open:      c.OpenForEnrollment(asOf),
			SeatsLeft: c.SeatsLeft(),
		})
	}
	return views, false, nil
}

// Get returns one course view by id.
func (s *CourseService) Get(ctx context.Context, id int) (*models.CourseView, error) {
	course, err := s.client.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.CourseView{
		Course:    *course,
		Open:      course.OpenForEnrollment(s.now()),
		SeatsLeft: course.SeatsLeft(),
	}, nil
}

// Create registers a new course and invalidates the cached list.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	start, err := dates.ParseISO(req.StartDate)
	if err != nil {
		return appErrors.Validation(map[string]string{"start_date": "data inválida"})
	}
	end, err := dates.ParseISO(req.EndDate)
	if err != nil {
		return appErrors.Validation(map[string]string{"end_date": "data inválida"})
	}

	course := models.Course{
		Name:             req.Name,
		Instructor:       req.Instructor,
		StartDate:        start,
		EndDate:          end,
		HoursTotal:       req.HoursTotal,
		CertificateLabel: req.CertificateLabel,
		SeatsTotal:       req.SeatsTotal,
	}
	if err := s.client.CreateCourse(ctx, course); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes a course on behalf of the acting admin.
func (s *CourseService) Delete(ctx context.Context, id int, actingUser string) error {
	if err := s.client.DeleteCourse(ctx, id, actingUser); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CourseService) invalidate(ctx context.Context) {
	if !s.caching {
		return
	}
	if err := s.cache.Delete(ctx, courseCacheKey); err != nil {
		s.logger.Warn("course cache invalidation failed", zap.Error(err))
	}
}

// ResolveByName finds a course by its display name. Enrollment submissions
// select courses by name, so a missing entry means the client list went
// stale against a server-side deletion.
func ResolveByName(courses []models.Course, name string) (*models.Course, bool) {
	for i := range courses {
		if courses[i].Name == name {
			return &courses[i], true
		}
	}
	return nil, false
}
