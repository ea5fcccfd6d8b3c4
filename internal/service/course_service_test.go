package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cursos-tv/enrollment-api/internal/models"
	"github.com/cursos-tv/enrollment-api/pkg/config"
	appErrors "github.com/cursos-tv/enrollment-api/pkg/errors"
)

type mockCourseClient struct {
	courses    []models.Course
	listErr    error
	listCalls  int
	created    []models.Course
	deletedID  int
	deletedBy  string
	deleteErr  error
	createErr  error
	getCourse  *models.Course
	getErr     error
}

func (m *mockCourseClient) ListCourses(ctx context.Context) ([]models.Course, error) {
	m.listCalls++
	return m.courses, m.listErr
}

func (m *mockCourseClient) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	return m.getCourse, m.getErr
}

func (m *mockCourseClient) CreateCourse(ctx context.Context, course models.Course) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, course)
	return nil
}

func (m *mockCourseClient) DeleteCourse(ctx context.Context, id int, actingUser string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	m.deletedBy = actingUser
	return nil
}

type fakeCache struct {
	entries map[string][]byte
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.deletes = append(c.deletes, key)
	delete(c.entries, key)
	return nil
}

func cacheEnabledConfig() config.CoursesConfig {
	return config.CoursesConfig{CacheEnabled: true, CacheTTL: time.Minute}
}

func TestListDegradesToEmptyOnUpstreamFailure(t *testing.T) {
	client := &mockCourseClient{listErr: appErrors.Clone(appErrors.ErrUpstream, "")}
	svc := NewCourseService(client, nil, config.CoursesConfig{}, nil, nil, zap.NewNop())

	views, degraded, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.True(t, degraded)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestListComputesSeatsAndOpenState(t *testing.T) {
	now := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.Local)
	client := &mockCourseClient{courses: []models.Course{
		{ID: 1, Name: "Fotografia", StartDate: now.AddDate(0, 1, 0), SeatsTotal: 20, SeatsFilled: 18},
		{ID: 2, Name: "Vídeo", StartDate: now.AddDate(0, -1, 0), SeatsTotal: 10, SeatsFilled: 2},
	}}
	svc := NewCourseService(client, nil, config.CoursesConfig{}, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return now }

	views, degraded, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.False(t, degraded)
	require.Len(t, views, 2)
	assert.True(t, views[0].Open)
	assert.Equal(t, 2, views[0].SeatsLeft)
	assert.False(t, views[1].Open)
}

func TestCollectionServesCachedCopy(t *testing.T) {
	client := &mockCourseClient{courses: []models.Course{{ID: 1, Name: "Fotografia"}}}
	cache := newFakeCache()
	svc := NewCourseService(client, cache, cacheEnabledConfig(), nil, nil, zap.NewNop())

	first, err := svc.Collection(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, client.listCalls)

	second, err := svc.Collection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.listCalls, "second read must come from the cache")
}

func TestCreateValidatesAndInvalidatesCache(t *testing.T) {
	client := &mockCourseClient{}
	cache := newFakeCache()
	svc := NewCourseService(client, cache, cacheEnabledConfig(), nil, nil, zap.NewNop())

	err := svc.Create(context.Background(), CreateCourseRequest{Name: "Fotografia"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, client.created)

	err = svc.Create(context.Background(), CreateCourseRequest{
		Name:             "Fotografia",
		Instructor:       "Paulo",
		StartDate:        "2026-09-01",
		EndDate:          "2026-12-01",
		HoursTotal:       40,
		CertificateLabel: "TV Tec",
		SeatsTotal:       20,
	})
	require.NoError(t, err)
	require.Len(t, client.created, 1)
	assert.Equal(t, 2026, client.created[0].StartDate.Year())
	assert.Contains(t, cache.deletes, courseCacheKey)
}

func TestCreateRejectsMalformedDates(t *testing.T) {
	svc := NewCourseService(&mockCourseClient{}, nil, config.CoursesConfig{}, nil, nil, zap.NewNop())

	err := svc.Create(context.Background(), CreateCourseRequest{
		Name:             "Fotografia",
		Instructor:       "Paulo",
		StartDate:        "01/09/2026",
		EndDate:          "2026-12-01",
		HoursTotal:       40,
		CertificateLabel: "TV Tec",
		SeatsTotal:       20,
	})

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields, "start_date")
}

func TestDeletePassesActingUserAndInvalidates(t *testing.T) {
	client := &mockCourseClient{}
	cache := newFakeCache()
	require.NoError(t, cache.Set(context.Background(), courseCacheKey, []models.Course{{ID: 7}}, time.Minute))
	svc := NewCourseService(client, cache, cacheEnabledConfig(), nil, nil, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), 7, "admin"))
	assert.Equal(t, 7, client.deletedID)
	assert.Equal(t, "admin", client.deletedBy)
	assert.Contains(t, cache.deletes, courseCacheKey)
}

func TestResolveByName(t *testing.T) {
	courses := []models.Course{{ID: 1, Name: "Fotografia"}, {ID: 2, Name: "Vídeo"}}

	course, ok := ResolveByName(courses, "Vídeo")
	require.True(t, ok)
	assert.Equal(t, 2, course.ID)

	_, ok = ResolveByName(courses, "Teatro")
	assert.False(t, ok)
}
