package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/cursos-tv/enrollment-api/pkg/config"
)

func TestSubmitRateLimitBlocksBurstOverflow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/enrollments", SubmitRateLimit(config.SubmitConfig{RatePerSecond: 0.001, Burst: 2}), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/enrollments", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	require.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, statuses)
}

func TestSubmitRateLimitIsPerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/enrollments", SubmitRateLimit(config.SubmitConfig{RatePerSecond: 0.001, Burst: 1}), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for _, addr := range []string{"10.0.0.1:1234", "10.0.0.2:1234"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/enrollments", nil)
		req.RemoteAddr = addr
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code, addr)
	}
}
