package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cursos-tv/enrollment-api/internal/models"
	"github.com/cursos-tv/enrollment-api/internal/service"
	appErrors "github.com/cursos-tv/enrollment-api/pkg/errors"
	"github.com/cursos-tv/enrollment-api/pkg/response"
)

// ContextSessionKey is the gin context key storing the admin session.
const ContextSessionKey = "adminSession"

// Session protects admin routes by requiring a valid session token.
func Session(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		session, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

// SessionFrom returns the admin session attached to the request, if any.
func SessionFrom(c *gin.Context) (*models.Session, bool) {
	value, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil, false
	}
	session, ok := value.(*models.Session)
	return session, ok
}
