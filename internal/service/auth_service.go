package service

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cursos-tv/enrollment-api/internal/models"
	"github.com/cursos-tv/enrollment-api/pkg/config"
	appErrors "github.com/cursos-tv/enrollment-api/pkg/errors"
)

// AuthService issues and validates admin session tokens. The session is an
// explicit object carried through the request context; no component reads an
// ambient auth flag.
type AuthService struct {
	cfg       config.SessionConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(cfg config.SessionConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{cfg: cfg, validator: validate, logger: logger, now: time.Now}
}

// Login checks the admin password against the configured bcrypt hash and
// returns a signed session token naming the acting admin.
func (s *AuthService) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	if s.cfg.AdminPasswordHash == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "admin login not configured")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	issuedAt := s.now().UTC()
	claims := jwt.MapClaims{
		"sub": s.cfg.AdminUser,
		"iat": issuedAt.Unix(),
		"exp": issuedAt.Add(s.cfg.Expiration).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session token")
	}

	s.logger.Info("admin session issued", zap.String("user", s.cfg.AdminUser))
	return &models.LoginResponse{
		Token:     token,
		User:      s.cfg.AdminUser,
		ExpiresIn: int64(s.cfg.Expiration.Seconds()),
		IssuedAt:  issuedAt,
	}, nil
}

// ValidateToken parses a session token and returns the session it carries.
func (s *AuthService) ValidateToken(raw string) (*models.Session, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session claims")
	}

	user, _ := claims["sub"].(string)
	if user == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session has no user")
	}

	session := &models.Session{User: user}
	if iat, ok := claims["iat"].(float64); ok {
		session.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	return session, nil
}
