package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/darkClaw921/main-site-templats/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	SessionCookie = "admin_session"
	AdminKey      = "admin"
	LoginPath     = "/admin/login"

	adminSubject = "admin"
)

var ErrInvalidPassword = errors.New("invalid password")

// AdminAuth gates the admin area behind one shared password. A successful
// login issues an HS256 token stored in an HttpOnly cookie.
type AdminAuth struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	secureCookie bool
	logger       *slog.Logger
	now          func() time.Time
}

func NewAdminAuth(password, secret string, ttl time.Duration, secureCookie bool, logger *slog.Logger) (*AdminAuth, error) {
	if password == "" || secret == "" {
		return nil, fmt.Errorf("admin password and secret key are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &AdminAuth{
		passwordHash: hash,
		secret:       []byte(secret),
		ttl:          ttl,
		secureCookie: secureCookie,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// Login checks the password and returns a signed session token.
func (a *AdminAuth) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}

	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, expiry and subject of a session token.
func (a *AdminAuth) Validate(tokenString string) error {
	if tokenString == "" {
		return errors.New("empty token")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	if claims.Subject != adminSubject {
		return fmt.Errorf("unexpected subject %q", claims.Subject)
	}
	return nil
}

func (a *AdminAuth) SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(a.ttl.Seconds()), "/", "", a.secureCookie, true)
}

func (a *AdminAuth) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", a.secureCookie, true)
}

// Authenticated reports whether the request carries a valid session.
func (a *AdminAuth) Authenticated(c *gin.Context) bool {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return false
	}
	return a.Validate(cookie) == nil
}

// RequireAdmin rejects requests without a valid session. Page requests are
// redirected to the login form, everything else gets 401.
func (a *AdminAuth) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookie)
		if err == nil {
			err = a.Validate(cookie)
		}
		if err != nil {
			a.logger.WarnContext(c.Request.Context(), "admin access denied", "path", c.Request.URL.Path, "error", err)
			if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
				c.Redirect(http.StatusFound, LoginPath)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized"})
			return
		}

		c.Set(AdminKey, true)
		c.Next()
	}
}
