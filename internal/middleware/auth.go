package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

// Claims are the fields read from identity-provider tokens. The subject is
// the user ID.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens.
type Authenticator struct {
	secret []byte
	logger *zap.Logger
}

func NewAuthenticator(secret string, logger *zap.Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), logger: logger}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token subject under "user_id".
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(a.secret) == 0 {
			RespondError(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Authentication is not configured")
			c.Abort()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			Unauthorized(c, "Invalid authorization format")
			c.Abort()
			return
		}

		claims, err := a.Parse(tokenString)
		if err != nil {
			a.logger.Warn("JWT parse failed", zap.Error(err))
			Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Next()
	}
}

// OptionalAuth records the user when a valid bearer token is present and
// lets anonymous requests through.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if ok && len(a.secret) > 0 {
			if claims, err := a.Parse(tokenString); err == nil {
				c.Set(userIDKey, claims.Subject)
			}
		}
		c.Next()
	}
}

// Parse validates a token and returns its claims.
func (a *Authenticator) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}

// GetUserID returns the authenticated user's ID, if any.
func GetUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
