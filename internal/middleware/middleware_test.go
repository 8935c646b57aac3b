package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, method jwt.SigningMethod, secret, subject string, expires time.Time) string {
	t.Helper()
	claims := Claims{
		Email: "dev@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func authRouter(a *Authenticator) *gin.Engine {
	r := gin.New()
	r.GET("/me", a.RequireAuth(), func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var body struct {
		Error APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestRequireAuth(t *testing.T) {
	a := NewAuthenticator(testSecret, zap.NewNop())
	valid := signToken(t, jwt.SigningMethodHS256, testSecret, "user-42", time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, jwt.SigningMethodHS256, "other", "user-42", time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, "user-42", time.Now().Add(-time.Minute)), http.StatusUnauthorized},
		{"no subject", "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, "", time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"wrong algorithm", "Bearer " + signToken(t, jwt.SigningMethodHS512, testSecret, "user-42", time.Now().Add(time.Hour)), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			authRouter(a).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":"user-42"}`, w.Body.String())
			} else {
				assert.Equal(t, ErrCodeUnauthorized, decodeError(t, w).Code)
			}
		})
	}
}

func TestRequireAuthWithoutSecret(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	authRouter(NewAuthenticator("", zap.NewNop())).ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://localhost:8080"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRequestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.New(core)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/models", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/api/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	for _, path := range []string{"/health", "/api/models?taskType=embedding", "/api/boom", "/api/bad"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "/api/models", entries[1].ContextMap()["route"])
	assert.Equal(t, "taskType=embedding", entries[1].ContextMap()["query"])
	assert.NotEmpty(t, entries[1].ContextMap()["request_id"])
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[3].Level)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, 1, time.Minute).WithClock(func() time.Time { return now })

	assert.True(t, rl.Allow("k"))
	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))
	assert.True(t, rl.Allow("other"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))
}

func TestRateLimitMiddlewareHeaders(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	r := gin.New()
	r.Use(RateLimitMiddleware(rl))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, ErrCodeRateLimited, decodeError(t, w).Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestValidationFailedShape(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ValidationFailed(c, assert.AnError)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Error   string `json:"error"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Error)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "body", body.Details[0].Field)
}

func TestGRPCInterceptor(t *testing.T) {
	a := NewAuthenticator(testSecret, zap.NewNop())
	intercept := a.UnaryServerInterceptor()
	handler := func(ctx context.Context, _ interface{}) (interface{}, error) {
		id, _ := GetGRPCUserID(ctx)
		return id, nil
	}

	_, err := intercept(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/infralens.v1.Admin/Sync"}, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	resp, err := intercept(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
	require.NoError(t, err)
	assert.Equal(t, "", resp)

	token := signToken(t, jwt.SigningMethodHS256, testSecret, "user-7", time.Now().Add(time.Hour))
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
	resp, err = intercept(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/infralens.v1.Admin/Sync"}, handler)
	require.NoError(t, err)
	assert.Equal(t, "user-7", resp)
}
