package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/inventory-core/pkg/auth"
	"github.com/ledgerline/inventory-core/pkg/errors"
	"github.com/ledgerline/inventory-core/pkg/logging"
	"github.com/ledgerline/inventory-core/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	router := gin.New()
	Setup(router, &Config{
		Logger:         logging.NewNop(),
		Metrics:        metrics.New(metrics.DefaultConfig("middleware-test")),
		ServiceName:    "middleware-test",
		AllowedOrigins: []string{"*"},
		RequestTimeout: time.Second,
	})
	return router
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIErrorResponse {
	t.Helper()
	var body APIErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSetup_PropagatesIDs(t *testing.T) {
	router := newRouter()
	var seenCorrelation string
	router.GET("/ping", func(c *gin.Context) {
		seenCorrelation = logging.CorrelationIDFromContext(c.Request.Context())
		c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderCorrelationID, "corr-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "corr-1", w.Header().Get(HeaderCorrelationID))
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "corr-1", seenCorrelation)
}

func TestErrorHandler_MapsAppErrors(t *testing.T) {
	router := newRouter()
	router.GET("/missing", WrapHandler(func(c *gin.Context) error {
		return errors.ErrNotFoundWithID("item", "bolt")
	}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, errors.CodeNotFound, body.Code)
	assert.Equal(t, "/missing", body.Path)
	assert.NotEmpty(t, body.RequestID)
}

func TestRecovery(t *testing.T) {
	router := newRouter()
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, errors.CodeInternalError, decodeError(t, w).Code)
}

func TestNoRoute(t *testing.T) {
	router := newRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ROUTE_NOT_FOUND", decodeError(t, w).Code)
}

func TestContentType(t *testing.T) {
	router := newRouter()
	router.POST("/items", func(c *gin.Context) { c.Status(http.StatusCreated) })

	tests := []struct {
		name        string
		contentType string
		want        int
	}{
		{"json", "application/json", http.StatusCreated},
		{"multipart", "multipart/form-data; boundary=x", http.StatusCreated},
		{"text", "text/plain", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{}`))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestBindAndValidate(t *testing.T) {
	InitValidator()

	type request struct {
		Category string  `json:"category" binding:"required,setting_category"`
		Quantity float64 `json:"quantity" binding:"gt=0"`
	}

	router := newRouter()
	router.POST("/settings", func(c *gin.Context) {
		var req request
		if appErr := BindAndValidate(c, &req); appErr != nil {
			AbortWithAppError(c, appErr)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(`{"category":"colour","quantity":0}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, errors.CodeValidationError, body.Code)
	assert.Contains(t, body.Details["category"], "measure_unit")
	assert.Contains(t, body.Details, "quantity")
}

func TestValidateStruct_SequentialID(t *testing.T) {
	type ref struct {
		ID string `json:"id" validate:"seq_id"`
	}

	assert.Nil(t, ValidateStruct(ref{ID: "PUR-0001"}))
	assert.Nil(t, ValidateStruct(ref{ID: "Sales-12345"}))
	appErr := ValidateStruct(ref{ID: "PUR-1"})
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Details["id"], "PREFIX-0001")
}

func TestBearerAuthAndRequireRole(t *testing.T) {
	jwtService, err := auth.NewJWTService("secret", time.Hour)
	require.NoError(t, err)

	router := newRouter()
	var seenUser string
	router.POST("/audits/:id/apply", BearerAuth(jwtService), RequireRole(auth.RoleSuperAdmin), func(c *gin.Context) {
		seenUser = logging.UserIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	admin, err := jwtService.GenerateToken("boss", "Boss", auth.RoleSuperAdmin)
	require.NoError(t, err)
	clerk, err := jwtService.GenerateToken("clerk", "Clerk", auth.RoleClerk)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"clerk", "Bearer " + clerk, http.StatusForbidden},
		{"super admin", "Bearer " + admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/audits/INV-0001/apply", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
	assert.Equal(t, "boss", seenUser)
}

func TestReadinessCheck(t *testing.T) {
	router := newRouter()
	ready := false
	router.GET("/ready", ReadinessCheck("svc", func(_ context.Context) error {
		if !ready {
			return assert.AnError
		}
		return nil
	}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	ready = true
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
