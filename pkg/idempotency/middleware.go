package idempotency

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderIdempotencyKey is the HTTP header name for the idempotency key
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderReplayed marks a response served from storage
const HeaderReplayed = "Idempotent-Replayed"

// responseWriter captures the response so it can be stored for replay
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware replays the stored response when a mutating request is retried
// with the same Idempotency-Key
func Middleware(config *Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.OnlyMutating && !isMutatingMethod(c.Request.Method) {
			c.Next()
			return
		}

		key := NormalizeKey(c.GetHeader(HeaderIdempotencyKey))
		if key == "" {
			if config.RequireKey {
				abort(c, http.StatusBadRequest, "IDEMPOTENCY_KEY_REQUIRED", ErrKeyRequired.Error())
				return
			}
			c.Next()
			return
		}

		if err := ValidateKeyWithMaxLength(key, config.MaxKeyLength); err != nil {
			abort(c, http.StatusBadRequest, "IDEMPOTENCY_KEY_INVALID", fmt.Sprintf("invalid idempotency key: %v", err))
			return
		}

		var userID string
		if config.UserIDExtractor != nil {
			userID = config.UserIDExtractor(c)
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		process(c, config, key, userID, ComputeFingerprint(c.Request.Method, c.Request.URL.Path, body))
	}
}

func process(c *gin.Context, config *Config, key, userID, fingerprint string) {
	ctx := c.Request.Context()
	logger := config.Logger.WithContext(ctx).With("key", key, "path", c.Request.URL.Path)
	route := c.FullPath()
	method := c.Request.Method
	now := time.Now().UTC()

	claim := &IdempotencyKey{
		ID:                 uuid.NewString(),
		Key:                key,
		UserID:             userID,
		ServiceID:          config.ServiceName,
		RequestPath:        c.Request.URL.Path,
		RequestMethod:      method,
		RequestFingerprint: fingerprint,
		CreatedAt:          now,
		ExpiresAt:          now.Add(config.RetentionPeriod),
	}

	stored, isNew, err := config.Repository.AcquireLock(ctx, claim)
	if err != nil {
		logger.Error("Failed to acquire idempotency key", "error", err)
		config.Metrics.recordStorageError(config.ServiceName, "acquire_lock")
		abort(c, http.StatusServiceUnavailable, "IDEMPOTENCY_STORAGE_UNAVAILABLE", "idempotency storage is temporarily unavailable")
		return
	}
	config.Metrics.recordLockAcquisition(config.ServiceName, route, method, time.Since(now).Seconds())

	if !isNew {
		if stored.RequestFingerprint != fingerprint {
			logger.Warn("Idempotency key reused with a different request")
			config.Metrics.recordParameterMismatch(config.ServiceName, route, method)
			abort(c, http.StatusUnprocessableEntity, "IDEMPOTENCY_PARAMETER_MISMATCH",
				"request differs from the original request with this idempotency key")
			return
		}

		if stored.IsCompleted() {
			logger.Info("Replaying stored response", "statusCode", stored.ResponseCode)
			config.Metrics.recordHit(config.ServiceName, route, method)
			for k, v := range stored.ResponseHeaders {
				c.Header(k, v)
			}
			c.Header(HeaderReplayed, "true")
			contentType := stored.ResponseHeaders["Content-Type"]
			if contentType == "" {
				contentType = "application/json"
			}
			c.Data(stored.ResponseCode, contentType, stored.ResponseBody)
			c.Abort()
			return
		}

		if stored.LockedAt != nil && time.Since(*stored.LockedAt) < config.LockTimeout {
			logger.Warn("Idempotency key is still in flight")
			config.Metrics.recordConcurrentCollision(config.ServiceName, route, method)
			abort(c, http.StatusConflict, "IDEMPOTENCY_CONCURRENT_REQUEST",
				"a request with this idempotency key is currently being processed")
			return
		}
		logger.Info("Taking over stale idempotency key")
	}

	config.Metrics.recordMiss(config.ServiceName, route, method)

	writer := &responseWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
	c.Writer = writer

	c.Next()

	status := writer.Status()
	// server errors are not replayed, the key is released for a retry
	if status >= http.StatusInternalServerError {
		if err := config.Repository.ReleaseLock(ctx, stored.ID); err != nil {
			logger.Error("Failed to release idempotency key", "error", err)
			config.Metrics.recordStorageError(config.ServiceName, "release_lock")
		}
		return
	}

	responseBody := writer.body.Bytes()
	if len(responseBody) > config.MaxResponseSize {
		logger.Warn("Response too large to store", "size", len(responseBody), "maxSize", config.MaxResponseSize)
		responseBody = []byte(fmt.Sprintf(`{"code":"IDEMPOTENCY_RESPONSE_TOO_LARGE","size":%d}`, len(responseBody)))
	}

	if err := config.Repository.StoreResponse(ctx, stored.ID, status, responseBody, responseHeaders(c)); err != nil {
		logger.Error("Failed to store idempotent response", "error", err)
		config.Metrics.recordStorageError(config.ServiceName, "store_response")
	}
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"code": code, "message": message})
}

func isMutatingMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// per-request headers are never replayed
var volatileHeaders = map[string]bool{
	"X-Request-Id":     true,
	"X-Correlation-Id": true,
	"Date":             true,
}

func responseHeaders(c *gin.Context) map[string]string {
	headers := make(map[string]string)
	for k, v := range c.Writer.Header() {
		if len(v) > 0 && !volatileHeaders[http.CanonicalHeaderKey(k)] {
			headers[k] = v[0]
		}
	}
	return headers
}
