package gateway

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/warp-contracts/crowdfunding/src/utils/common"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/rs/xid"
)

const (
	headerRequestId         = "X-Request-Id"
	headerIdempotencyKey    = "Idempotency-Key"
	headerIdempotentReplay  = "Idempotent-Replayed"
	authorizationBearerType = "Bearer "
)

// Assigns a request id, applies the request timeout and logs the outcome
func (self *Server) requestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(headerRequestId)
		if id == "" {
			id = xid.New().String()
		}
		c.Set(requestIdKey, id)
		c.Header(headerRequestId, id)

		if self.Config.Gateway.ServerRequestTimeout > 0 && !c.IsWebsocket() {
			ctx, cancel := context.WithTimeout(c.Request.Context(), self.Config.Gateway.ServerRequestTimeout)
			defer cancel()
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()

		status := c.Writer.Status()
		self.monitor.GetReport().Gateway.State.Requests.Inc()
		if status >= http.StatusInternalServerError {
			self.monitor.GetReport().Gateway.Errors.ServerErrors.Inc()
		}

		LOG(c).WithField("method", c.Request.Method).
			WithField("path", c.FullPath()).
			WithField("status", status).
			WithField("latency", time.Since(start)).
			Debug("Request")
	}
}

// Requires a valid bearer token, the subject becomes the caller identity
func (self *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, authorizationBearerType) {
			self.monitor.GetReport().Gateway.Errors.Unauthorized.Inc()
			LOGE(c, ErrMissingToken, http.StatusUnauthorized).Debug("Missing token")
			return
		}

		identity, err := self.auth.Verify(strings.TrimSpace(strings.TrimPrefix(header, authorizationBearerType)))
		if err != nil {
			self.monitor.GetReport().Gateway.Errors.Unauthorized.Inc()
			LOGE(c, err, http.StatusUnauthorized).Debug("Invalid token")
			return
		}

		c.Set(identityKey, identity)
		c.Request = c.Request.WithContext(common.SetIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// Per identity limit of mutating requests
func (self *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !self.limiters.Allow(c.GetString(identityKey)) {
			self.monitor.GetReport().Gateway.Errors.RateLimited.Inc()
			LOGE(c, ErrRateLimited, http.StatusTooManyRequests).Debug("Rate limited")
			return
		}
		c.Next()
	}
}

// Response remembered for an Idempotency-Key
type idempotentResponse struct {
	done        bool
	status      int
	contentType string
	body        []byte
}

// Captures the response body
type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (self *recordingWriter) Write(data []byte) (int, error) {
	self.body.Write(data)
	return self.ResponseWriter.Write(data)
}

func (self *recordingWriter) WriteString(s string) (int, error) {
	self.body.WriteString(s)
	return self.ResponseWriter.WriteString(s)
}

// Replays the first response of a retried request carrying the same Idempotency-Key.
// Keys are scoped to the caller and the route. Server errors are not remembered.
func (self *Server) idempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(headerIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		key = strings.Join([]string{c.GetString(identityKey), c.Request.Method, c.Request.URL.Path, key}, "|")

		err := self.idempotency.Add(key, &idempotentResponse{}, cache.DefaultExpiration)
		if err != nil {
			// Key already seen
			cached, ok := self.idempotency.Get(key)
			if ok {
				previous := cached.(*idempotentResponse)
				if !previous.done {
					LOGE(c, ErrRequestInProgress, http.StatusConflict).Debug("Duplicate request in progress")
					return
				}

				self.monitor.GetReport().Gateway.State.IdempotentReplays.Inc()
				c.Header(headerIdempotentReplay, "true")
				c.Data(previous.status, previous.contentType, previous.body)
				c.Abort()
				LOG(c).WithField("key", key).Debug("Replayed response")
				return
			}
		}

		writer := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		// Drop the placeholder unless a response got stored, also when the handler panics
		stored := false
		defer func() {
			if !stored {
				self.idempotency.Delete(key)
			}
		}()

		c.Next()

		status := writer.Status()
		if status >= http.StatusInternalServerError {
			return
		}

		self.idempotency.Set(key, &idempotentResponse{
			done:        true,
			status:      status,
			contentType: writer.Header().Get("Content-Type"),
			body:        writer.body.Bytes(),
		}, cache.DefaultExpiration)
		stored = true
	}
}
