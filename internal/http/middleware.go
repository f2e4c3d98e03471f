package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tazhibayda/oauth-service/internal/log"
	"github.com/tazhibayda/oauth-service/internal/metrics"
	"github.com/tazhibayda/oauth-service/internal/security"
)

const (
	requestIDKey = "X-Request-ID"
	authUserKey  = "authUserID"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDKey, id)
		c.Next()
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.InFlight.Inc()
		start := time.Now()

		c.Next()

		metrics.InFlight.Dec()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).
			Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method,
			strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// RequireAuth gates protected routes. Credential precedence: cookie named
// "token" first, then the Authorization header with the "Bearer " prefix
// stripped. Every failure kind maps to 401, but the bodies stay distinct so
// clients can tell a missing credential from an expired one from a token
// whose subject no longer exists.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"status": "fail", "message": "You are not logged in, please provide token"})
			return
		}

		claims, err := security.Validate(h.JWTSecret, token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, security.ErrExpired) {
				msg = "Token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "fail", "message": msg})
			return
		}

		if _, ok := h.Store.FindByID(claims.Subject); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"status": "fail", "message": "User belonging to this token no longer exists"})
			return
		}

		c.Set(authUserKey, claims.Subject)
		c.Next()
	}
}

// RateLimit is a fixed one-minute window per client IP and route, counted
// in redis. Applied to the password endpoints only. Without redis (or with
// a zero limit) it passes everything through; on redis failure it fails
// open rather than locking users out.
func (h *Handler) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Redis == nil || h.RateLimitPerMin <= 0 {
			c.Next()
			return
		}
		key := "rl:" + c.FullPath() + ":" + c.ClientIP()
		ctx := c.Request.Context()

		n, err := h.Redis.C.Incr(ctx, key).Result()
		if err != nil {
			log.L.Warn("rate limit counter failed", zap.Error(err))
			c.Next()
			return
		}
		if n == 1 {
			h.Redis.C.Expire(ctx, key, time.Minute)
		}
		if n > int64(h.RateLimitPerMin) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				gin.H{"status": "fail", "message": "too many requests"})
			return
		}
		c.Next()
	}
}
