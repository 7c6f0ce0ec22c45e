package web

import (
	"log/slog"
	"net/http"
	"time"

	"libraryconsole/internal/console/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie   = "console_session"
	requestIDHeader = "X-Request-ID"

	consoleKey   = "console"
	requestIDKey = "requestID"
)

// RequestID tags every request with an id, reusing one sent by a proxy.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one access log line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

// Session binds the request to its console, issuing a cookie for new visitors.
func Session(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(sessionCookie)
		console, sessionID, created := store.Get(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, sessionID, 0, "/", "", false, true)
		}
		c.Set(consoleKey, console)
		c.Next()
	}
}

func consoleFrom(c *gin.Context) *session.Console {
	return c.MustGet(consoleKey).(*session.Console)
}
