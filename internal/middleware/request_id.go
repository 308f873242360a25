package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"

	// ContextRequestIDKey is where the correlation id lives in the gin
	// context, mirroring ContextUserKey for the resolved profile.
	ContextRequestIDKey = "request_id"
)

// RequestID tags every request with a correlation id and echoes it back
// in the response. A caller-supplied id is kept so a client can stitch
// its own traces together.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ContextRequestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)

		c.Next()
	}
}

// RequestIDFrom returns the id set by RequestID, or "" outside it.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(ContextRequestIDKey)
}
