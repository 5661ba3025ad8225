// Package middleware contains any custom middleware used in the app
package middleware

import (
	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// RequestIDKey is the gin context key holding the request ID
	RequestIDKey = "requestID"
	// RequestIDHeader echoes the request ID back to the client
	RequestIDHeader = "X-Request-Id"

	requestIDLength = 12
)

// NewRequestIDMiddleware returns a new middleware function that generates a request ID for
// each incoming request and sets it as requestID
func NewRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := gonanoid.New(requestIDLength)
		if err != nil {
			// crypto/rand failing is not something a request can recover from
			id = "unknown"
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestID returns the ID set by NewRequestIDMiddleware, or an empty
// string when the middleware isn't installed
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
