package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// HandleRequestIDMiddleware tags every request with an id for log
// correlation, honoring one supplied by the caller.
func (h *handlerImpl) HandleRequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	c.Header(requestIDHeader, requestID)
	c.Set("request_id", requestID)

	h.logger.Debug().
		Str("request_id", requestID).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("handling request")

	c.Next()
}
