package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Keys set on the gin context by the request middleware.
const (
	CtxRequestID = "request_id"
	CtxStartTime = "start_time"
	CtxClientID  = "client_id"
)

func withGinContext(c *gin.Context, e *zerolog.Event) *zerolog.Event {
	if c == nil {
		return e
	}
	if id := c.GetString(CtxRequestID); id != "" {
		e.Str(CtxRequestID, id)
	}
	if id := c.Param("clientId"); id != "" {
		e.Str(CtxClientID, id)
	}
	if t := c.GetTime(CtxStartTime); !t.IsZero() {
		e.Dur("duration", time.Since(t))
	}
	return e
}

func Info(c *gin.Context) *zerolog.Event  { return withGinContext(c, log.Info()) }
func Debug(c *gin.Context) *zerolog.Event { return withGinContext(c, log.Debug()) }
func Warn(c *gin.Context) *zerolog.Event  { return withGinContext(c, log.Warn()) }
func Error(c *gin.Context) *zerolog.Event { return withGinContext(c, log.Error()) }
