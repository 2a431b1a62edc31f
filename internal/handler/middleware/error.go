package middleware

import (
	"log/slog"
	"net/http"

	"slot-engine/internal/handler/httperr"
	"slot-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logServerErrors(c)

		if c.Writer.Written() {
			return
		}
		// The most recent public error carries the envelope to send.
		for i := len(c.Errors) - 1; i >= 0; i-- {
			if resp, ok := c.Errors[i].Meta.(httperr.Response); ok && c.Errors[i].IsType(gin.ErrorTypePublic) {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(http.StatusInternalServerError, internalError())
	}
}

func internalError() httperr.Response {
	resp := httperr.Response{Status: http.StatusInternalServerError}
	resp.Error.Code = "internal"
	resp.Error.Message = "Internal server error"
	return resp
}

// logServerErrors records 5xx failures with a trimmed stack.
func logServerErrors(c *gin.Context) {
	if c.Writer.Status() < http.StatusInternalServerError {
		return
	}
	for _, e := range c.Errors {
		slog.Error("request failed",
			"request_id", GetRequestID(c),
			"route", c.FullPath(),
			"error", e.Err,
			"stack", errs.ExtractStackLines(e.Err, stackLines),
		)
	}
}

const stackLines = 12

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic",
					"request_id", GetRequestID(c),
					"route", c.FullPath(),
					"error", err,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, internalError())
			}
		}()
		c.Next()
	}
}
