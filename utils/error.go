package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message  string            `json:"message"`
	Details  string            `json:"details,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.String("details", details), zap.Int("status", status))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// JSONFieldErrors reports per-field validation failures.
func JSONFieldErrors(c *gin.Context, message string, fields map[string]string) {
	GetLogger().Debug(message, zap.Any("fields", fields))
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: message, Fields: fields})
}

// AbortWithRedirect stops the chain and tells the client where to navigate instead.
func AbortWithRedirect(c *gin.Context, status int, message, target string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Redirect: target})
}
