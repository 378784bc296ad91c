package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// RecoveryWithLog turns a panic into a generic 500. In debug mode the
// panic value is echoed back as details.
func RecoveryWithLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("❌ Panic recovered on %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, r, debug.Stack())
				body := gin.H{"error": "internal server error"}
				if gin.Mode() == gin.DebugMode {
					body["details"] = fmt.Sprint(r)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()
		c.Next()
	}
}

// NotFound answers unmatched routes and methods.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "route not found",
		})
	}
}
