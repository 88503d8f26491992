package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
)

// logServerError records unclassified store/infrastructure errors before the
// handler answers with a generic message. Details never reach the caller.
func logServerError(c *gin.Context, op string, err error) {
	log.Printf("%s %s: %s error: %v", c.Request.Method, c.Request.URL.Path, op, err)
}
