package middleware

import (
	apiError "b2b-print-designer/internal/errors"
	"log"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Execute the handler first

		// detect any errors
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			appErr, ok := apiError.As(err)
			if !ok {
				// If it's a raw error we didn't wrap, treat as Internal
				appErr = apiError.Internal(err)
			}

			// LOGGING
			if appErr.Status >= 500 {
				log.Printf("[ERROR] %v\n", appErr.Error())
			} else {
				log.Printf("[INFO] %s: %v\n", appErr.Message, appErr.Internal)
			}

			// Respond with JSON
			c.AbortWithStatusJSON(appErr.Status, appErr)
		}
	}
}
