package validation

import (
	"github.com/gin-gonic/gin"
)

// BindJSON binds the request body into out. A body that cannot be decoded
// at all is reported through the same Errors shape as schema failures, so
// the handler renders a single kind of 400 response.
func BindJSON(c *gin.Context, out interface{}) Errors {
	if err := c.ShouldBindJSON(out); err != nil {
		return Errors{{Field: "body", Message: "invalid request body"}}
	}
	return nil
}
