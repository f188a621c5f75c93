package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/medbook/appointment-flow/internal/validation"
)

// All endpoints answer with a uniform envelope:
// success: {"success": true, "message": ..., "data": ...}
// failure: {"success": false, "error": {"message": ..., "code": ..., "fields": ...}}

type errorBody struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Fields  validation.Errors `json:"fields,omitempty"`
}

func respondData(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string, fields validation.Errors) {
	c.JSON(status, gin.H{
		"success": false,
		"error": errorBody{
			Message: message,
			Code:    code,
			Fields:  fields,
		},
	})
}
