package httpx

import "github.com/gin-gonic/gin"

// ErrorResponse is the body of every failed request.
// swagger:model
type ErrorResponse struct {
	Success bool `json:"success" example:"false"`
	// Error message
	// example: not found
	Message string `json:"message"`
}

func Fail(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Success: false, Message: msg})
}

// OK writes payload with "success": true merged in.
func OK(c *gin.Context, code int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(code, body)
}
