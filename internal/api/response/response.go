package response

import "github.com/gin-gonic/gin"

// ErrorBody is the uniform error payload for the JSON API.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody is the payload for success responses that carry no entity.
type MessageBody struct {
	Message string `json:"message"`
}

// Error writes {"error": msg} with the given status and stops the chain.
func Error(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}

// Message writes {"message": msg} with the given status.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, MessageBody{Message: msg})
}
